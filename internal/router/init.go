package router

import (
	appuser "github.com/oksasatya/user-registry/internal/application"
	"github.com/oksasatya/user-registry/internal/container"
	"github.com/oksasatya/user-registry/internal/domain/repository"
	"github.com/oksasatya/user-registry/internal/infrastructure/cache"
	"github.com/oksasatya/user-registry/internal/infrastructure/events"
	pginfra "github.com/oksasatya/user-registry/internal/infrastructure/postgres"
	"github.com/oksasatya/user-registry/internal/infrastructure/search"
	handlers "github.com/oksasatya/user-registry/internal/interface/http"
	"github.com/oksasatya/user-registry/internal/router/modules"
	"github.com/oksasatya/user-registry/pkg/validation"
)

type UserModuleDeps struct {
	Repo    repository.UserRepository
	Service *appuser.Service
	Handler *handlers.UserHandler
}

func userRepository() repository.UserRepository {
	if repo := container.GetUserRepository(); repo != nil {
		return repo
	}
	return pginfra.NewUserRepository(container.GetPGPool())
}

// BuildUserService wires the optional collaborators that are present in the container.
func BuildUserService(repo repository.UserRepository) *appuser.Service {
	cfg := container.GetConfig()

	var opts []appuser.Option
	if rdb := container.GetRedis(); rdb != nil {
		opts = append(opts, appuser.WithCache(cache.NewRedisUserCache(rdb, cfg.CacheTTL)))
	} else if cfg.CacheSize > 0 {
		opts = append(opts, appuser.WithCache(cache.NewLRUUserCache(cfg.CacheSize, cfg.CacheTTL)))
	}
	if pub := container.GetRabbitPub(); pub != nil {
		opts = append(opts, appuser.WithEvents(events.NewPublisher(pub)))
	}
	if es := container.GetES(); es != nil {
		opts = append(opts, appuser.WithIndex(search.NewUserIndex(es, cfg.ESUsersIndex)))
	}

	return appuser.NewService(repo, appuser.Config{MinAge: cfg.MinAge}, container.GetLogger(), opts...)
}

func buildUserDeps() UserModuleDeps {
	repo := userRepository()
	service := BuildUserService(repo)
	handler := handlers.NewUserHandler(
		service,
		container.GetLogger(),
		validation.RendererFor(container.GetConfig().ValidationErrorFormat),
	)
	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

// InitModules initializes all application modules and registers them with the router registry.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(userDeps.Repo, container.GetLogger())))
	r.Add(modules.NewUserModule(userDeps.Handler))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
