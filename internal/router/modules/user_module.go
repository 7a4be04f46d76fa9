package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-registry/internal/container"
	handlers "github.com/oksasatya/user-registry/internal/interface/http"
	"github.com/oksasatya/user-registry/internal/interface/middleware"
)

// UserModule serves the /users resource:
//
//	GET    /users/find-people-between-dates?from=&to=
//	GET    /users/:id
//	POST   /users/new
//	PATCH  /users/:id
//	DELETE /users/:id
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()
	var allow middleware.AllowFunc
	if cfg.RateLimitBypassPrivate {
		allow = middleware.AllowPrivateIP()
	}
	limiter := middleware.RateLimit(container.GetRedis(), cfg.RateLimitPerMinute, time.Minute, middleware.KeyByIP(), allow, container.GetLogger())

	users := rg.Group("/users", limiter)
	{
		// Static segment first; gin prefers it over :id anyway.
		users.GET("/find-people-between-dates", m.Handler.FindBetween)
		users.GET("/:id", m.Handler.GetByID)
		users.POST("/new", m.Handler.Create)
		users.PATCH("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}
