package application

import (
	"context"
	"errors"
	"expvar"
	"sync/atomic"
	"time"

	"cloud.google.com/go/civil"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-registry/internal/domain/entity"
	"github.com/oksasatya/user-registry/internal/domain/policy"
	repo "github.com/oksasatya/user-registry/internal/domain/repository"
)

var (
	usersCreated = expvar.NewInt("users_created")
	usersUpdated = expvar.NewInt("users_updated")
	usersDeleted = expvar.NewInt("users_deleted")
	cacheHits    = expvar.NewInt("user_cache_hits")
)

// Config holds the business settings of the service.
type Config struct {
	MinAge int
}

// UserCache is a read-through cache for FindByID.
type UserCache interface {
	Get(ctx context.Context, id int) (*entity.User, bool, error)
	Set(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int) error
}

// EventPublisher announces successful writes.
type EventPublisher interface {
	Publish(ctx context.Context, ev entity.UserEvent) error
}

// UserIndexer mirrors users into a search index.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id int) error
}

type Service struct {
	Repo   repo.UserRepository
	Config Config
	Logger *logrus.Logger

	Cache  UserCache
	Events EventPublisher
	Index  UserIndexer
	Now    func() time.Time

	// invalidations counts cache invalidations; a read-through fill is dropped
	// when it changed while the store was being read.
	invalidations atomic.Uint64
}

type Option func(*Service)

func WithCache(c UserCache) Option          { return func(s *Service) { s.Cache = c } }
func WithEvents(p EventPublisher) Option    { return func(s *Service) { s.Events = p } }
func WithIndex(i UserIndexer) Option        { return func(s *Service) { s.Index = i } }
func WithClock(now func() time.Time) Option { return func(s *Service) { s.Now = now } }

func NewService(repo repo.UserRepository, cfg Config, logger *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		Repo:   repo,
		Config: cfg,
		Logger: logger,
		Now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the calendar date all date rules are evaluated against.
func (s *Service) Today() civil.Date {
	return civil.DateOf(s.Now())
}

// Validate runs the structural checks and wraps any violations in a ValidationError.
func (s *Service) Validate(u *entity.User) error {
	if errs := policy.ValidateUser(u, s.Today()); errs.HasErrors() {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func (s *Service) checkAge(u *entity.User) error {
	if !policy.IsEligible(u.Birthdate, s.Config.MinAge, s.Today()) {
		return &IneligibleAgeError{MinAge: s.Config.MinAge}
	}
	return nil
}

func (s *Service) FindByID(ctx context.Context, id int) (*entity.User, error) {
	if s.Cache != nil {
		u, ok, err := s.Cache.Get(ctx, id)
		if err != nil {
			s.warn(err, id, "user cache read failed")
		} else if ok {
			cacheHits.Add(1)
			return u, nil
		}
	}

	gen := s.invalidations.Load()
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if s.Cache != nil && s.invalidations.Load() == gen {
		if err := s.Cache.Set(ctx, u); err != nil {
			s.warn(err, id, "user cache write failed")
		} else if s.invalidations.Load() != gen {
			// a write landed between the check and the fill
			s.invalidate(ctx, id)
		}
	}
	return u, nil
}

// Save creates u. On success u and its owned records carry their new ids.
func (s *Service) Save(ctx context.Context, u *entity.User) error {
	if err := s.checkAge(u); err != nil {
		return err
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return err
	}
	usersCreated.Add(1)
	s.afterWrite(ctx, entity.UserCreated, u)
	return nil
}

// Update writes u at u.ID, replacing its owned records.
func (s *Service) Update(ctx context.Context, u *entity.User) error {
	if err := s.checkAge(u); err != nil {
		return err
	}
	if err := s.Repo.Upsert(ctx, u); err != nil {
		return err
	}
	usersUpdated.Add(1)
	s.invalidate(ctx, u.ID)
	s.afterWrite(ctx, entity.UserUpdated, u)
	return nil
}

// DeleteByID succeeds whether or not the user exists.
func (s *Service) DeleteByID(ctx context.Context, id int) error {
	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	usersDeleted.Add(1)
	s.invalidate(ctx, id)
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.warn(err, id, "search index remove failed")
		}
	}
	s.publish(ctx, entity.NewUserEvent(entity.UserDeleted, id, nil, s.Now()))
	return nil
}

func (s *Service) FindUsersByBirthdateBetween(ctx context.Context, from, to civil.Date) ([]entity.User, error) {
	return s.Repo.FindByBirthdateBetween(ctx, from, to)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}

func (s *Service) invalidate(ctx context.Context, id int) {
	if s.Cache == nil {
		return
	}
	s.invalidations.Add(1)
	if err := s.Cache.Delete(ctx, id); err != nil {
		s.warn(err, id, "user cache invalidation failed")
	}
}

func (s *Service) afterWrite(ctx context.Context, t entity.UserEventType, u *entity.User) {
	if s.Index != nil {
		if err := s.Index.Index(ctx, u); err != nil {
			s.warn(err, u.ID, "search index failed")
		}
	}
	s.publish(ctx, entity.NewUserEvent(t, u.ID, u, s.Now()))
}

func (s *Service) publish(ctx context.Context, ev entity.UserEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		s.warn(err, ev.UserID, "publish user event failed")
	}
}

func (s *Service) warn(err error, id int, msg string) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", id).Warn(msg)
	}
}
