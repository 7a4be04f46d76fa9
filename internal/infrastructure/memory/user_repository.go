package memory

import (
	"context"
	"sort"
	"sync"

	"cloud.google.com/go/civil"

	"github.com/oksasatya/user-registry/internal/domain/entity"
	"github.com/oksasatya/user-registry/internal/domain/repository"
)

// UserRepository is an in-process record store. Every method holds the lock
// for its whole duration, so single-user writes are atomic.
type UserRepository struct {
	mu    sync.RWMutex
	users map[int]*entity.User

	userSeq    int
	emailSeq   int
	addressSeq int
	phoneSeq   int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int]*entity.User)}
}

func (r *UserRepository) FindByID(_ context.Context, id int) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u.Clone(), nil
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userSeq++
	u.ID = r.userSeq
	r.store(u)
	return nil
}

func (r *UserRepository) Upsert(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID > r.userSeq {
		r.userSeq = u.ID
	}
	r.store(u)
	return nil
}

// store assigns fresh ids to owned records and saves a copy. Caller holds mu.
func (r *UserRepository) store(u *entity.User) {
	if u.Email != nil {
		r.emailSeq++
		u.Email.ID = r.emailSeq
	}
	if u.Address != nil {
		r.addressSeq++
		u.Address.ID = r.addressSeq
	}
	if u.Phone != nil {
		r.phoneSeq++
		u.Phone.ID = r.phoneSeq
	}
	r.users[u.ID] = u.Clone()
}

func (r *UserRepository) DeleteByID(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *UserRepository) FindByBirthdateBetween(_ context.Context, from, to civil.Date) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.User, 0)
	for _, u := range r.users {
		if u.Birthdate.Before(from) || u.Birthdate.After(to) {
			continue
		}
		out = append(out, *u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepository) Ping(context.Context) error { return nil }

var _ repository.UserRepository = (*UserRepository)(nil)
