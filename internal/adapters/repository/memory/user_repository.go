package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vncsmyrnk/notes/internal/core/domain"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	now   func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]*domain.User),
		now:   time.Now,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}

	now := r.now().UTC()
	user.ID = domain.NewID()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.GetByIDWithPassword(ctx, id)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

func (r *UserRepository) GetByIDWithPassword(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// FindByLogin matches the identifier against the email (case-insensitive)
// or the username (exact). The result carries the password hash.
func (r *UserRepository) FindByLogin(ctx context.Context, identifier string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email := strings.ToLower(identifier)
	for _, u := range r.users {
		if u.Email == email || u.Username == identifier {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) UpdateLoginState(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LoginAttempts = user.LoginAttempts
	u.LockUntil = cloneTime(user.LockUntil)
	u.LastLogin = cloneTime(user.LastLogin)
	u.UpdatedAt = r.now().UTC()
	return nil
}

func (r *UserRepository) RegisterFailedLogin(ctx context.Context, id string, now time.Time, policy domain.LockPolicy) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.RegisterFailedLogin(now, policy)
	u.UpdatedAt = r.now().UTC()

	out := cloneUser(u)
	out.PasswordHash = ""
	return out, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.now().UTC()
	return nil
}

// SetActive is not part of the repository port; tests and local tooling
// use it to deactivate accounts.
func (r *UserRepository) SetActive(id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.LockUntil = cloneTime(u.LockUntil)
	c.LastLogin = cloneTime(u.LastLogin)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
