package domain

import (
	"time"
)

type User struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	IsActive      bool
	LoginAttempts int
	LockUntil     *time.Time
	LastLogin     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LockPolicy configures the account lock state machine.
type LockPolicy struct {
	MaxAttempts  int
	LockDuration time.Duration
}

func DefaultLockPolicy() LockPolicy {
	return LockPolicy{MaxAttempts: 5, LockDuration: 2 * time.Hour}
}

// IsLocked reports whether a lock is in force at now. An expired lock counts
// as unlocked.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// RegisterFailedLogin advances the lock state machine after a password
// mismatch. An expired lock restarts the count at one.
func (u *User) RegisterFailedLogin(now time.Time, policy LockPolicy) {
	if u.LockUntil != nil && !u.LockUntil.After(now) {
		u.LoginAttempts = 1
		u.LockUntil = nil
		return
	}

	u.LoginAttempts++
	if u.LoginAttempts >= policy.MaxAttempts && !u.IsLocked(now) {
		until := now.Add(policy.LockDuration)
		u.LockUntil = &until
	}
}

// RegisterSuccessfulLogin clears the lock state and stamps LastLogin.
func (u *User) RegisterSuccessfulLogin(now time.Time) {
	u.LoginAttempts = 0
	u.LockUntil = nil
	u.LastLogin = &now
}
