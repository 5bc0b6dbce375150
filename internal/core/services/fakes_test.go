package services

import (
	"errors"
	"strings"
	"time"

	"github.com/vncsmyrnk/notes/internal/core/domain"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// slowHasher holds every comparison open long enough for concurrent
// logins to overlap.
type slowHasher struct {
	plainHasher
	delay time.Duration
}

func (h slowHasher) Compare(hash, password string) error {
	time.Sleep(h.delay)
	return h.plainHasher.Compare(hash, password)
}

// fakeTokens encodes the user id into the token text.
type fakeTokens struct{}

func (fakeTokens) GenerateTokenPair(u *domain.User) (*domain.TokenPair, error) {
	return &domain.TokenPair{AccessToken: "access:" + u.ID, RefreshToken: "refresh:" + u.ID, ExpiresIn: 900}, nil
}

func (fakeTokens) VerifyAccess(token string) (*domain.Identity, error) {
	id, ok := strings.CutPrefix(token, "access:")
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return &domain.Identity{UserID: id}, nil
}

func (fakeTokens) VerifyRefresh(token string) (string, error) {
	id, ok := strings.CutPrefix(token, "refresh:")
	if !ok {
		return "", domain.ErrInvalidToken
	}
	return id, nil
}
