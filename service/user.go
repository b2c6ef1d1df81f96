package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nadvoretskiy13/attestation03/model"
	"github.com/nadvoretskiy13/attestation03/repository"
)

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.ReceptionUser, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, u *model.ReceptionUser) error
}

// PasswordHasher produces and checks one-way password hashes.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, stored string) (bool, error)
}

// Credentials is what an authentication check needs about a user.
type Credentials struct {
	Username     string
	PasswordHash string
}

type UserService struct {
	store  UserStore
	hasher PasswordHasher
}

func NewUserService(store UserStore, hasher PasswordHasher) *UserService {
	return &UserService{store: store, hasher: hasher}
}

// Register creates a staff account. Password confirmation is checked by the caller.
func (s *UserService) Register(ctx context.Context, username, password string) (model.ReceptionUser, error) {
	taken, err := s.store.ExistsByUsername(ctx, username)
	if err != nil {
		return model.ReceptionUser{}, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return model.ReceptionUser{}, ErrUsernameExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.ReceptionUser{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.ReceptionUser{Username: username, Password: hash}
	if err := s.store.Save(ctx, &u); err != nil {
		return model.ReceptionUser{}, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}

func (s *UserService) LoadCredentials(ctx context.Context, username string) (Credentials, error) {
	u, err := s.store.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return Credentials{}, ErrUserNotFound
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("load user: %w", err)
	}
	return Credentials{Username: u.Username, PasswordHash: u.Password}, nil
}

// Authenticate checks password for username. An unknown user and a wrong
// password both return ErrBadCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (Credentials, error) {
	creds, err := s.LoadCredentials(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return Credentials{}, ErrBadCredentials
	}
	if err != nil {
		return Credentials{}, err
	}

	ok, err := s.hasher.Verify(password, creds.PasswordHash)
	if err != nil {
		return Credentials{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return Credentials{}, ErrBadCredentials
	}
	return creds, nil
}
