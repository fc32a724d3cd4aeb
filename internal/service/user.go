// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/formdrop/formdrop/internal/auth"
	"github.com/formdrop/formdrop/internal/metrics"
	"github.com/formdrop/formdrop/internal/model"
	"github.com/formdrop/formdrop/internal/repository"
	"github.com/formdrop/formdrop/internal/validation"
)

// ErrEmailRegistered is returned when the submitted email is already stored.
var ErrEmailRegistered = errors.New("email already registered")

// UserStore persists and lists users.
// *repository.Repository satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// UserService hashes and stores validated submissions.
type UserService struct {
	store   UserStore
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:   store,
		metrics: recorder,
		logger:  logger,
	}
}

// Register hashes the password and makes exactly one insert attempt.
// It returns ErrEmailRegistered on a uniqueness conflict; any other failure is wrapped.
func (s *UserService) Register(ctx context.Context, sub validation.Submission) (*model.User, error) {
	hash, err := auth.HashPassword(sub.Password)
	if err != nil {
		s.metrics.IncSubmission(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         sub.Name,
		Email:        sub.Email,
		PasswordHash: hash,
		Message:      sub.Message,
	}

	start := time.Now()
	err = s.store.CreateUser(ctx, user)
	s.metrics.ObserveInsertDuration(time.Since(start))

	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			s.metrics.IncSubmission(metrics.OutcomeDuplicate)
			return nil, ErrEmailRegistered
		}
		s.metrics.IncSubmission(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to store user: %w", err)
	}

	s.metrics.IncSubmission(metrics.OutcomeSuccess)
	s.logger.Info("user_registered",
		"user_id", user.ID,
		"has_message", user.Message != nil,
	)

	return user, nil
}

// ListUsers returns all stored users, most recent first.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	s.metrics.IncUsersListed()
	return users, nil
}

// RecordInvalid counts a submission rejected by validation.
func (s *UserService) RecordInvalid() {
	s.metrics.IncSubmission(metrics.OutcomeInvalid)
}
