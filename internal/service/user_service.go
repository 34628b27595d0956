package service

import (
	"context"
	"errors"
	"fmt"

	"shareit/internal/apperr"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

func (s *UserService) CreateUser(ctx context.Context, create models.UserCreate) (*models.User, error) {
	existing, err := s.repo.GetUserByEmail(ctx, create.Email)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflictf("user with email %s already exists", create.Email)
	}

	user := &models.User{Name: create.Name, Email: create.Email}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, userNotFound(id)
	}
	return user, err
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != user.Email {
		existing, err := s.repo.GetUserByEmail(ctx, *patch.Email)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflictf("user with email %s already exists", *patch.Email)
		}
		user.Email = *patch.Email
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	err := s.repo.DeleteUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return userNotFound(id)
	}
	return err
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

func userNotFound(id int64) error {
	return apperr.NotFoundf("user with id %d not found", id)
}

// requireUser checks existence without returning the row.
func requireUser(ctx context.Context, repo domain.Repository, id int64) error {
	_, err := repo.GetUserByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return userNotFound(id)
	}
	if err != nil {
		return fmt.Errorf("failed to check user %d: %w", id, err)
	}
	return nil
}
