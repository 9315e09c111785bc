package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// AuthService turns a verified identity-provider profile into a local user.
type AuthService struct {
	users repo.UserRepo
	plans *PlanService
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, plans *PlanService) *AuthService {
	return &AuthService{users: users, plans: plans}
}

// SignIn upserts the user identified by profile.GoogleSubject and makes sure
// they own at least one plan, so a first login lands on a usable dashboard.
func (s *AuthService) SignIn(ctx context.Context, profile domain.User) (domain.User, error) {
	if strings.TrimSpace(profile.GoogleSubject) == "" {
		return domain.User{}, fmt.Errorf("service.AuthService.SignIn: %w: subject is required", domain.ErrValidation)
	}

	user, err := s.users.Upsert(ctx, profile)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.SignIn: %w", err)
	}
	if _, err := s.plans.EnsureDefault(ctx, user.ID); err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.SignIn: %w", err)
	}
	return user, nil
}

// User returns the user with the given id.
func (s *AuthService) User(ctx context.Context, id uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.User: %w", err)
	}
	return user, nil
}
