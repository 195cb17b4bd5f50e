package user

import (
	"context"
	"strings"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RegisterUser(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Email == "" {
		return nil, apperr.Validation("email is required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}
	role := Role(strings.ToUpper(req.Role))
	if role == "" {
		role = RoleCashier
	}
	if !ValidRole(role) {
		return nil, apperr.Validation("invalid role: %s", req.Role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *service) ChangeRole(ctx context.Context, id string, role string) (*User, error) {
	newRole := Role(strings.ToUpper(role))
	if !ValidRole(newRole) {
		return nil, apperr.Validation("invalid role: %s", role)
	}
	if err := s.repo.UpdateRole(ctx, id, newRole); err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}
