package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sankalp-edu/examhall-backend/internal/model"
	"github.com/sankalp-edu/examhall-backend/internal/repository"
)

// AdminService handles admin account business logic.
type AdminService struct {
	adminRepo   *repository.AdminRepository
	authService *AuthService
}

// NewAdminService creates a new AdminService.
func NewAdminService(adminRepo *repository.AdminRepository, authService *AuthService) *AdminService {
	return &AdminService{adminRepo: adminRepo, authService: authService}
}

// Login authenticates an admin and issues a token with role permissions embedded.
func (s *AdminService) Login(ctx context.Context, email, password string) (string, *model.Admin, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get admin: %w", err)
	}

	if err := s.authService.CheckPassword(admin.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.authService.GenerateAdminToken(admin.ID, string(admin.Role), model.PermissionsForRole(admin.Role))
	if err != nil {
		return "", nil, err
	}

	return token, admin, nil
}

// Create registers a new admin with a hashed password.
func (s *AdminService) Create(ctx context.Context, name, email, password string, role model.AdminRole) (*model.Admin, error) {
	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}
