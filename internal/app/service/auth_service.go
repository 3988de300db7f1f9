package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prephub/internal/common"
	"prephub/internal/common/security"
	"prephub/internal/domain/model"
	"prephub/internal/domain/repository"
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         *model.User `json:"user"`
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, common.ErrBadRequest
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user with this email already exists: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	// The very first account in an empty store becomes the admin.
	usersExist, err := s.userRepo.Any(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to probe user store: %w", err)
	}
	role := model.RoleAdmin
	if usersExist {
		role = model.RoleUser
	}

	return s.createUser(ctx, req.Email, req.Password, req.Name, role)
}

// CreateAdmin behaves like Signup but forces the admin role. Only admins may
// call it.
func (s *AuthService) CreateAdmin(ctx context.Context, req SignupRequest, requesterRole string) (*AuthResult, error) {
	if requesterRole != model.RoleAdmin {
		return nil, fmt.Errorf("only admins can create admin users: %w", common.ErrForbidden)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, common.ErrBadRequest
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user with this email already exists: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	return s.createUser(ctx, req.Email, req.Password, req.Name, model.RoleAdmin)
}

func (s *AuthService) createUser(ctx context.Context, email, password, name, role string) (*AuthResult, error) {
	hashedPassword, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := newEntityID("user")
	tokens, err := security.GenerateTokenPair(userID, email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		Email:        email,
		UserID:       userID,
		Name:         name,
		Password:     hashedPassword,
		Role:         role,
		RefreshToken: tokens.RefreshToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Put(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &AuthResult{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         publicView(user),
	}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Same message as a wrong password, to avoid user enumeration.
			return nil, invalidCredentials()
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.Password) {
		return nil, invalidCredentials()
	}

	tokens, err := s.rotateTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         publicView(user),
	}, nil
}

// RefreshTokens exchanges a valid refresh token for a fresh pair. Only the
// most recently issued refresh token is accepted; an older, rotated-away
// token is rejected even when unexpired.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*security.TokenPair, error) {
	claims, err := security.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	email, err := security.GetEmailFromClaims(claims)
	if err != nil {
		return nil, security.ErrInvalidToken
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, security.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.RefreshToken != refreshToken {
		return nil, security.ErrInvalidToken
	}

	return s.rotateTokens(ctx, user)
}

// rotateTokens issues a new pair and overwrites the stored refresh token,
// invalidating the previous one.
func (s *AuthService) rotateTokens(ctx context.Context, user *model.User) (*security.TokenPair, error) {
	tokens, err := security.GenerateTokenPair(user.UserID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	user.RefreshToken = tokens.RefreshToken
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Put(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return tokens, nil
}

func (s *AuthService) GetUser(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return publicView(user), nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, email, name string) (*model.User, error) {
	if name == "" {
		return nil, common.ErrBadRequest
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Put(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return publicView(user), nil
}

func (s *AuthService) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return common.ErrBadRequest
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if !security.CheckPasswordHash(currentPassword, user.Password) {
		return fmt.Errorf("current password is incorrect: %w", common.ErrUnauthorized)
	}

	hashedPassword, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = hashedPassword
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Put(ctx, user); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

func invalidCredentials() error {
	return fmt.Errorf("invalid email or password: %w", common.ErrUnauthorized)
}

// publicView strips credential material before the record leaves the service.
func publicView(user *model.User) *model.User {
	view := *user
	view.Password = ""
	view.RefreshToken = ""
	return &view
}
