package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
)

type SignInInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignInResult struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	User         models.Profile `json:"user"`
}

type RefreshResult struct {
	AccessToken string `json:"accessToken"`
}

// AuthService issues and refreshes tokens. Tokens are stateless: nothing is
// persisted and nothing can be revoked before expiry.
type AuthService struct {
	users  *UserService
	repo   repositories.UserRepository
	issuer *auth.Issuer
}

func NewAuthService(users *UserService, repo repositories.UserRepository, issuer *auth.Issuer) *AuthService {
	return &AuthService{users: users, repo: repo, issuer: issuer}
}

// SignUp registers a new account.
func (s *AuthService) SignUp(ctx context.Context, in CreateUserInput) (models.User, error) {
	return s.users.Create(ctx, in)
}

// SignIn checks the credentials and issues an access/refresh token pair.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, in SignInInput) (SignInResult, error) {
	u, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return SignInResult{}, err
	}
	if err != nil || !auth.CheckPassword(u.Password, in.Password) {
		return SignInResult{}, apperr.Unauthorizedf("Invalid credentials")
	}

	pair, err := s.issuer.IssuePair(u.ID.Hex(), u.Email)
	if err != nil {
		return SignInResult{}, err
	}
	return SignInResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         u.Profile(),
	}, nil
}

// Refresh verifies a refresh token and mints a new access token for the
// user it names.
func (s *AuthService) Refresh(ctx context.Context, token string) (RefreshResult, error) {
	if token == "" {
		return RefreshResult{}, apperr.Unauthorizedf("Refresh token not found in request headers")
	}
	claims, err := s.issuer.ParseRefresh(token)
	if err != nil {
		return RefreshResult{}, apperr.Wrap(err, apperr.Unauthorized, "Invalid refresh token")
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return RefreshResult{}, apperr.Unauthorizedf("Invalid refresh token")
	}
	u, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return RefreshResult{}, apperr.Unauthorizedf("User not found")
	}
	if err != nil {
		return RefreshResult{}, err
	}

	access, err := s.issuer.IssueAccess(u.ID.Hex(), u.Email)
	if err != nil {
		return RefreshResult{}, err
	}
	return RefreshResult{AccessToken: access}, nil
}
