package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-review/internal/authz"
	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/dto/request"
	"movie-review/internal/dto/response"
	"movie-review/pkg/apperr"
	"movie-review/pkg/token"
	"movie-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientInfo is stored with a session for auditing.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.TokenResponse, error)
	Refresh(ctx context.Context, req *request.RefreshRequest, client ClientInfo) (*response.TokenResponse, error)
	Logout(ctx context.Context, p *authz.Principal, req *request.RefreshRequest) error
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

type authService struct {
	repo   *repository.Repository // users and sessions
	tokens *token.Manager
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(repo *repository.Repository, tokens *token.Manager, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

var errInvalidRefresh = apperr.Unauthenticated("invalid or expired refresh token")

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	if err := validate(s.log, "Register", req); err != nil {
		return nil, err
	}

	existing, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", req.Username))
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.ValidationFields("validation failed", map[string]string{
			"username": "A user with that username already exists",
		})
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same name.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("a user with that username already exists")
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("username", req.Username))
		return nil, apperr.Internal(err)
	}

	s.log.Info("User registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.TokenResponse, error) {
	if err := validate(s.log, "Login", req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("username", req.Username))
		return nil, apperr.Internal(err)
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Login failed", zap.String("username", req.Username))
		return nil, apperr.Unauthenticated("invalid credentials")
	}

	resp, err := s.issue(ctx, user.ID, client)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.Int64("user_id", user.ID))
	return resp, nil
}

// Refresh rotates a refresh token: the presented session is revoked and a
// new pair is issued. A token can be used once.
func (s *authService) Refresh(ctx context.Context, req *request.RefreshRequest, client ClientInfo) (*response.TokenResponse, error) {
	if err := validate(s.log, "Refresh", req); err != nil {
		return nil, err
	}

	userID, jti, err := s.parseRefresh(req.RefreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.repo.Session.FindValidSession(ctx, jti)
	if err != nil {
		s.log.Error("Failed to find session", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if session == nil || session.UserID != userID {
		return nil, errInvalidRefresh
	}

	if err := s.repo.Session.Revoke(ctx, jti); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidRefresh
		}
		s.log.Error("Failed to revoke session", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	resp, err := s.issue(ctx, userID, client)
	if err != nil {
		// The user was deleted between issuing and refreshing.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidRefresh
		}
		return nil, err
	}

	s.log.Info("Token refreshed", zap.Int64("user_id", userID))
	return resp, nil
}

// Logout revokes the session behind a refresh token. Revoking an already
// revoked token succeeds.
func (s *authService) Logout(ctx context.Context, p *authz.Principal, req *request.RefreshRequest) error {
	if err := validate(s.log, "Logout", req); err != nil {
		return err
	}

	userID, jti, err := s.parseRefresh(req.RefreshToken)
	if err != nil {
		return apperr.Validation("invalid refresh token")
	}

	if err := authorize(p, authz.ActionLogout, userID); err != nil {
		return err
	}

	if err := s.repo.Session.Revoke(ctx, jti); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return apperr.Internal(err)
	}

	s.log.Info("User logged out", zap.Int64("user_id", userID))
	return nil
}

func (s *authService) CleanExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repo.Session.CleanExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("clean expired sessions: %w", err)
	}
	if n > 0 {
		s.log.Info("Expired sessions removed", zap.Int64("count", n))
	}
	return n, nil
}

func (s *authService) parseRefresh(raw string) (int64, uuid.UUID, error) {
	claims, err := s.tokens.Verify(raw, token.TypeRefresh)
	if err != nil {
		s.log.Debug("Refresh token rejected", zap.Error(err))
		return 0, uuid.Nil, errInvalidRefresh
	}

	userID, err := claims.UserID()
	if err != nil {
		return 0, uuid.Nil, errInvalidRefresh
	}

	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		return 0, uuid.Nil, errInvalidRefresh
	}

	return userID, jti, nil
}

func (s *authService) issue(ctx context.Context, userID int64, client ClientInfo) (*response.TokenResponse, error) {
	pair, err := s.tokens.Issue(userID)
	if err != nil {
		s.log.Error("Failed to sign tokens", zap.Error(err), zap.Int64("user_id", userID))
		return nil, apperr.Internal(err)
	}

	session := &entity.Session{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     pair.RefreshID,
		ExpiresAt: pair.RefreshExpiresAt,
		CreatedAt: s.now(),
	}
	if client.UserAgent != "" {
		session.UserAgent = &client.UserAgent
	}
	if client.IPAddress != "" {
		session.IPAddress = &client.IPAddress
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		s.log.Error("Failed to create session", zap.Error(err), zap.Int64("user_id", userID))
		return nil, apperr.Internal(err)
	}

	resp := response.TokenToResponse(pair, s.now())
	return &resp, nil
}
