package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"movie-comments/internal/data/entity"
	"movie-comments/internal/data/repository"
	"movie-comments/internal/dto/request"
	"movie-comments/internal/dto/response"
	"movie-comments/pkg/apperror"
	"movie-comments/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error

	// Authenticate resolves a session token to its user, nil when the token
	// is malformed, unknown, expired or revoked
	Authenticate(ctx context.Context, token string) (*entity.User, error)
	CreateUser(ctx context.Context, req *request.CreateUserRequest) (*entity.User, error)
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

type authService struct {
	repo   *repository.Repository // grouping userRepo & sessionRepo
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)

	// 1. Validasi
	if verr := utils.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	// 2. Find user
	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if errors.Is(err, apperror.ErrNotFound) {
		s.log.Warn("User not found for login", zap.String("username", req.Username))
		return nil, apperror.Unauthorized("invalid username or password")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	// 3. Check password
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		s.log.Warn("Invalid password", zap.Int64("user_id", user.ID))
		return nil, apperror.Unauthorized("invalid username or password")
	}

	// 4. Create session
	session, err := s.createSession(ctx, user.ID, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	return &response.AuthResponse{
		UserID:    user.ID,
		Username:  user.Username,
		Token:     session.Token.String(),
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := utils.ParseSessionToken(token)
	if err != nil {
		s.log.Warn("Invalid token format", zap.Error(err))
		return nil
	}

	if err := s.repo.Session.Revoke(ctx, tokenUUID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	tokenUUID, err := utils.ParseSessionToken(token)
	if err != nil {
		return nil, nil
	}

	session, err := s.repo.Session.FindValidSession(ctx, tokenUUID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.repo.User.FindByID(ctx, session.UserID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session user: %w", err)
	}

	return user, nil
}

func (s *authService) CreateUser(ctx context.Context, req *request.CreateUserRequest) (*entity.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if verr := utils.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User created",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	return user, nil
}

func (s *authService) CleanExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repo.Session.CleanExpiredSessions(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("Expired sessions removed", zap.Int64("count", n))
	}
	return n, nil
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, userID int64, userAgent, ip string) (*entity.Session, error) {
	session := &entity.Session{
		UserID:    userID,
		Token:     utils.GenerateSessionToken(),
		ExpiresAt: time.Now().Add(time.Duration(s.config.Session.TTLHours) * time.Hour),
	}
	if userAgent != "" {
		session.UserAgent = &userAgent
	}
	if ip != "" {
		session.IPAddress = &ip
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
