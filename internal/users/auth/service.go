// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
	"github.com/taibuivan/cadenza/internal/platform/constants"
	"github.com/taibuivan/cadenza/internal/platform/ctxutil"
	"github.com/taibuivan/cadenza/internal/platform/sec"
	"github.com/taibuivan/cadenza/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer signs access tokens for a user ID.
type TokenIssuer interface {
	GenerateAccessToken(userID string, timeToLive time.Duration) (string, time.Time, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	limiter        AttemptLimiter
	issuer         TokenIssuer
	accessTTL      time.Duration
	maxFailures    int
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(users UserRepository, limiter AttemptLimiter, issuer TokenIssuer, accessTTL time.Duration) *Service {
	return &Service{
		userRepository: users,
		limiter:        limiter,
		issuer:         issuer,
		accessTTL:      accessTTL,
		maxFailures:    constants.LoginMaxFailures,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
	Role        sec.Role
}

/*
Register hashes the password and persists a new account.

Only students and teachers can self-register; admins are provisioned out of
band. Uniqueness is enforced by the store.

Returns:
  - *User: Created entity
  - error: Forbidden (admin role), Conflict, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	if input.Role == "" {
		input.Role = sec.RoleStudent
	}
	if input.Role == sec.RoleAdmin {
		return nil, apperr.Forbidden("Admin accounts cannot be self-registered")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	username := strings.TrimSpace(input.Username)
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = username
	}

	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hashedPassword,
		Role:         input.Role,
		DisplayName:  displayName,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Username or email
	Password string
}

// LoginResult is a successfully issued access token.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

/*
Login validates credentials and issues an access token.

Every failure (unknown login, wrong password, throttled login) returns the
same Unauthorized message. The throttle fails open when Redis is down.
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	logger := ctxutil.GetLogger(context)

	failures, err := service.limiter.Failures(context, input.Login)
	if err != nil {
		logger.WarnContext(context, "login_throttle_unavailable", slog.Any("error", err))
	}
	if failures >= service.maxFailures {
		logger.InfoContext(context, "login_throttled", slog.Int("failures", failures))
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	user, err := service.userRepository.FindByLogin(context, input.Login)
	if err != nil {
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, err
		}
		sec.BurnPasswordCheck(input.Password)
		service.recordFailure(context, input.Login)
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.recordFailure(context, input.Login)
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	if err := service.limiter.Reset(context, input.Login); err != nil {
		logger.WarnContext(context, "login_throttle_reset_failed", slog.Any("error", err))
	}

	token, expiresAt, err := service.issuer.GenerateAccessToken(user.ID, service.accessTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   constants.BearerScheme,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

func (service *Service) recordFailure(context context.Context, login string) {
	if err := service.limiter.RecordFailure(context, login); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "login_throttle_record_failed", slog.Any("error", err))
	}
}

// # Current User

/*
Me returns the full account of the authenticated caller.
*/
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}
