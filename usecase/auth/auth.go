package auth

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/lifelogger/backend/domain"
	"github.com/lifelogger/backend/repository"
)

const sessionSubject = "site"

// CookieName is the cookie that carries the session token.
const CookieName = "lifelogger_session"

// Session is a signed proof that the caller knows the site password.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Config holds the password gate settings. An empty Password disables the gate.
type Config struct {
	Password string
	Secret   []byte
	Issuer   string
	TTL      time.Duration
}

type UseCase struct {
	cfg     Config
	limiter repository.AttemptLimiter
	now     func() time.Time
	logger  *zap.Logger
}

func New(cfg Config, limiter repository.AttemptLimiter, now func() time.Time, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	return &UseCase{
		cfg:     cfg,
		limiter: limiter,
		now:     now,
		logger:  logger,
	}
}

// Enabled reports whether requests must carry a valid session.
func (uc *UseCase) Enabled() bool {
	return uc != nil && uc.cfg.Password != ""
}

// VerifyPassword counts the attempt against clientKey, then checks the
// password and issues a session on success.
func (uc *UseCase) VerifyPassword(ctx context.Context, clientKey, password string) (*Session, error) {
	if uc.limiter != nil {
		allowed, retryAfter, err := uc.limiter.Hit(ctx, clientKey)
		if err != nil {
			return nil, err
		}
		if !allowed {
			uc.logger.Warn("password attempts exhausted", zap.String("client", clientKey))
			return nil, domain.NewTooManyAttempts(retryAfter)
		}
	}

	if password == "" {
		return nil, domain.NewValidationError("Password is required")
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(uc.cfg.Password)) != 1 {
		uc.logger.Info("incorrect site password", zap.String("client", clientKey))
		return nil, domain.ErrIncorrectPassword
	}
	return uc.issue()
}

func (uc *UseCase) issue() (*Session, error) {
	now := uc.now()
	expires := now.Add(uc.cfg.TTL)
	claims := jwt.RegisteredClaims{
		Issuer:    uc.cfg.Issuer,
		Subject:   sessionSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.cfg.Secret)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires}, nil
}

// ValidateSession checks the signature and expiry of a session token.
func (uc *UseCase) ValidateSession(token string) error {
	if token == "" {
		return domain.ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return uc.cfg.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.WrapError(domain.ErrCodeUnauthorized, "Authentication required", err)
	}
	if claims.Subject != sessionSubject || !claims.VerifyExpiresAt(uc.now(), true) {
		return domain.ErrUnauthorized
	}
	return nil
}
