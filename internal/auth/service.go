package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/core/port"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service is the main auth service with dependencies
type Service struct {
	store          port.Store
	tokenGenerator TokenGenerator
	logger         *slog.Logger
}

func NewService(store port.Store, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		store:          store,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

func NewJWTTokenGenerator(secret string, accessTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &JWTTokenGenerator{
		Secret:          []byte(secret),
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: 24 * 7 * time.Hour,
		now:             time.Now,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.lookup(ctx, dto.Email)
	if err != nil {
		return AuthTokens{}, err
	}
	if u == nil || u.PasswordHash == "" {
		s.logger.Warn("login rejected", "email", dto.Email, "reason", "unknown user")
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login rejected", "email", dto.Email, "reason", "password mismatch")
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	return s.issue(u.ID, u.Email, string(u.Role))
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return AuthTokens{}, err
	}

	// The role may have changed since the refresh token was issued.
	u, err := s.lookup(ctx, claims.Email)
	if err != nil {
		return AuthTokens{}, err
	}
	if u == nil || u.ID != claims.UserID {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	return s.issue(u.ID, u.Email, string(u.Role))
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString, TokenTypeAccess)
}

// PrincipalFor resolves an email to a principal without a password check,
// for trusted callers such as the CLI.
func (s *Service) PrincipalFor(ctx context.Context, email string) (*internal.Principal, error) {
	u, err := s.lookup(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, internal.NewNotFound("user", email, internal.ErrCodeUserNotFound)
	}
	return &internal.Principal{UserID: u.ID, Email: u.Email, Role: string(u.Role)}, nil
}

func (s *Service) lookup(ctx context.Context, email string) (*userDatamodel.User, error) {
	var u *userDatamodel.User
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		var err error
		u, err = tx.Users().GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		s.logger.Error("failed to load user for authentication", "email", email, "error", err)
		return nil, internal.NewInternalError("failed to load user", err)
	}
	return u, nil
}

func (s *Service) issue(userID int64, email, role string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, email, role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, email, role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}

	tokens := AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}
	if gen, ok := s.tokenGenerator.(*JWTTokenGenerator); ok {
		tokens.ExpiresIn = int64(gen.AccessTokenTTL.Seconds())
	}
	return tokens, nil
}

func (j *JWTTokenGenerator) GenerateAccessToken(userID int64, email, role string) (string, error) {
	return j.sign(userID, email, role, TokenTypeAccess, j.AccessTokenTTL)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(userID int64, email, role string) (string, error) {
	return j.sign(userID, email, role, TokenTypeRefresh, j.RefreshTokenTTL)
}

func (j *JWTTokenGenerator) sign(userID int64, email, role, tokenType string, ttl time.Duration) (string, error) {
	now := j.clock()
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// ValidateToken validates a JWT token of the given type and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithTimeFunc(j.clock))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenType {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

// WithClock replaces the time source used for issuing and validating tokens.
func (j *JWTTokenGenerator) WithClock(now func() time.Time) *JWTTokenGenerator {
	j.now = now
	return j
}

func (j *JWTTokenGenerator) clock() time.Time {
	if j.now == nil {
		return time.Now()
	}
	return j.now()
}
