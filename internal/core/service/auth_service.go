package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// Identifier modes for Login.
const (
	IdentifyByUsername = "username"
	IdentifyByEmail    = "email"
)

const defaultSessionTTL = 24 * time.Hour

// AuthConfig tunes the authenticator.
type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
	Identifier string
}

// AuthService implements registration, login and session resolution. Tokens
// are HS256 JWTs whose jti names a row in the session table, so a token is
// only honoured while its session is still stored.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	secret   []byte
	ttl      time.Duration
	byEmail  bool
	now      func() time.Time
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, cfg AuthConfig, log zerolog.Logger) *AuthService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		secret:   []byte(cfg.JWTSecret),
		ttl:      ttl,
		byEmail:  cfg.Identifier == IdentifyByEmail,
		now:      time.Now,
		log:      log,
	}
}

// Register creates a user account. Self-registration always yields the user
// role.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	return s.createUser(ctx, username, email, password, domain.RoleUser)
}

// SeedAdmin creates an admin account unless the username is already taken.
func (s *AuthService) SeedAdmin(ctx context.Context, username, email, password string) error {
	_, err := s.createUser(ctx, username, email, password, domain.RoleAdmin)
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	return err
}

func (s *AuthService) createUser(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("register: %w: username, email and password are required", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return created, nil
}

// Login verifies the credentials and opens a session. An unknown identifier
// and a wrong secret fail identically with domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*ports.LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_input").Inc()
		return nil, fmt.Errorf("login: %w: username and password are required", domain.ErrInvalidInput)
	}

	user, err := s.lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)) != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: save session: %w", err)
	}

	token, err := s.sign(session)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: sign token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("session opened")

	return &ports.LoginResult{
		Token:       token,
		Role:        user.Role,
		ExpiresAt:   session.ExpiresAt,
		RedirectURL: redirectFor(user.Role),
	}, nil
}

func (s *AuthService) lookup(ctx context.Context, identifier string) (*domain.User, error) {
	if s.byEmail {
		return s.users.FindByEmail(ctx, identifier)
	}
	return s.users.FindByUsername(ctx, identifier)
}

func redirectFor(role domain.Role) string {
	if role == domain.RoleAdmin {
		return "/admin"
	}
	return "/shop"
}

func (s *AuthService) sign(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"jti":      session.ID,
		"sub":      session.UserID,
		"username": session.Username,
		"role":     string(session.Role),
		"iat":      session.IssuedAt.Unix(),
		"exp":      session.ExpiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// sessionID extracts the jti of a correctly signed token. Expiry is only
// checked when validate is set.
func (s *AuthService) sessionID(token string, validate bool) (string, bool) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if !validate {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", false
	}

	jti, _ := claims["jti"].(string)
	return jti, jti != ""
}

// ResolveSession maps a token to its live session.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.Session, bool) {
	if token == "" {
		return nil, false
	}
	id, ok := s.sessionID(token, true)
	if !ok {
		return nil, false
	}

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Err(err).Msg("session lookup failed")
		}
		return nil, false
	}
	if session.Expired(s.now()) {
		return nil, false
	}
	return session, true
}

// Logout destroys the session behind token. Unknown or malformed tokens are
// ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	id, ok := s.sessionID(token, false)
	if !ok {
		return nil
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
