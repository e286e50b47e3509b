package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/aussiebroadwan/branchauth/internal/auth/domain"
	"github.com/aussiebroadwan/branchauth/internal/auth/store"
	"github.com/aussiebroadwan/branchauth/pkg/cryptox"
	"github.com/aussiebroadwan/branchauth/pkg/idx"
	"github.com/aussiebroadwan/branchauth/pkg/jwtx"
	"github.com/aussiebroadwan/branchauth/pkg/slogx"
)

var (
	ErrDuplicateEmail      = errors.New("email_taken")
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrInvalidRefreshToken = errors.New("invalid_refresh_token")

	// ErrInvalidToken wraps jwtx.ErrInvalidToken so bearer middleware can tell
	// a rejected token from a lookup failure.
	ErrInvalidToken = fmt.Errorf("invalid_token: %w", jwtx.ErrInvalidToken)
)

var tracer = otel.Tracer("branchauth/service")

// SessionConfig carries the resolved token secrets and lifetimes.
type SessionConfig struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
}

// SessionManager owns the register/login/refresh/logout protocol. Access and
// refresh tokens are signed by separate codecs, and only an argon2 digest of
// the current refresh token is ever stored.
type SessionManager struct {
	Store        store.Store
	Hasher       cryptox.Hasher
	AccessCodec  *jwtx.Codec
	RefreshCodec *jwtx.Codec

	// VerifyAccess resolves bearer tokens for Authenticate.
	VerifyAccess jwtx.VerifyFunc

	Now func() time.Time

	dummyOnce   sync.Once
	dummyDigest string
}

// NewSessionManager builds a SessionManager from resolved configuration.
// Both codecs stamp tokens with the manager's clock.
func NewSessionManager(st store.Store, hasher cryptox.Hasher, cfg SessionConfig) (*SessionManager, error) {
	if len(cfg.AccessSecret) > 0 && bytes.Equal(cfg.AccessSecret, cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}

	m := &SessionManager{
		Store:        st,
		Hasher:       hasher,
		VerifyAccess: jwtx.Verifier(cfg.AccessSecret),
		Now:          time.Now,
	}
	clock := jwtx.WithClock(m.now)

	var err error
	m.AccessCodec, err = jwtx.NewCodec(cfg.AccessSecret, cfg.AccessTTL, clock)
	if err != nil {
		return nil, fmt.Errorf("access token codec: %w", err)
	}
	m.RefreshCodec, err = jwtx.NewCodec(cfg.RefreshSecret, cfg.RefreshTTL, clock)
	if err != nil {
		return nil, fmt.Errorf("refresh token codec: %w", err)
	}
	return m, nil
}

// Register creates an account and opens its first session. Input is
// expected to have passed ValidateRegister.
func (s *SessionManager) Register(ctx context.Context, in domain.RegisterInput) (_ domain.Session, err error) {
	ctx, finish := s.instrument(ctx, "register")
	defer func() { finish(err) }()
	l := slogx.FromContext(ctx)

	switch _, err := s.Store.Users().GetUserByEmail(ctx, in.Email); {
	case err == nil:
		return domain.Session{}, ErrDuplicateEmail
	case !errors.Is(err, store.ErrNotFound):
		return domain.Session{}, fmt.Errorf("lookup email: %w", err)
	}

	passwordHash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        in.Email,
		PasswordHash: passwordHash,
		Role:         in.Role,
		Branch:       in.Branch,
		DisplayName:  in.DisplayName,
		PhoneNumber:  in.PhoneNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tokens, refreshHash, err := s.issue(ctx, user)
	if err != nil {
		return domain.Session{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("create user: %w", err)
		}
		if err := tx.Users().SetRefreshTokenHash(ctx, user.ID, refreshHash, tokens.RefreshExpiresAt); err != nil {
			return fmt.Errorf("store refresh hash: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}

	l.Info("user registered", slog.String("user_id", user.ID), slog.String("role", user.Role))
	return domain.Session{User: user.Sanitize(), Tokens: tokens}, nil
}

// Login checks credentials and opens a new session, replacing any earlier
// one. Unknown emails and wrong passwords are indistinguishable.
func (s *SessionManager) Login(ctx context.Context, email, password string) (_ domain.Session, err error) {
	ctx, finish := s.instrument(ctx, "login")
	defer func() { finish(err) }()
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn the same argon2 cost as a real check.
			s.Hasher.Verify(s.dummy(), password)
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, fmt.Errorf("lookup email: %w", err)
	}

	if !s.Hasher.Verify(user.PasswordHash, password) {
		l.Info("login rejected", slog.String("user_id", user.ID))
		return domain.Session{}, ErrInvalidCredentials
	}

	tokens, refreshHash, err := s.issue(ctx, user)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.Store.Users().SetRefreshTokenHash(ctx, user.ID, refreshHash, tokens.RefreshExpiresAt); err != nil {
		return domain.Session{}, fmt.Errorf("store refresh hash: %w", err)
	}

	return domain.Session{User: user.Sanitize(), Tokens: tokens}, nil
}

// Refresh exchanges a refresh token for a new pair and rotates the stored
// hash. A token that has already been exchanged fails even before it
// expires, and of two concurrent exchanges of the same token only one wins.
func (s *SessionManager) Refresh(ctx context.Context, refreshToken string) (_ domain.Session, err error) {
	ctx, finish := s.instrument(ctx, "refresh")
	defer func() { finish(err) }()
	l := slogx.FromContext(ctx).With(slog.String("token_fp", cryptox.Fingerprint(refreshToken)))

	claims, err := s.RefreshCodec.Verify(refreshToken)
	if err != nil {
		l.Debug("refresh token rejected", "err", err)
		return domain.Session{}, ErrInvalidRefreshToken
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrInvalidRefreshToken
		}
		return domain.Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if !user.HasSession() {
		return domain.Session{}, ErrInvalidRefreshToken
	}

	storedHash := *user.RefreshTokenHash
	if !s.Hasher.Verify(storedHash, refreshToken) {
		l.Warn("stale refresh token presented", slog.String("user_id", user.ID))
		return domain.Session{}, ErrInvalidRefreshToken
	}

	tokens, refreshHash, err := s.issue(ctx, user)
	if err != nil {
		return domain.Session{}, err
	}

	err = s.Store.Users().RotateRefreshTokenHash(ctx, user.ID, storedHash, refreshHash, tokens.RefreshExpiresAt)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			l.Warn("refresh token rotated concurrently", slog.String("user_id", user.ID))
			return domain.Session{}, ErrInvalidRefreshToken
		}
		return domain.Session{}, fmt.Errorf("rotate refresh hash: %w", err)
	}

	return domain.Session{User: user.Sanitize(), Tokens: tokens}, nil
}

// Logout drops the stored refresh hash. It succeeds whether or not a session
// was open. Access tokens already issued stay valid until they expire.
func (s *SessionManager) Logout(ctx context.Context, userID string) (err error) {
	ctx, finish := s.instrument(ctx, "logout")
	defer func() { finish(err) }()

	if err := s.Store.Users().ClearRefreshTokenHash(ctx, userID); err != nil {
		return fmt.Errorf("clear refresh hash: %w", err)
	}
	return nil
}

// Authenticate verifies an access token and confirms its subject still
// exists.
func (s *SessionManager) Authenticate(ctx context.Context, accessToken string) (_ jwtx.Identity, err error) {
	ctx, finish := s.instrument(ctx, "authenticate")
	defer func() { finish(err) }()

	id, err := s.VerifyAccess(accessToken)
	if err != nil {
		slogx.FromContext(ctx).Debug("access token rejected", "err", err)
		return jwtx.Identity{}, ErrInvalidToken
	}

	if _, err := s.Store.Users().GetUserByID(ctx, id.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.Identity{}, ErrInvalidToken
		}
		return jwtx.Identity{}, fmt.Errorf("lookup user: %w", err)
	}
	return id, nil
}

// Me returns the client-safe view of userID.
func (s *SessionManager) Me(ctx context.Context, userID string) (_ domain.UserView, err error) {
	ctx, finish := s.instrument(ctx, "me")
	defer func() { finish(err) }()

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.UserView{}, ErrInvalidToken
		}
		return domain.UserView{}, fmt.Errorf("lookup user: %w", err)
	}
	return user.Sanitize(), nil
}

// ChangePassword replaces the password hash after checking the current
// password, and ends the refresh session so other holders must log in again.
func (s *SessionManager) ChangePassword(ctx context.Context, userID, current, next string) (err error) {
	ctx, finish := s.instrument(ctx, "change_password")
	defer func() { finish(err) }()

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if !s.Hasher.Verify(user.PasswordHash, current) {
		return ErrInvalidCredentials
	}

	newHash, err := s.Hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, newHash); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if err := tx.Users().ClearRefreshTokenHash(ctx, user.ID); err != nil {
			return fmt.Errorf("clear refresh hash: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password changed", slog.String("user_id", user.ID))
	return nil
}

// issue signs both tokens concurrently and hashes the refresh half. Nothing
// is persisted here; callers store the hash before reporting success.
func (s *SessionManager) issue(ctx context.Context, user domain.User) (domain.TokenPair, string, error) {
	claims := jwtx.NewClaims(user.ID, user.Email, user.Role)

	var pair domain.TokenPair
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		token, err := s.AccessCodec.Sign(claims)
		if err != nil {
			return fmt.Errorf("sign access token: %w", err)
		}
		pair.AccessToken = token
		return nil
	})
	g.Go(func() error {
		token, expiresAt, err := s.RefreshCodec.SignExpiring(claims)
		if err != nil {
			return fmt.Errorf("sign refresh token: %w", err)
		}
		pair.RefreshToken = token
		pair.RefreshExpiresAt = expiresAt
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.TokenPair{}, "", err
	}

	refreshHash, err := s.Hasher.Hash(pair.RefreshToken)
	if err != nil {
		return domain.TokenPair{}, "", fmt.Errorf("hash refresh token: %w", err)
	}

	pair.AccessExpiresIn = s.AccessCodec.TTL()
	return pair, refreshHash, nil
}

// instrument opens a span and returns a func that records the outcome.
func (s *SessionManager) instrument(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "session."+op,
		trace.WithAttributes(attribute.String("session.operation", op)),
	)

	return ctx, func(err error) {
		outcome := outcomeOf(err)
		span.SetAttributes(attribute.String("session.outcome", outcome))
		if outcome == OutcomeError {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		recordOperation(op, outcome, time.Since(start))
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	for _, sentinel := range []error{
		ErrDuplicateEmail,
		ErrInvalidCredentials,
		ErrInvalidRefreshToken,
		ErrInvalidToken,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return OutcomeError
}

func (s *SessionManager) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// dummy returns a digest that never matches, computed once with the
// configured hasher so its cost is realistic.
func (s *SessionManager) dummy() string {
	s.dummyOnce.Do(func() {
		digest, err := s.Hasher.Hash(idx.New().String())
		if err == nil {
			s.dummyDigest = digest
		}
	})
	return s.dummyDigest
}
