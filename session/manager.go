// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/google/uuid"
)

// ResetTTL is how long a password reset token stays usable
const ResetTTL = time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthenticated    = errors.New("no valid session")
	ErrResetInvalid       = errors.New("reset token is invalid or expired")
)

// Session is an issued session token
type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal models.Principal
}

// Manager owns authentication state: it issues and revokes sessions,
// resolves tokens to principals and tells subscribers about changes.
type Manager struct {
	db     *sql.DB
	secret string
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	subs    map[int]func(Change)
	nextSub int
	closed  bool
}

func NewManager(db *sql.DB, cfg cliparse.Config) *Manager {
	return &Manager{
		db:     db,
		secret: cfg.SessionSecret,
		ttl:    cfg.SessionTTL,
		now:    func() time.Time { return time.Now().UTC() },
		subs:   make(map[int]func(Change)),
	}
}

// Secret returns the signing secret, reused as a salt for hashed client IPs
func (m *Manager) Secret() string { return m.secret }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the account, profile and role of a new user in one
// transaction. It does not sign the user in.
func (m *Manager) SignUp(ctx context.Context, req models.SignUpRequest) (models.Principal, error) {
	role, err := models.ParseRole(req.Role)
	if err != nil || role == models.RoleNone {
		return models.Principal{}, fmt.Errorf("sign up: %w", models.ErrUnknownRole)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.Principal{}, err
	}

	p := models.Principal{
		UserID:   uuid.NewString(),
		Email:    normalizeEmail(req.Email),
		FullName: strings.TrimSpace(req.FullName),
		Role:     role,
	}

	var exists int
	err = m.db.QueryRowContext(ctx, "SELECT 1 FROM accounts WHERE email = $1", p.Email).Scan(&exists)
	if err == nil {
		return models.Principal{}, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Principal{}, fmt.Errorf("check email: %w", err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Principal{}, fmt.Errorf("begin sign up: %w", err)
	}
	defer tx.Rollback()

	// A concurrent sign-up with the same email loses on the unique index
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (id, email, full_name, created_at)
		VALUES ($1, $2, $3, $4)
	`, p.UserID, p.Email, p.FullName, m.now()); err != nil {
		if db.IsUniqueViolation(err) {
			return models.Principal{}, ErrEmailTaken
		}
		return models.Principal{}, fmt.Errorf("insert profile: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
	`, p.UserID, role.String()); err != nil {
		return models.Principal{}, fmt.Errorf("insert role: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (user_id, email, password_hash) VALUES ($1, $2, $3)
	`, p.UserID, p.Email, hash); err != nil {
		if db.IsUniqueViolation(err) {
			return models.Principal{}, ErrEmailTaken
		}
		return models.Principal{}, fmt.Errorf("insert account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Principal{}, fmt.Errorf("commit sign up: %w", err)
	}

	m.notify(EventSignedUp, p)
	return p, nil
}

// SignIn checks credentials and issues a new session
func (m *Manager) SignIn(ctx context.Context, email, password string) (Session, error) {
	var userID, hash string
	err := m.db.QueryRowContext(ctx, `
		SELECT user_id, password_hash FROM accounts WHERE email = $1
	`, normalizeEmail(email)).Scan(&userID, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("load account: %w", err)
	}

	if !auth.CheckPassword(hash, password) {
		return Session{}, ErrInvalidCredentials
	}

	sessionID, err := auth.GenerateID(16)
	if err != nil {
		return Session{}, err
	}

	now := m.now()
	expires := now.Add(m.ttl)
	token, err := auth.SignSession(m.secret, userID, sessionID, now, m.ttl)
	if err != nil {
		return Session{}, err
	}

	if _, err := m.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, sessionID, userID, now, expires); err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}

	p, err := m.loadPrincipal(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	p.SessionID = sessionID

	m.notify(EventSignedIn, p)
	return Session{Token: token, ExpiresAt: expires, Principal: p}, nil
}

// Resolve maps a session token to its principal. Any token that is not
// signed by us, expired, or whose session row is gone yields
// ErrUnauthenticated.
func (m *Manager) Resolve(ctx context.Context, token string) (models.Principal, error) {
	if token == "" {
		return models.Principal{}, ErrUnauthenticated
	}

	claims, err := auth.ParseSession(m.secret, token)
	if err != nil {
		return models.Principal{}, ErrUnauthenticated
	}

	var userID string
	var expiresAt time.Time
	err = m.db.QueryRowContext(ctx, `
		SELECT user_id, expires_at FROM sessions WHERE id = $1
	`, claims.ID).Scan(&userID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Principal{}, ErrUnauthenticated
	}
	if err != nil {
		return models.Principal{}, fmt.Errorf("load session: %w", err)
	}
	if userID != claims.UserID || !m.now().Before(expiresAt) {
		return models.Principal{}, ErrUnauthenticated
	}

	p, err := m.loadPrincipal(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Principal{}, ErrUnauthenticated
	}
	if err != nil {
		return models.Principal{}, err
	}
	p.SessionID = claims.ID
	return p, nil
}

// loadPrincipal joins the profile with its role. A missing or unknown
// role leaves Role as RoleNone.
func (m *Manager) loadPrincipal(ctx context.Context, userID string) (models.Principal, error) {
	p := models.Principal{UserID: userID}
	var fullName, role sql.NullString
	err := m.db.QueryRowContext(ctx, `
		SELECT p.email, p.full_name, ur.role
		FROM profiles p
		LEFT JOIN user_roles ur ON ur.user_id = p.id
		WHERE p.id = $1
	`, userID).Scan(&p.Email, &fullName, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Principal{}, err
	}
	if err != nil {
		return models.Principal{}, fmt.Errorf("load profile: %w", err)
	}
	p.FullName = fullName.String

	if role.Valid {
		r, err := models.ParseRole(role.String)
		if err != nil {
			slog.Warn("unknown role stored for user", "user_id", userID, "role", role.String)
		}
		p.Role = r
	}
	return p, nil
}

// SignOut revokes the principal's current session
func (m *Manager) SignOut(ctx context.Context, p models.Principal) error {
	if p.SessionID == "" {
		return ErrUnauthenticated
	}
	if _, err := m.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = $1", p.SessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.notify(EventSignedOut, p)
	return nil
}

// RequestPasswordReset stores a one-time reset token for the account with
// this email and returns it. An unknown email returns an empty token and
// no error so callers cannot tell accounts apart.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var userID string
	err := m.db.QueryRowContext(ctx, "SELECT user_id FROM accounts WHERE email = $1", normalizeEmail(email)).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load account: %w", err)
	}

	token, err := auth.GenerateToken()
	if err != nil {
		return "", err
	}

	if _, err := m.db.ExecContext(ctx, `
		INSERT INTO password_resets (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, auth.HashToken(token), userID, m.now().Add(ResetTTL)); err != nil {
		return "", fmt.Errorf("insert reset: %w", err)
	}

	return token, nil
}

// ResetPassword consumes a reset token, replaces the password and revokes
// every session of the account.
func (m *Manager) ResetPassword(ctx context.Context, token, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	tokenHash := auth.HashToken(token)

	var userID string
	var expiresAt time.Time
	var usedAt sql.NullTime
	err = m.db.QueryRowContext(ctx, `
		SELECT user_id, expires_at, used_at FROM password_resets WHERE token_hash = $1
	`, tokenHash).Scan(&userID, &expiresAt, &usedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrResetInvalid
	}
	if err != nil {
		return fmt.Errorf("load reset: %w", err)
	}
	now := m.now()
	if usedAt.Valid || !now.Before(expiresAt) {
		return ErrResetInvalid
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	// Only one concurrent confirm can flip used_at from NULL
	res, err := tx.ExecContext(ctx, `
		UPDATE password_resets SET used_at = $1
		WHERE token_hash = $2 AND used_at IS NULL
	`, now, tokenHash)
	if err != nil {
		return fmt.Errorf("mark reset used: %w", err)
	}
	claimed, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark reset used: %w", err)
	}
	if claimed != 1 {
		return ErrResetInvalid
	}

	if _, err := tx.ExecContext(ctx, "UPDATE accounts SET password_hash = $1 WHERE user_id = $2", hash, userID); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}

	m.notify(EventPasswordReset, models.Principal{UserID: userID})
	return nil
}
