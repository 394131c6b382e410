package onboarding

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Code is a stored one-time code for an email address. Only the SHA-256 hash
// of the code is persisted.
type Code struct {
	Email      string
	CodeHash   string
	Attempts   int
	ExpiresAt  time.Time
	CreatedAt  time.Time
	VerifiedAt *time.Time
}

// Store provides database operations for one-time codes. There is at most
// one live code per email; sending a new code replaces the previous one.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const codeColumns = `email, code_hash, attempts, expires_at, created_at, verified_at`

func scanCode(row pgx.Row) (*Code, error) {
	c := &Code{}
	err := row.Scan(&c.Email, &c.CodeHash, &c.Attempts, &c.ExpiresAt, &c.CreatedAt, &c.VerifiedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Upsert stores a fresh code hash for email, resetting the attempt counter
// and any previous verification.
func (s *Store) Upsert(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO otp_codes (email, code_hash, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET
			code_hash = EXCLUDED.code_hash,
			expires_at = EXCLUDED.expires_at,
			attempts = 0,
			created_at = now(),
			verified_at = NULL`,
		email, codeHash, expiresAt)
	if err != nil {
		return fmt.Errorf("upserting code: %w", err)
	}
	return nil
}

// Get retrieves the stored code for an email.
func (s *Store) Get(ctx context.Context, email string) (*Code, error) {
	query := fmt.Sprintf(`SELECT %s FROM otp_codes WHERE email = $1`, codeColumns)
	c, err := scanCode(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("getting code: %w", err)
	}
	return c, nil
}

// IncrementAttempts bumps the failed-attempt counter and returns the new
// count.
func (s *Store) IncrementAttempts(ctx context.Context, email string) (int, error) {
	var attempts int
	err := s.pool.QueryRow(ctx,
		`UPDATE otp_codes SET attempts = attempts + 1 WHERE email = $1 RETURNING attempts`,
		email).Scan(&attempts)
	if err != nil {
		return 0, fmt.Errorf("incrementing attempts: %w", err)
	}
	return attempts, nil
}

// MarkVerified records a successful verification.
func (s *Store) MarkVerified(ctx context.Context, email string, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE otp_codes SET verified_at = $2 WHERE email = $1`, email, at)
	if err != nil {
		return fmt.Errorf("marking code verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the stored code for an email. Missing rows are not an
// error; the code may already have been cleaned up.
func (s *Store) Delete(ctx context.Context, email string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM otp_codes WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("deleting code: %w", err)
	}
	return nil
}

// CleanExpired removes codes past their expiry that were never verified.
func (s *Store) CleanExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM otp_codes WHERE expires_at < now() AND verified_at IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("cleaning expired codes: %w", err)
	}
	return tag.RowsAffected(), nil
}
