package affiliate

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stewardhq/steward/internal/crypto"
)

// Store provides database operations for affiliates. Payout accounts are
// encrypted with the configured cipher before they hit the database and
// decrypted on the way out.
type Store struct {
	pool   *pgxpool.Pool
	cipher *crypto.Cipher
}

// NewStore creates a new Store. cipher may be nil, which disables payout
// account encryption.
func NewStore(pool *pgxpool.Pool, cipher *crypto.Cipher) *Store {
	return &Store{pool: pool, cipher: cipher}
}

const affiliateColumns = `id, name, email, referral_code, commission_rate, payout_account, active, created_at, updated_at`

func (s *Store) scanAffiliate(row pgx.Row) (*Affiliate, error) {
	a := &Affiliate{}
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.ReferralCode, &a.CommissionRate,
		&a.PayoutAccount, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if a.PayoutAccount != "" {
		plain, err := s.cipher.Decrypt(a.PayoutAccount)
		if err != nil {
			return nil, fmt.Errorf("decrypting payout account: %w", err)
		}
		a.PayoutAccount = plain
	}
	return a, nil
}

// Create inserts a new affiliate and returns the full row. A referral code
// is generated when the input does not carry one.
func (s *Store) Create(ctx context.Context, in CreateAffiliateInput) (*Affiliate, error) {
	code := in.ReferralCode
	if code == "" {
		var err error
		code, err = generateReferralCode()
		if err != nil {
			return nil, fmt.Errorf("generating referral code: %w", err)
		}
	}

	payout := in.PayoutAccount
	if payout != "" {
		var err error
		payout, err = s.cipher.Encrypt(payout)
		if err != nil {
			return nil, fmt.Errorf("encrypting payout account: %w", err)
		}
	}

	query := fmt.Sprintf(`INSERT INTO affiliates (name, email, referral_code, commission_rate, payout_account, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, affiliateColumns)

	a, err := s.scanAffiliate(s.pool.QueryRow(ctx, query,
		in.Name, in.Email, code, in.CommissionRate, payout, in.Active))
	if err != nil {
		return nil, fmt.Errorf("creating affiliate: %w", err)
	}
	return a, nil
}

// Get retrieves an affiliate by its ID.
func (s *Store) Get(ctx context.Context, id string) (*Affiliate, error) {
	query := fmt.Sprintf(`SELECT %s FROM affiliates WHERE id = $1`, affiliateColumns)
	a, err := s.scanAffiliate(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("getting affiliate: %w", err)
	}
	return a, nil
}

// GetByReferralCode retrieves an affiliate by its referral code.
func (s *Store) GetByReferralCode(ctx context.Context, code string) (*Affiliate, error) {
	query := fmt.Sprintf(`SELECT %s FROM affiliates WHERE referral_code = $1`, affiliateColumns)
	a, err := s.scanAffiliate(s.pool.QueryRow(ctx, query, code))
	if err != nil {
		return nil, fmt.Errorf("getting affiliate by referral code: %w", err)
	}
	return a, nil
}

// List returns all affiliates ordered by created_at DESC.
func (s *Store) List(ctx context.Context) ([]*Affiliate, error) {
	query := fmt.Sprintf(`SELECT %s FROM affiliates ORDER BY created_at DESC`, affiliateColumns)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing affiliates: %w", err)
	}
	defer rows.Close()

	var affiliates []*Affiliate
	for rows.Next() {
		a, err := s.scanAffiliate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning affiliate: %w", err)
		}
		affiliates = append(affiliates, a)
	}
	return affiliates, rows.Err()
}

// Update applies a partial update and returns the updated row.
func (s *Store) Update(ctx context.Context, id string, in UpdateAffiliateInput) (*Affiliate, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *in.Email)
		argIdx++
	}
	if in.CommissionRate != nil {
		setClauses = append(setClauses, fmt.Sprintf("commission_rate = $%d", argIdx))
		args = append(args, *in.CommissionRate)
		argIdx++
	}
	if in.PayoutAccount != nil {
		payout := *in.PayoutAccount
		if payout != "" {
			var err error
			payout, err = s.cipher.Encrypt(payout)
			if err != nil {
				return nil, fmt.Errorf("encrypting payout account: %w", err)
			}
		}
		setClauses = append(setClauses, fmt.Sprintf("payout_account = $%d", argIdx))
		args = append(args, payout)
		argIdx++
	}
	if in.Active != nil {
		setClauses = append(setClauses, fmt.Sprintf("active = $%d", argIdx))
		args = append(args, *in.Active)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.Get(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE affiliates SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, affiliateColumns)

	a, err := s.scanAffiliate(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("updating affiliate: %w", err)
	}
	return a, nil
}

// Delete removes an affiliate by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM affiliates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting affiliate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateReferralCode returns an 8-character code drawn from an unambiguous
// uppercase alphabet.
func generateReferralCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, len(buf))
	for i, b := range buf {
		out[i] = referralAlphabet[int(b)%len(referralAlphabet)]
	}
	return string(out), nil
}
