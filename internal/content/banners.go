package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const bannerColumns = `id, title, image_url, target_url, placement, active, starts_at, ends_at, created_at, updated_at`

func scanBanner(row pgx.Row) (*Banner, error) {
	b := &Banner{}
	err := row.Scan(&b.ID, &b.Title, &b.ImageURL, &b.TargetURL, &b.Placement,
		&b.Active, &b.StartsAt, &b.EndsAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateBanner inserts a new banner and returns the full row.
func (s *Store) CreateBanner(ctx context.Context, in CreateBannerInput) (*Banner, error) {
	query := fmt.Sprintf(`INSERT INTO banners (title, image_url, target_url, placement, active, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, bannerColumns)

	b, err := scanBanner(s.pool.QueryRow(ctx, query,
		in.Title, in.ImageURL, in.TargetURL, in.Placement, in.Active, in.StartsAt, in.EndsAt))
	if err != nil {
		return nil, fmt.Errorf("creating banner: %w", err)
	}
	return b, nil
}

// GetBanner retrieves a banner by its ID.
func (s *Store) GetBanner(ctx context.Context, id string) (*Banner, error) {
	query := fmt.Sprintf(`SELECT %s FROM banners WHERE id = $1`, bannerColumns)
	b, err := scanBanner(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("getting banner: %w", err)
	}
	return b, nil
}

// ListBanners returns all banners ordered by created_at DESC.
func (s *Store) ListBanners(ctx context.Context) ([]*Banner, error) {
	query := fmt.Sprintf(`SELECT %s FROM banners ORDER BY created_at DESC`, bannerColumns)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing banners: %w", err)
	}
	defer rows.Close()

	var banners []*Banner
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning banner: %w", err)
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

// UpdateBanner applies a partial update and returns the updated row.
func (s *Store) UpdateBanner(ctx context.Context, id string, in UpdateBannerInput) (*Banner, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *in.Title)
		argIdx++
	}
	if in.ImageURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("image_url = $%d", argIdx))
		args = append(args, *in.ImageURL)
		argIdx++
	}
	if in.TargetURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("target_url = $%d", argIdx))
		args = append(args, *in.TargetURL)
		argIdx++
	}
	if in.Placement != nil {
		setClauses = append(setClauses, fmt.Sprintf("placement = $%d", argIdx))
		args = append(args, *in.Placement)
		argIdx++
	}
	if in.Active != nil {
		setClauses = append(setClauses, fmt.Sprintf("active = $%d", argIdx))
		args = append(args, *in.Active)
		argIdx++
	}
	if in.StartsAt != nil {
		setClauses = append(setClauses, fmt.Sprintf("starts_at = $%d", argIdx))
		args = append(args, *in.StartsAt)
		argIdx++
	}
	if in.EndsAt != nil {
		setClauses = append(setClauses, fmt.Sprintf("ends_at = $%d", argIdx))
		args = append(args, *in.EndsAt)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetBanner(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE banners SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, bannerColumns)

	b, err := scanBanner(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("updating banner: %w", err)
	}
	return b, nil
}

// DeleteBanner removes a banner by its ID.
func (s *Store) DeleteBanner(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting banner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
