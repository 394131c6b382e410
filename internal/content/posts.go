package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for posts and banners.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const postColumns = `id, title, slug, body, status, author_id, published_at, created_at, updated_at`

func scanPost(row pgx.Row) (*Post, error) {
	p := &Post{}
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Status,
		&p.AuthorID, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePost inserts a new post and returns the full row. A post created with
// published status gets its published_at stamped immediately.
func (s *Store) CreatePost(ctx context.Context, in CreatePostInput) (*Post, error) {
	status := in.Status
	if status == "" {
		status = PostDraft
	}
	var publishedAt *time.Time
	if status == PostPublished {
		now := time.Now().UTC()
		publishedAt = &now
	}
	// author_id is a UUID column; an unset author must go in as NULL.
	var authorID *string
	if in.AuthorID != "" {
		authorID = &in.AuthorID
	}

	query := fmt.Sprintf(`INSERT INTO posts (title, slug, body, status, author_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, postColumns)

	p, err := scanPost(s.pool.QueryRow(ctx, query,
		in.Title, in.Slug, in.Body, status, authorID, publishedAt))
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	return p, nil
}

// GetPost retrieves a post by its ID.
func (s *Store) GetPost(ctx context.Context, id string) (*Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id = $1`, postColumns)
	p, err := scanPost(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}
	return p, nil
}

// ListPosts returns all posts ordered by created_at DESC. Search, filtering,
// and pagination happen in the handlers through the tabular engine.
func (s *Store) ListPosts(ctx context.Context) ([]*Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts ORDER BY created_at DESC`, postColumns)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpdatePost applies a partial update and returns the updated row. Moving a
// draft to published stamps published_at; moving back to draft clears it.
func (s *Store) UpdatePost(ctx context.Context, id string, in UpdatePostInput) (*Post, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *in.Title)
		argIdx++
	}
	if in.Slug != nil {
		setClauses = append(setClauses, fmt.Sprintf("slug = $%d", argIdx))
		args = append(args, *in.Slug)
		argIdx++
	}
	if in.Body != nil {
		setClauses = append(setClauses, fmt.Sprintf("body = $%d", argIdx))
		args = append(args, *in.Body)
		argIdx++
	}
	if in.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *in.Status)
		argIdx++
		if *in.Status == PostPublished {
			setClauses = append(setClauses,
				fmt.Sprintf("published_at = COALESCE(published_at, $%d)", argIdx))
			args = append(args, time.Now().UTC())
			argIdx++
		} else {
			setClauses = append(setClauses, "published_at = NULL")
		}
	}

	if len(setClauses) == 0 {
		return s.GetPost(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE posts SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, postColumns)

	p, err := scanPost(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}
	return p, nil
}

// DeletePost removes a post by its ID.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
