package content

import "time"

// Post statuses.
const (
	PostDraft     = "draft"
	PostPublished = "published"
)

// Post is an article shown on the public site. Body holds the rich-text HTML
// produced by the dashboard editor; it is stored opaquely. AuthorID is nil
// when the authoring user has been deleted.
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	Status      string     `json:"status"`
	AuthorID    *string    `json:"author_id,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreatePostInput holds the fields required to create a post.
type CreatePostInput struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Body     string `json:"body"`
	Status   string `json:"status"`
	AuthorID string `json:"-"`
}

// UpdatePostInput holds optional fields for a partial post update.
type UpdatePostInput struct {
	Title  *string `json:"title,omitempty"`
	Slug   *string `json:"slug,omitempty"`
	Body   *string `json:"body,omitempty"`
	Status *string `json:"status,omitempty"`
}

// Banner is a promotional placement with an optional display window.
type Banner struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	ImageURL  string     `json:"image_url"`
	TargetURL string     `json:"target_url"`
	Placement string     `json:"placement"`
	Active    bool       `json:"active"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateBannerInput holds the fields required to create a banner.
type CreateBannerInput struct {
	Title     string     `json:"title"`
	ImageURL  string     `json:"image_url"`
	TargetURL string     `json:"target_url"`
	Placement string     `json:"placement"`
	Active    bool       `json:"active"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
}

// UpdateBannerInput holds optional fields for a partial banner update.
type UpdateBannerInput struct {
	Title     *string    `json:"title,omitempty"`
	ImageURL  *string    `json:"image_url,omitempty"`
	TargetURL *string    `json:"target_url,omitempty"`
	Placement *string    `json:"placement,omitempty"`
	Active    *bool      `json:"active,omitempty"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
}
