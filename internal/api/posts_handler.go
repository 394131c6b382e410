package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/stewardhq/steward/internal/auth"
	"github.com/stewardhq/steward/internal/content"
	"github.com/stewardhq/steward/internal/tabular"
)

// postsHandler groups post HTTP handlers.
type postsHandler struct {
	store *content.Store
	audit *recorder
}

func newPostsHandler(store *content.Store, rec *recorder) *postsHandler {
	return &postsHandler{store: store, audit: rec}
}

func postTableConfig() tabular.Config[*content.Post] {
	return tabular.Config[*content.Post]{
		Fields: map[string]tabular.FieldFunc[*content.Post]{
			"title":        func(p *content.Post) any { return p.Title },
			"slug":         func(p *content.Post) any { return p.Slug },
			"status":       func(p *content.Post) any { return p.Status },
			"created_at":   func(p *content.Post) any { return p.CreatedAt },
			"published_at": func(p *content.Post) any {
				if p.PublishedAt == nil {
					return ""
				}
				return *p.PublishedAt
			},
		},
		SearchFields: []string{"title", "slug"},
		FilterFields: []tabular.FilterField{
			{Key: "status", Type: tabular.FilterSelect},
		},
		SortableFields:      []string{"title", "status", "created_at", "published_at"},
		DefaultSort:         &tabular.Sort{Field: "created_at", Direction: tabular.Desc},
		DefaultItemsPerPage: 20,
	}
}

// ListPosts handles GET /api/v1/admin/posts.
func (h *postsHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPosts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list posts")
		return
	}

	resp, err := tableView(r, postTableConfig(), posts)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPost handles GET /api/v1/admin/posts/{id}.
func (h *postsHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.store.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get post")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreatePost handles POST /api/v1/admin/posts.
func (h *postsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var input content.CreatePostInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if input.Title == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "title is required")
		return
	}
	if input.Status == "" {
		input.Status = content.PostDraft
	}
	if input.Status != content.PostDraft && input.Status != content.PostPublished {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "status must be draft or published")
		return
	}
	if u := auth.UserFromContext(r.Context()); u != nil {
		input.AuthorID = u.ID
	}

	p, err := h.store.CreatePost(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create post")
		return
	}

	h.audit.record(r, "create", "post", p.ID, p.Title)
	writeJSON(w, http.StatusCreated, p)
}

// UpdatePost handles PUT /api/v1/admin/posts/{id}.
func (h *postsHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input content.UpdatePostInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if input.Status != nil && *input.Status != content.PostDraft && *input.Status != content.PostPublished {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "status must be draft or published")
		return
	}

	p, err := h.store.UpdatePost(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update post")
		return
	}

	h.audit.record(r, "update", "post", id, "")
	writeJSON(w, http.StatusOK, p)
}

// DeletePost handles DELETE /api/v1/admin/posts/{id}.
func (h *postsHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete post")
		return
	}

	h.audit.record(r, "delete", "post", id, "")
	w.WriteHeader(http.StatusNoContent)
}
