package content

import (
	"fmt"
	"testing"
	"time"
)

// stubRow feeds canned column values to scan helpers. Like pgx, it refuses
// to put a NULL into a plain *string destination.
type stubRow struct {
	values []any
}

func (r stubRow) Scan(dest ...any) error {
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *string:
			s, ok := r.values[i].(string)
			if !ok {
				return fmt.Errorf("scan: cannot assign %T to *string", r.values[i])
			}
			*d = s
		case **string:
			switch v := r.values[i].(type) {
			case nil:
				*d = nil
			case string:
				s := v
				*d = &s
			default:
				return fmt.Errorf("scan: cannot assign %T to **string", r.values[i])
			}
		case *time.Time:
			ts, ok := r.values[i].(time.Time)
			if !ok {
				return fmt.Errorf("scan: cannot assign %T to *time.Time", r.values[i])
			}
			*d = ts
		case **time.Time:
			switch v := r.values[i].(type) {
			case nil:
				*d = nil
			case time.Time:
				ts := v
				*d = &ts
			default:
				return fmt.Errorf("scan: cannot assign %T to **time.Time", r.values[i])
			}
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

func postRow(authorID any, publishedAt any) stubRow {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return stubRow{values: []any{
		"11111111-1111-1111-1111-111111111111", // id
		"Quarterly Review",                     // title
		"quarterly-review",                     // slug
		"<p>Numbers.</p>",                      // body
		PostDraft,                              // status
		authorID,
		publishedAt,
		now, // created_at
		now, // updated_at
	}}
}

func TestScanPostNullAuthor(t *testing.T) {
	// Deleting a user sets author_id to NULL on their posts; listing must
	// still scan those rows.
	p, err := scanPost(postRow(nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.AuthorID != nil {
		t.Errorf("expected nil author, got %q", *p.AuthorID)
	}
	if p.PublishedAt != nil {
		t.Errorf("expected nil published_at, got %v", *p.PublishedAt)
	}
}

func TestScanPostWithAuthor(t *testing.T) {
	author := "22222222-2222-2222-2222-222222222222"
	p, err := scanPost(postRow(author, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.AuthorID == nil || *p.AuthorID != author {
		t.Errorf("author mismatch: got %v, want %q", p.AuthorID, author)
	}
	if p.Title != "Quarterly Review" {
		t.Errorf("title mismatch: got %q", p.Title)
	}
}
