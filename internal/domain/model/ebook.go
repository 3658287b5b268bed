package model

import (
	"strings"
	"time"

	"activation-admin/internal/domain"

	"github.com/google/uuid"
)

// EBookCategories lists the library shelves, in display order.
var EBookCategories = []string{
	"Coran",
	"Hadith",
	"Fiqh",
	"Sira",
	"Spiritualité",
	"Ramadan",
	"Invocations",
	"Autre",
}

// EBook is a library entry whose file lives in object storage.
type EBook struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      *string   `json:"author"`
	Category    string    `json:"category"`
	Description *string   `json:"description"`
	FileURL     string    `json:"file_url"`
	CoverURL    *string   `json:"cover_url"`
	Pages       *int      `json:"pages"`
	CreatedAt   time.Time `json:"created_at"`
}

// EBookPatch holds the fields of an update. Nil means "no change".
type EBookPatch struct {
	Title       *string
	Author      *string
	Category    *string
	Description *string
	FileURL     *string
	CoverURL    *string
	Pages       *int
}

// IsKnownCategory reports whether c is one of EBookCategories.
func IsKnownCategory(c string) bool {
	for _, k := range EBookCategories {
		if k == c {
			return true
		}
	}
	return false
}

// NewEBook validates and constructs a library entry.
func NewEBook(title, category, fileURL string, author, description, coverURL *string, pages *int, now time.Time) (*EBook, error) {
	title = strings.TrimSpace(title)
	fileURL = strings.TrimSpace(fileURL)
	if title == "" || category == "" || fileURL == "" {
		return nil, domain.Invalid("title, category and file_url are required")
	}
	if !IsKnownCategory(category) {
		return nil, domain.Invalid("unknown category %q", category)
	}
	if pages != nil && *pages <= 0 {
		pages = nil
	}
	return &EBook{
		ID:          uuid.NewString(),
		Title:       title,
		Author:      trimmedOrNil(author),
		Category:    category,
		Description: trimmedOrNil(description),
		FileURL:     fileURL,
		CoverURL:    trimmedOrNil(coverURL),
		Pages:       pages,
		CreatedAt:   now,
	}, nil
}

// Apply validates p and merges it into b.
func (b *EBook) Apply(p EBookPatch) error {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return domain.Invalid("title cannot be empty")
		}
		b.Title = t
	}
	if p.Category != nil {
		if !IsKnownCategory(*p.Category) {
			return domain.Invalid("unknown category %q", *p.Category)
		}
		b.Category = *p.Category
	}
	if p.FileURL != nil {
		u := strings.TrimSpace(*p.FileURL)
		if u == "" {
			return domain.Invalid("file_url cannot be empty")
		}
		b.FileURL = u
	}
	if p.Author != nil {
		b.Author = trimmedOrNil(p.Author)
	}
	if p.Description != nil {
		b.Description = trimmedOrNil(p.Description)
	}
	if p.CoverURL != nil {
		b.CoverURL = trimmedOrNil(p.CoverURL)
	}
	if p.Pages != nil {
		if *p.Pages <= 0 {
			b.Pages = nil
		} else {
			n := *p.Pages
			b.Pages = &n
		}
	}
	return nil
}
