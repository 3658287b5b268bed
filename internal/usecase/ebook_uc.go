package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/adapter"
	"activation-admin/internal/domain/ports/repository"
	"activation-admin/internal/infra/logging"
	"activation-admin/internal/provision"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

var _ EBookUseCase = (*ebookUC)(nil)

type EBookUseCase interface {
	List(ctx context.Context, category string) ([]*model.EBook, error)
	Categories() []string
	Add(ctx context.Context, in AddEBookInput) (*model.EBook, error)
	Update(ctx context.Context, id string, patch model.EBookPatch) (*model.EBook, error)
	Delete(ctx context.Context, id string) error
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
}

type AddEBookInput struct {
	Title       string
	Author      *string
	Category    string
	Description *string
	FileURL     string
	CoverURL    *string
	Pages       *int
}

// UploadKind selects the storage prefix of an upload.
type UploadKind string

const (
	UploadFile  UploadKind = "file"
	UploadCover UploadKind = "cover"
)

type UploadInput struct {
	Kind        UploadKind
	Filename    string
	ContentType string
	Body        io.Reader
}

type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

var uploadTypes = map[UploadKind]map[string]bool{
	UploadFile: {
		"application/pdf":      true,
		"application/epub+zip": true,
	},
	UploadCover: {
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	},
}

type ebookUC struct {
	books   repository.EBookRepository
	storage provision.Setup[adapter.ObjectStorage]
	log     *zerolog.Logger
	now     func() time.Time
}

func NewEBookUseCase(books repository.EBookRepository, storage provision.Setup[adapter.ObjectStorage], logger *zerolog.Logger) *ebookUC {
	return &ebookUC{books: books, storage: storage, log: logger, now: time.Now}
}

// List returns the whole library, or one shelf when category is set.
func (uc *ebookUC) List(ctx context.Context, category string) ([]*model.EBook, error) {
	category = strings.TrimSpace(category)
	if category != "" && !model.IsKnownCategory(category) {
		return nil, domain.Invalid("unknown category %q", category)
	}
	return uc.books.List(ctx, repository.NoTX, category)
}

func (uc *ebookUC) Categories() []string {
	out := make([]string, len(model.EBookCategories))
	copy(out, model.EBookCategories)
	return out
}

func (uc *ebookUC) Add(ctx context.Context, in AddEBookInput) (*model.EBook, error) {
	b, err := model.NewEBook(in.Title, in.Category, in.FileURL, in.Author, in.Description, in.CoverURL, in.Pages, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.books.Create(ctx, repository.NoTX, b); err != nil {
		logging.With(ctx, uc.log).Error().Err(err).Str("title", b.Title).Msg("failed to add ebook")
		return nil, err
	}
	logging.With(ctx, uc.log).Info().Str("ebook_id", b.ID).Str("category", b.Category).Msg("ebook added")
	return b, nil
}

// Update merges patch into the stored entry. The stored row is untouched when
// the patch is invalid.
func (uc *ebookUC) Update(ctx context.Context, id string, patch model.EBookPatch) (*model.EBook, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Invalid("id is required")
	}
	if !storedID(id) {
		return nil, domain.ErrNotFound
	}
	current, err := uc.books.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	next := *current
	if err := next.Apply(patch); err != nil {
		return nil, err
	}
	if err := uc.books.Update(ctx, repository.NoTX, &next); err != nil {
		logging.With(ctx, uc.log).Error().Err(err).Str("ebook_id", id).Msg("failed to update ebook")
		return nil, err
	}
	return &next, nil
}

func (uc *ebookUC) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.Invalid("id is required")
	}
	if !storedID(id) {
		return nil
	}
	if err := uc.books.Delete(ctx, repository.NoTX, id); err != nil {
		logging.With(ctx, uc.log).Error().Err(err).Str("ebook_id", id).Msg("failed to delete ebook")
		return err
	}
	logging.With(ctx, uc.log).Info().Str("ebook_id", id).Msg("ebook deleted")
	return nil
}

// Upload stores a book file or cover under a fresh sortable key and returns its
// public URL, ready to be used as file_url or cover_url.
func (uc *ebookUC) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	allowed, ok := uploadTypes[in.Kind]
	if !ok {
		return nil, domain.Invalid("unknown upload kind %q", in.Kind)
	}
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(in.ContentType, ";", 2)[0]))
	if !allowed[ct] {
		return nil, domain.Invalid("content type %q not allowed for %s", in.ContentType, in.Kind)
	}
	if in.Body == nil {
		return nil, domain.Invalid("upload body is required")
	}
	store, err := uc.storage.Get()
	if err != nil {
		return nil, err
	}

	key := objectKey(in.Kind, in.Filename, uc.now())
	url, err := store.Put(ctx, key, in.Body, ct)
	if err != nil {
		logging.With(ctx, uc.log).Error().Err(err).Str("key", key).Msg("upload failed")
		return nil, err
	}
	logging.With(ctx, uc.log).Info().Str("key", key).Str("kind", string(in.Kind)).Msg("upload stored")
	return &UploadResult{Key: key, URL: url}, nil
}

// objectKey builds "<kind>s/<ulid>-<name>" where name keeps only safe characters.
func objectKey(kind UploadKind, filename string, now time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy())
	return fmt.Sprintf("%ss/%s-%s", kind, strings.ToLower(id.String()), safeName(filename))
}

func safeName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	name := strings.Trim(b.String(), ".")
	if name == "" {
		return "upload"
	}
	return name
}
