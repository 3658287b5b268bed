package apiv1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"activation-admin/internal/domain/model"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=256"`
}

type LoginResponse struct {
	Email         string `json:"email"`
	Authenticated bool   `json:"authenticated"`
}

// CreateCodeRequest only guards sizes. The phone needs a digit or '+' and
// the email is stored as typed.
type CreateCodeRequest struct {
	Phone         string  `json:"phone" validate:"required,max=256"`
	CustomerName  *string `json:"customer_name" validate:"omitempty,max=200"`
	CustomerEmail *string `json:"customer_email" validate:"omitempty,max=254"`
	OrderID       *string `json:"order_id" validate:"omitempty,max=128"`
}

func (r *CreateCodeRequest) normalize() {
	r.CustomerName = blankToNil(r.CustomerName)
	r.CustomerEmail = blankToNil(r.CustomerEmail)
	r.OrderID = blankToNil(r.OrderID)
}

type AddEBookRequest struct {
	Title       string  `json:"title" validate:"required,max=300"`
	Author      *string `json:"author" validate:"omitempty,max=200"`
	Category    string  `json:"category" validate:"required"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	FileURL     string  `json:"file_url" validate:"required,max=2048"`
	CoverURL    *string `json:"cover_url" validate:"omitempty,max=2048"`
	Pages       *int    `json:"pages" validate:"omitempty,gte=0"`
}

type PatchEBookRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=300"`
	Author      *string `json:"author" validate:"omitempty,max=200"`
	Category    *string `json:"category"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	FileURL     *string `json:"file_url" validate:"omitempty,max=2048"`
	CoverURL    *string `json:"cover_url" validate:"omitempty,max=2048"`
	Pages       *int    `json:"pages" validate:"omitempty,gte=0"`
}

func (p PatchEBookRequest) patch() model.EBookPatch {
	return model.EBookPatch{
		Title:       p.Title,
		Author:      p.Author,
		Category:    p.Category,
		Description: p.Description,
		FileURL:     p.FileURL,
		CoverURL:    p.CoverURL,
		Pages:       p.Pages,
	}
}

type SendNotificationRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Message   string `json:"message" validate:"required,max=2000"`
	Segment   string `json:"segment" validate:"omitempty,max=128"`
	TargetURL string `json:"target_url" validate:"omitempty,max=2048"`
}

type DailySeriesResponse struct {
	Days   int                `json:"days"`
	Series []model.DailyCount `json:"series"`
}

type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

var errEmptyBody = errors.New("request body is required")

// decodeBody reads a single JSON object into dst. Decoding problems are the
// caller's fault and map to 400, unlike validation failures.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errEmptyBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
