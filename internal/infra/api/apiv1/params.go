package apiv1

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

type ListCodesParams struct {
	Page     *int `form:"page"`
	PageSize *int `form:"page_size"`
}

type SearchCodesParams struct {
	Q *string `form:"q"`
}

type DailySeriesParams struct {
	Days *int `form:"days"`
}

type ListEBooksParams struct {
	Category *string `form:"category"`
}

type HistoryParams struct {
	Limit *int `form:"limit"`
}

type idHandler func(w http.ResponseWriter, r *http.Request, id string)

// withID binds the {id} path parameter.
func (s *Server) withID(h idHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id string
		err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid format for parameter id: %v", err))
			return
		}
		h(w, r, id)
	}
}

func bindQuery(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid format for parameter %s: %v", name, err))
		return false
	}
	return true
}

func (s *Server) wrapListCodes(w http.ResponseWriter, r *http.Request) {
	var p ListCodesParams
	if !bindQuery(w, r, "page", &p.Page) || !bindQuery(w, r, "page_size", &p.PageSize) {
		return
	}
	s.ListCodes(w, r, p)
}

func (s *Server) wrapSearchCodes(w http.ResponseWriter, r *http.Request) {
	var p SearchCodesParams
	if !bindQuery(w, r, "q", &p.Q) {
		return
	}
	s.SearchCodes(w, r, p)
}

func (s *Server) wrapDailySeries(w http.ResponseWriter, r *http.Request) {
	var p DailySeriesParams
	if !bindQuery(w, r, "days", &p.Days) {
		return
	}
	s.GetDailySeries(w, r, p)
}

func (s *Server) wrapListEBooks(w http.ResponseWriter, r *http.Request) {
	var p ListEBooksParams
	if !bindQuery(w, r, "category", &p.Category) {
		return
	}
	s.ListEBooks(w, r, p)
}

func (s *Server) wrapNotificationHistory(w http.ResponseWriter, r *http.Request) {
	var p HistoryParams
	if !bindQuery(w, r, "limit", &p.Limit) {
		return
	}
	s.NotificationHistory(w, r, p)
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func strOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
