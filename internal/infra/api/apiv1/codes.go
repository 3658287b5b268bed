package apiv1

import (
	"errors"
	"net/http"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/usecase"
)

const defaultPageSize = 20

func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.codes.Statistics(r.Context())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) GetDailySeries(w http.ResponseWriter, r *http.Request, p DailySeriesParams) {
	days := intOr(p.Days, 7)
	series, err := s.codes.DailySeries(r.Context(), days)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, DailySeriesResponse{Days: days, Series: series})
}

func (s *Server) ListCodes(w http.ResponseWriter, r *http.Request, p ListCodesParams) {
	page, err := s.codes.List(r.Context(), intOr(p.Page, 1), intOr(p.PageSize, defaultPageSize))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) SearchCodes(w http.ResponseWriter, r *http.Request, p SearchCodesParams) {
	codes, err := s.codes.Search(r.Context(), strOr(p.Q, ""))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse[*model.ActivationCode]{Items: codes})
}

func (s *Server) CreateCode(w http.ResponseWriter, r *http.Request) {
	var req CreateCodeRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	req.normalize()
	if err := validate.Struct(req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	in := usecase.CreateCodeInput{
		Phone:         req.Phone,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	}
	var (
		code *model.ActivationCode
		err  error
	)
	// A shop order id marks a fulfilled purchase; without one the code is an
	// operator entry with a synthesized ADMIN- reference.
	if req.OrderID != nil {
		code, err = s.codes.Issue(r.Context(), *req.OrderID, in)
	} else {
		code, err = s.codes.Create(r.Context(), in)
	}
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, code)
}

func (s *Server) GetCode(w http.ResponseWriter, r *http.Request, id string) {
	code, err := s.codes.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, code)
}

// ResetCode answers with the unbound record, or 204 when the id no longer exists.
func (s *Server) ResetCode(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.codes.Reset(r.Context(), id); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	code, err := s.codes.Get(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		w.WriteHeader(http.StatusNoContent)
	case err != nil:
		writeError(w, r, s.log, err)
	default:
		writeJSON(w, http.StatusOK, code)
	}
}

func (s *Server) DeleteCode(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.codes.Delete(r.Context(), id); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
