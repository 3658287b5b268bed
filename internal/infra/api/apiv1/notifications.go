package apiv1

import (
	"net/http"

	"activation-admin/internal/domain/model"
	"activation-admin/internal/usecase"
)

func (s *Server) SendNotification(w http.ResponseWriter, r *http.Request) {
	var req SendNotificationRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	n, err := s.push.Send(r.Context(), usecase.SendInput{
		Title:     req.Title,
		Message:   req.Message,
		Segment:   req.Segment,
		TargetURL: req.TargetURL,
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) NotificationHistory(w http.ResponseWriter, r *http.Request, p HistoryParams) {
	items, err := s.push.History(r.Context(), intOr(p.Limit, usecase.DefaultHistoryLimit))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse[*model.PushNotification]{Items: items})
}

// GetNotification proxies the provider's delivery report unchanged.
func (s *Server) GetNotification(w http.ResponseWriter, r *http.Request, id string) {
	raw, err := s.push.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
