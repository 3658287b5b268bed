package apiv1

import (
	"errors"
	"net/http"

	"activation-admin/internal/domain/model"
	"activation-admin/internal/usecase"
)

func (s *Server) ListEBooks(w http.ResponseWriter, r *http.Request, p ListEBooksParams) {
	books, err := s.books.List(r.Context(), strOr(p.Category, ""))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse[*model.EBook]{Items: books})
}

func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ItemsResponse[string]{Items: s.books.Categories()})
}

func (s *Server) AddEBook(w http.ResponseWriter, r *http.Request) {
	var req AddEBookRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	book, err := s.books.Add(r.Context(), usecase.AddEBookInput{
		Title:       req.Title,
		Author:      req.Author,
		Category:    req.Category,
		Description: req.Description,
		FileURL:     req.FileURL,
		CoverURL:    req.CoverURL,
		Pages:       req.Pages,
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (s *Server) UpdateEBook(w http.ResponseWriter, r *http.Request, id string) {
	var req PatchEBookRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	book, err := s.books.Update(r.Context(), id, req.patch())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) DeleteEBook(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.books.Delete(r.Context(), id); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadEBookFile accepts multipart/form-data with a "file" part and an optional
// "kind" field ("file" or "cover").
func (s *Server) UploadEBookFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeMessage(w, http.StatusBadRequest, "invalid multipart body: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer f.Close()

	kind := usecase.UploadKind(r.FormValue("kind"))
	if kind == "" {
		kind = usecase.UploadFile
	}
	res, err := s.books.Upload(r.Context(), usecase.UploadInput{
		Kind:        kind,
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Body:        f,
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
