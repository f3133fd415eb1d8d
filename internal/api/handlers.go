// ABOUTME: HTTP handlers for records, aggregations and raw uploads.
// ABOUTME: Every read rebuilds from the stored uploads and applies since/until/source filters.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/harperreed/liftlog/internal/analysis"
	"github.com/harperreed/liftlog/internal/merge"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

// skippedSource describes an upload left out of a rebuild.
type skippedSource struct {
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
	Error  string `json:"error"`
}

// load rebuilds the canonical set and narrows it by the request's query.
func (s *Server) load(r *http.Request) ([]models.SetRecord, []skippedSource, int, error) {
	q := r.URL.Query()
	sel, err := models.ParseSelection(q.Get("since"), q.Get("until"), q["source"]...)
	if err != nil {
		return nil, nil, http.StatusBadRequest, err
	}

	res, err := storage.Rebuild(r.Context(), s.repo, merge.WithLogger(s.logger))
	if err != nil {
		return nil, nil, http.StatusInternalServerError, err
	}
	s.metrics.ObserveRebuild(res)

	skipped := make([]skippedSource, 0, len(res.Failures))
	for _, f := range res.Failures {
		skipped = append(skipped, skippedSource{Name: f.Name, Source: string(f.Source), Error: f.Err.Error()})
	}
	return sel.Apply(res.Records), skipped, http.StatusOK, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	records, skipped, status, err := s.load(r)
	if err != nil {
		s.fail(w, r, status, err)
		return
	}
	if records == nil {
		records = []models.SetRecord{}
	}
	render.JSON(w, r, map[string]any{
		"count":   len(records),
		"records": records,
		"skipped": skipped,
	})
}

func (s *Server) handleTopSets(w http.ResponseWriter, r *http.Request) {
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		s.fail(w, r, http.StatusBadRequest, errors.New("exercise query parameter is required"))
		return
	}

	limit := s.topLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.fail(w, r, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	records, skipped, status, err := s.load(r)
	if err != nil {
		s.fail(w, r, status, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"exercise": exercise,
		"sets":     analysis.TopSets(records, exercise, limit),
		"skipped":  skipped,
	})
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	records, skipped, status, err := s.load(r)
	if err != nil {
		s.fail(w, r, status, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"exercises": analysis.ExerciseSummary(records),
		"skipped":   skipped,
	})
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	records, skipped, status, err := s.load(r)
	if err != nil {
		s.fail(w, r, status, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"sources": analysis.SourceComparison(records),
		"skipped": skipped,
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	records, skipped, status, err := s.load(r)
	if err != nil {
		s.fail(w, r, status, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"overview": analysis.Overview(records),
		"skipped":  skipped,
	})
}

func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		s.fail(w, r, http.StatusBadRequest, errors.New("exercise query parameter is required"))
		return
	}

	records, skipped, status, err := s.load(r)
	if err != nil {
		s.fail(w, r, status, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"exercise": exercise,
		"points":   analysis.Progression(records, exercise),
		"skipped":  skipped,
	})
}

type uploadResponse struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Filename   string    `json:"filename"`
	Size       int       `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
	Sets       int       `json:"sets,omitempty"`
}

func newUploadResponse(u *models.Upload) uploadResponse {
	return uploadResponse{
		ID:         u.ID.String(),
		Source:     string(u.Source),
		Filename:   u.Filename,
		Size:       u.Size(),
		UploadedAt: u.UploadedAt,
	}
}

func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := s.repo.ListUploads()
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	out := make([]uploadResponse, 0, len(uploads))
	for _, u := range uploads {
		out = append(out, newUploadResponse(u))
	}
	render.JSON(w, r, map[string]any{"uploads": out})
}

// handleUpload stores a multipart "file" only after every row parses, so a
// bad export never replaces a good one. An optional "source" form field must
// agree with what the columns say.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, errors.New(`multipart field "file" is required`))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}

	src, records, err := s.reader.Load(header.Filename, bytes.NewReader(content))
	if err != nil {
		s.metrics.ObserveRejectedUpload()
		s.fail(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	if declared := r.FormValue("source"); declared != "" {
		want, err := models.ParseSource(declared)
		if err != nil {
			s.fail(w, r, http.StatusBadRequest, err)
			return
		}
		if want != src {
			s.metrics.ObserveRejectedUpload()
			s.fail(w, r, http.StatusUnprocessableEntity, fmt.Errorf("declared %s but columns match %s", want, src))
			return
		}
	}

	u := models.NewUpload(src, header.Filename, content)
	if err := s.repo.SaveUpload(u); err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.metrics.ObserveUpload(src)
	s.logger.Info("upload stored", "source", src, "filename", header.Filename, "bytes", u.Size(), "sets", len(records))

	resp := newUploadResponse(u)
	resp.Sets = len(records)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}

func (s *Server) handleDeleteUpload(w http.ResponseWriter, r *http.Request) {
	src, err := models.ParseSource(chi.URLParam(r, "source"))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	if err := s.repo.DeleteUpload(src); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.fail(w, r, http.StatusNotFound, fmt.Errorf("no upload stored for %s", src))
			return
		}
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
