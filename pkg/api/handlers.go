package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/wordcloud/pkg/buildinfo"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/palette"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/store"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Current()})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBody)

	var opts pipeline.Options
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		var tooBig *http.MaxBytesError
		if stderrors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large", Code: errors.ErrCodeInvalidInput})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error(), Code: errors.ErrCodeInvalidInput})
		return
	}

	// ?format= picks the artifact returned; it defaults to the first
	// requested format.
	format := r.URL.Query().Get("format")
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}
	if format == "" {
		format = opts.Formats[0]
	} else if !slices.Contains(opts.Formats, format) {
		opts.Formats = append(opts.Formats, format)
	}
	opts.Logger = nil

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RenderTimeout)
	defer cancel()

	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec := store.NewRecord()
	rec.TableHash = res.TableHash
	rec.Words = res.Stats.DistinctWords
	rec.Width, rec.Height = int(res.Layout.Width), int(res.Layout.Height)
	rec.Seed = res.Layout.Seed
	rec.Placed, rec.Unplaced = res.Stats.Placed, res.Stats.Unplaced
	rec.Formats = opts.Formats
	rec.CacheHit = res.CacheInfo.LayoutHit
	rec.DurationMS = (res.Stats.TokenizeTime + res.Stats.LayoutTime + res.Stats.RenderTime).Milliseconds()
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.logger.Warn("store render record", "id", rec.ID, "err", err)
	}

	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set("X-Render-ID", rec.ID)
	h.Set("X-Words-Placed", strconv.Itoa(res.Stats.Placed))
	h.Set("X-Words-Unplaced", strconv.Itoa(res.Stats.Unplaced))
	h.Set("X-Cache", cacheStatus(res))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// cacheStatus is "hit" only when every stage that ran came from cache.
// Requests with frequencies skip tokenizing.
func cacheStatus(res *pipeline.Result) string {
	ci := res.CacheInfo
	tokenized := res.Table != nil
	switch {
	case (!tokenized || ci.TokenizeHit) && ci.LayoutHit && ci.RenderHit:
		return "hit"
	case ci.TokenizeHit || ci.LayoutHit || ci.RenderHit:
		return "partial"
	}
	return "miss"
}

func (s *Server) handleGetRender(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid render id", Code: errors.ErrCodeInvalidInput})
		return
	}
	rec, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "render not found", Code: errors.ErrCodeNotFound})
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListRenders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit", Code: errors.ErrCodeInvalidInput})
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handlePalettes(w http.ResponseWriter, _ *http.Request) {
	out := make(map[string][]string)
	for _, name := range palette.Names() {
		colors, err := palette.Named(name)
		if err != nil {
			continue
		}
		hex := make([]string, len(colors))
		for i, c := range colors {
			hex[i] = c.Hex()
		}
		out[name] = hex
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFonts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, fonts.Names())
}

// writeError maps an error code onto an HTTP status.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case code == errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case code.Class() == errors.ClassConfig:
		status = http.StatusBadRequest
	case code.Class() == errors.ClassLayout:
		status = http.StatusUnprocessableEntity
	case code.Class() == errors.ClassCancelled:
		status = http.StatusServiceUnavailable
		if stderrors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
	}
	if code.Class() == errors.ClassUnknown {
		s.logger.Error("request failed", "err", err)
		writeJSON(w, status, errorResponse{Error: "internal error", Code: errors.ErrCodeInternal})
		return
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
