package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/wordmosaic/pkg/buildinfo"
	"github.com/matzehuels/wordmosaic/pkg/errors"
	"github.com/matzehuels/wordmosaic/pkg/extract"
	"github.com/matzehuels/wordmosaic/pkg/freq"
	"github.com/matzehuels/wordmosaic/pkg/layout"
	"github.com/matzehuels/wordmosaic/pkg/palette"
	"github.com/matzehuels/wordmosaic/pkg/pipeline"
	"github.com/matzehuels/wordmosaic/pkg/render/sink"
	"github.com/matzehuels/wordmosaic/pkg/store"
)

// documentRequest carries the input text, either inline or as an uploaded
// document. Document is base64 in JSON and needs Filename to pick an
// extractor.
type documentRequest struct {
	Text     string          `json:"text,omitempty"`
	Filename string          `json:"filename,omitempty"`
	Document []byte          `json:"document,omitempty"`
	Options  json.RawMessage `json:"options,omitempty"`
}

type cloudResponse struct {
	ID         string             `json:"id"`
	Table      freq.Table         `json:"table"`
	Placements []layout.Placement `json:"placements"`
	Unplaced   []layout.Unplaced  `json:"unplaced"`
	Empty      bool               `json:"empty"`
	Canvas     layout.Canvas      `json:"canvas"`
	Seed       uint64             `json:"seed"`
	Scale      float64            `json:"scale"`
	Artifacts  map[string][]byte  `json:"artifacts"`
	Stats      statsResponse      `json:"stats"`
}

type statsResponse struct {
	Tokens    int     `json:"tokens"`
	Distinct  int     `json:"distinct"`
	Placed    int     `json:"placed"`
	Unplaced  int     `json:"unplaced"`
	AnalyzeMS float64 `json:"analyze_ms"`
	LayoutMS  float64 `json:"layout_ms"`
	RenderMS  float64 `json:"render_ms"`
	LayoutHit bool    `json:"layout_cached"`
}

type analyzeResponse struct {
	Table      freq.Table `json:"table"`
	Candidates []string   `json:"candidates"`
	Tokens     int        `json:"tokens"`
	Empty      bool       `json:"empty"`
}

type paletteResponse struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleClouds(w http.ResponseWriter, r *http.Request) {
	input, opts, ok := s.decodeDocument(w, r)
	if !ok {
		return
	}
	result, err := s.runner.Execute(r.Context(), input, opts)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	id := result.ID
	if id == "" {
		id = uuid.NewString()
	}
	s.writeJSON(w, http.StatusOK, cloudResponse{
		ID:         id,
		Table:      result.Analysis.Table,
		Placements: result.Layout.Placements,
		Unplaced:   result.Layout.Unplaced,
		Empty:      result.Analysis.Empty,
		Canvas:     result.Layout.Canvas,
		Seed:       result.Layout.Seed,
		Scale:      result.Layout.Scale,
		Artifacts:  result.Artifacts,
		Stats: statsResponse{
			Tokens:    result.Stats.Tokens,
			Distinct:  result.Stats.Distinct,
			Placed:    result.Stats.Placed,
			Unplaced:  result.Stats.Unplaced,
			AnalyzeMS: ms(result.Stats.AnalyzeTime),
			LayoutMS:  ms(result.Stats.LayoutTime),
			RenderMS:  ms(result.Stats.RenderTime),
			LayoutHit: result.CacheInfo.LayoutHit,
		},
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	input, opts, ok := s.decodeDocument(w, r)
	if !ok {
		return
	}
	analysis, err := s.runner.Analyze(r.Context(), input, opts)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, analyzeResponse{
		Table:      analysis.Table,
		Candidates: analysis.Candidates,
		Tokens:     analysis.Tokens,
		Empty:      analysis.Empty,
	})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	records, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if records == nil {
		records = []store.Record{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, asCSV := strings.CutSuffix(chi.URLParam(r, "id"), ".csv")
	if err := store.ValidateID(id); err != nil {
		s.writeErr(w, r, err)
		return
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if !asCSV {
		s.writeJSON(w, http.StatusOK, rec)
		return
	}
	data, err := sink.RenderCSV(rec.Words)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handlePalettes(w http.ResponseWriter, _ *http.Request) {
	names := palette.Names()
	out := make([]paletteResponse, 0, len(names))
	for _, name := range names {
		p, err := palette.Get(name)
		if err != nil {
			continue
		}
		out = append(out, paletteResponse{Name: name, Colors: p.Colors()})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.writeError(w, http.StatusNotImplemented, string(errors.ErrCodeUnsupported), "table storage is disabled")
		return false
	}
	return true
}

// decodeDocument reads a documentRequest and resolves its text and options.
// It writes the error response itself and reports false on failure.
func (s *Server) decodeDocument(w http.ResponseWriter, r *http.Request) (string, pipeline.Options, bool) {
	var req documentRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidInput), "request body too large")
			return "", pipeline.Options{}, false
		}
		s.writeError(w, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), "invalid request body: "+err.Error())
		return "", pipeline.Options{}, false
	}

	opts := cloneOptions(s.defaults)
	if len(req.Options) > 0 {
		if err := json.Unmarshal(req.Options, &opts); err != nil {
			s.writeError(w, http.StatusBadRequest, string(errors.ErrCodeInvalidOption), "invalid options: "+err.Error())
			return "", pipeline.Options{}, false
		}
		if err := checkCanvas(req.Options, opts); err != nil {
			s.writeErr(w, r, err)
			return "", pipeline.Options{}, false
		}
	}

	input, err := s.resolveText(r.Context(), req)
	if err != nil {
		s.writeErr(w, r, err)
		return "", pipeline.Options{}, false
	}
	if req.Filename != "" {
		opts.Source = req.Filename
	}
	return input, opts, true
}

func (s *Server) resolveText(ctx context.Context, req documentRequest) (string, error) {
	switch {
	case len(req.Document) > 0 && req.Text != "":
		return "", errors.New(errors.ErrCodeInvalidInput, "send either text or document, not both")
	case len(req.Document) > 0:
		if req.Filename == "" {
			return "", errors.New(errors.ErrCodeInvalidInput, "filename is required with a document")
		}
		return extract.Bytes(ctx, req.Filename, req.Document)
	default:
		return req.Text, nil
	}
}

// cloneOptions copies o so that decoding a request into the copy never
// writes through to the server defaults.
// checkCanvas rejects a canvas side the request sets to zero. The pipeline
// reads zero as "use the default", so it would otherwise go unnoticed.
func checkCanvas(raw json.RawMessage, opts pipeline.Options) error {
	var sides struct {
		Width  *int `json:"width"`
		Height *int `json:"height"`
	}
	if err := json.Unmarshal(raw, &sides); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "invalid options")
	}
	if sides.Width == nil && sides.Height == nil {
		return nil
	}
	w, h := opts.Width, opts.Height
	if sides.Width == nil && w == 0 {
		w = pipeline.DefaultWidth
	}
	if sides.Height == nil && h == 0 {
		h = pipeline.DefaultHeight
	}
	return errors.ValidateCanvas(w, h)
}

func cloneOptions(o pipeline.Options) pipeline.Options {
	o.Stopwords = append([]string(nil), o.Stopwords...)
	o.Formats = append([]string(nil), o.Formats...)
	if o.PreferHorizontal != nil {
		o.PreferHorizontal = pipeline.Float(*o.PreferHorizontal)
	}
	if o.Margin != nil {
		o.Margin = pipeline.Float(*o.Margin)
	}
	return o
}
