package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pavelanni/papergen/internal/compiler"
	"github.com/pavelanni/papergen/internal/docx"
	"github.com/pavelanni/papergen/internal/i18n"
	"github.com/pavelanni/papergen/internal/model"
	"github.com/pavelanni/papergen/internal/paper"
)

// DefaultMaxUpload is the request body limit when none is configured.
const DefaultMaxUpload = 32 << 20

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	config model.CompileConfig
	now    func() time.Time
}

// New creates a new Handler.
func New(cfg model.CompileConfig) (*Handler, error) {
	if cfg.MaxUploadBytes < 0 {
		return nil, fmt.Errorf("max upload must not be negative, got %d", cfg.MaxUploadBytes)
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = DefaultMaxUpload
	}
	return &Handler{config: cfg, now: time.Now}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Post("/api/marks", h.handleMarks)
	r.Post("/api/compile", h.handleCompile)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

type sectionMarks struct {
	Title  string             `json:"title"`
	Total  int                `json:"total"`
	Groups []paper.GroupMarks `json:"groups"`
}

type marksResponse struct {
	Total    int            `json:"total"`
	Sections []sectionMarks `json:"sections"`
	Header   model.Header   `json:"header"`
}

func (h *Handler) handleMarks(w http.ResponseWriter, r *http.Request) {
	p, ok := h.readPaper(w, r)
	if !ok {
		return
	}

	m := paper.ComputeMarks(p)
	resp := marksResponse{
		Total:    m.Total,
		Sections: make([]sectionMarks, 0, len(m.Sections)),
		Header:   paper.Sync(p).Header,
	}
	for i, s := range m.Sections {
		resp.Sections = append(resp.Sections, sectionMarks{
			Title:  p.Sections[i].Title,
			Total:  s.Total,
			Groups: append([]paper.GroupMarks{}, s.Groups...),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("encode marks", "error", err)
	}
}

func (h *Handler) handleCompile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.readPaper(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	log := slog.Default().With("request_id", middleware.GetReqID(ctx))

	data, err := compiler.Compile(p, compiler.Options{
		Labels:         i18n.Labels(ctx),
		Instructions:   i18n.Instructions(ctx, h.config.AnswerPrompt),
		SplitTrueFalse: h.config.SplitTrueFalse,
		Logger:         log,
	})
	switch {
	case errors.Is(err, compiler.ErrNoQuestions):
		http.Error(w, i18n.T(ctx, "NoQuestions"), http.StatusUnprocessableEntity)
		return
	case err != nil:
		log.Error("compile paper", "error", err)
		http.Error(w, i18n.T(ctx, "CompileFailed"), http.StatusInternalServerError)
		return
	}

	name := compiler.FileName(p.Header.Exam, h.now())
	log.Info("compiled paper", "file", name, "bytes", len(data), "questions", p.QuestionCount())
	writeDocument(w, name, data)
}

// readPaper decodes the request body as JSON, or YAML when the content type
// says so. It writes the error response itself and reports false on failure.
func (h *Handler) readPaper(w http.ResponseWriter, r *http.Request) (model.Paper, bool) {
	ctx := r.Context()
	body := http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, i18n.Td(ctx, "PaperTooLarge", map[string]any{"Limit": tooLarge.Limit}), http.StatusRequestEntityTooLarge)
			return model.Paper{}, false
		}
		http.Error(w, i18n.Td(ctx, "InvalidPaper", map[string]any{"Error": err.Error()}), http.StatusBadRequest)
		return model.Paper{}, false
	}

	p, err := model.Decode(data, requestFormat(r))
	if err != nil {
		http.Error(w, i18n.Td(ctx, "InvalidPaper", map[string]any{"Error": err.Error()}), http.StatusBadRequest)
		return model.Paper{}, false
	}
	return p, true
}

func requestFormat(r *http.Request) string {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return "yaml"
	}
	return "json"
}

// writeDocument sends a .docx download. Headers are frozen once written.
func writeDocument(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", docx.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("write document", "error", err)
	}
}
