// Package server exposes extraction, script generation and stored run files
// over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"rfemassist/internal/codegen"
	"rfemassist/internal/extract"
	"rfemassist/internal/infer"
	"rfemassist/internal/model"
	"rfemassist/internal/runner"
	"rfemassist/internal/store"
)

const maxBodyBytes = 32 << 20

type Server struct {
	extractor runner.Extractor
	store     store.Store
	log       *log.Logger
}

func New(ex runner.Extractor, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{extractor: ex, store: st, log: logger}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods("GET")

	api := r.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/extract", s.Extract).Methods("POST")
	api.HandleFunc("/scripts", s.Script).Methods("POST")
	api.HandleFunc("/runs/{run}/files", s.ListFiles).Methods("GET")
	api.HandleFunc("/runs/{run}/files/{path:.+}", s.GetFile).Methods("GET")
	return r
}

// CORS allows browser clients from any origin.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type extractRequest struct {
	Type              string `json:"type"`
	Text              string `json:"text"`
	Data              []byte `json:"data"`
	MIMEType          string `json:"mime_type"`
	ExplicitStiffness bool   `json:"explicit_stiffness"`
	// RunID and Filename persist the result when both are set.
	RunID    string `json:"run_id"`
	Filename string `json:"filename"`
}

type extractResponse struct {
	Template   *model.Template `json:"template"`
	Script     string          `json:"script"`
	InferredBy string          `json:"inferred_by,omitempty"`
	Stored     []string        `json:"stored,omitempty"`
}

func (s *Server) Extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	typ, err := model.ParseInputType(strings.ToLower(strings.TrimSpace(req.Type)))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	in := extract.Input{Type: typ, Text: req.Text, Data: req.Data, MIMEType: req.MIMEType}
	if typ == model.InputText && strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if typ != model.InputText && len(req.Data) == 0 {
		http.Error(w, "data is required", http.StatusBadRequest)
		return
	}

	tpl, err := s.extractor.Extract(r.Context(), in)
	if err != nil {
		s.log.Printf("server: extract %s: %v", typ, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	rule := infer.Apply(tpl)
	tpl.InputType = typ
	if req.Filename != "" {
		tpl.Filename = req.Filename
	}
	resp := extractResponse{
		Template: tpl,
		Script:   codegen.Generator{ExplicitStiffness: req.ExplicitStiffness}.Generate(tpl),
	}
	if rule != infer.RuleNone {
		resp.InferredBy = rule.String()
	}

	if runID := strings.TrimSpace(req.RunID); runID != "" && req.Filename != "" {
		raw, err := json.MarshalIndent(tpl, "", "  ")
		if err == nil {
			err = s.store.Put(r.Context(), runID, runner.TemplateName(req.Filename), raw)
		}
		if err == nil {
			err = s.store.Put(r.Context(), runID, req.Filename, []byte(resp.Script))
		}
		if err != nil {
			s.log.Printf("server: store %s/%s: %v", runID, req.Filename, err)
			http.Error(w, "store failed", http.StatusInternalServerError)
			return
		}
		resp.Stored = []string{runner.TemplateName(req.Filename), req.Filename}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Script renders a posted template. Query parameters: explicit_stiffness
// (default false) and infer (default true).
func (s *Server) Script(w http.ResponseWriter, r *http.Request) {
	var tpl model.Template
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&tpl); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if err := tpl.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	q := r.URL.Query()
	if queryBool(q.Get("infer"), true) {
		infer.Apply(&tpl)
	}
	gen := codegen.Generator{ExplicitStiffness: queryBool(q.Get("explicit_stiffness"), false)}
	w.Header().Set("Content-Type", "text/x-python; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(gen.Generate(&tpl)))
}

func (s *Server) ListFiles(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["run"]
	files, err := s.store.List(r.Context(), runID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"run_id": runID, "files": files})
}

// GetFile returns the stored bytes, or {"url": ...} when ?url=1 is set.
func (s *Server) GetFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	runID, path := vars["run"], vars["path"]
	if queryBool(r.URL.Query().Get("url"), false) {
		u, err := s.store.GetURL(r.Context(), runID, path)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": u})
		return
	}
	raw, err := s.store.Get(r.Context(), runID, path)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", contentType(path))
	w.Header().Set("Content-Length", strconv.Itoa(len(raw)))
	_, _ = w.Write(raw)
}

func statusFor(err error) int {
	var enumErr *model.EnumError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, extract.ErrUnsupportedInput):
		return http.StatusBadRequest
	case errors.As(err, &enumErr),
		errors.Is(err, model.ErrInvalidSupportVector),
		errors.Is(err, model.ErrLoadTypeMismatch),
		errors.Is(err, model.ErrMissingLoadDetail),
		errors.Is(err, model.ErrIncompleteSection),
		errors.Is(err, model.ErrIncompleteLine),
		errors.Is(err, model.ErrInvalidThickness),
		errors.Is(err, model.ErrInvalidTagList),
		errors.Is(err, model.ErrInvalidPoint),
		errors.Is(err, model.ErrMissingCollection),
		errors.Is(err, model.ErrDuplicateTag),
		errors.Is(err, model.ErrDanglingReference),
		errors.Is(err, extract.ErrNoStructuredResponse),
		errors.Is(err, extract.ErrTranscriptionEmpty):
		return http.StatusUnprocessableEntity
	default:
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var sizeErr *http.MaxBytesError
		if errors.As(err, &sizeErr) {
			return http.StatusRequestEntityTooLarge
		}
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	}
}

func queryBool(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func contentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".py"):
		return "text/x-python; charset=utf-8"
	case strings.HasSuffix(path, ".json"):
		return "application/json"
	case strings.HasSuffix(path, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(path, ".xlsx"):
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
