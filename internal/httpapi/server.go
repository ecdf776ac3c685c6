package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/vvka-141/ddlcheck/internal/ddl"
	"github.com/vvka-141/ddlcheck/internal/files/filesystem"
	"github.com/vvka-141/ddlcheck/internal/logging"
	"github.com/vvka-141/ddlcheck/internal/report"
	"github.com/vvka-141/ddlcheck/internal/schema"
	"github.com/vvka-141/ddlcheck/internal/structfile"
	"github.com/vvka-141/ddlcheck/internal/validator"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// CheckFunc validates a tree against the configured database.
type CheckFunc func(ctx context.Context, tree *schema.Tree) (*validator.Summary, error)

// Config holds the directories the server reads and writes.
type Config struct {
	SQLDir    string
	OutputDir string

	// ReportName is the report file written into OutputDir.
	ReportName string

	FullTypes bool
}

// Server serves the HTTP routes.
type Server struct {
	cfg       Config
	fs        filesystem.FileSystemProvider
	extractor *ddl.Extractor
	store     *structfile.Store
	check     CheckFunc
	logger    ddlcheck.Logger
	now       func() time.Time

	// reportMu serializes report writes; every check writes the same file.
	reportMu sync.Mutex
}

// New creates a Server. Panics if fsProvider or check is nil.
func New(cfg Config, fsProvider filesystem.FileSystemProvider, check CheckFunc, logger ddlcheck.Logger) *Server {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if check == nil {
		panic("check cannot be nil")
	}
	if cfg.ReportName == "" {
		cfg.ReportName = ddlcheck.DefaultReportFile
	}

	var opts []ddl.Option
	if cfg.FullTypes {
		opts = append(opts, ddl.WithFullTypes())
	}

	return &Server{
		cfg:       cfg,
		fs:        fsProvider,
		extractor: ddl.NewExtractor(fsProvider, opts...),
		store:     structfile.NewStore(fsProvider),
		check:     check,
		logger:    logging.OrNull(logger),
		now:       time.Now,
	}
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /parse/{file}", s.handleParse)
	mux.HandleFunc("GET /check/{file}", s.handleCheck)
	return s.logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "ddlcheck API",
		"endpoints": map[string]string{
			"health": "GET /health",
			"parse":  "POST /parse/{file}",
			"check":  "GET /check/{file}",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.now().Format(time.RFC3339),
	})
}

type parseResponse struct {
	Message       string   `json:"message"`
	FileProcessed string   `json:"file_processed"`
	Output        string   `json:"output"`
	Databases     int      `json:"databases"`
	Tables        int      `json:"tables"`
	Columns       int      `json:"columns"`
	Diagnostics   []string `json:"diagnostics,omitempty"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")
	if err := checkFileName(name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	base := strings.TrimSuffix(name, ddlcheck.SQLFileExtension)

	res, err := s.extractor.ParseFile(path.Join(s.cfg.SQLDir, base+ddlcheck.SQLFileExtension))
	if err != nil {
		s.fail(w, name, err)
		return
	}

	out := path.Join(s.cfg.OutputDir, base+structfile.FormatJSON.Extension())
	if err := s.store.Save(res.Tree, out, ""); err != nil {
		s.fail(w, name, err)
		return
	}

	st := res.Tree.Stats()
	resp := parseResponse{
		Message:       "success",
		FileProcessed: name,
		Output:        out,
		Databases:     st.Databases,
		Tables:        st.Tables,
		Columns:       st.Columns,
	}
	for _, d := range res.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, d.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

type checkResponse struct {
	Message       string         `json:"message"`
	FileProcessed string         `json:"file_processed"`
	Report        string         `json:"report"`
	RunID         string         `json:"run_id"`
	Discrepancies bool           `json:"discrepancies"`
	Counts        map[string]int `json:"counts"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")
	if err := checkFileName(name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := structfile.FormatFromPath(name); err != nil {
		writeError(w, http.StatusBadRequest, "only JSON/YAML files are allowed")
		return
	}

	tree, err := s.store.Load(path.Join(s.cfg.OutputDir, name), "")
	if err != nil {
		s.fail(w, name, err)
		return
	}

	summary, err := s.check(r.Context(), tree)
	if err != nil {
		s.fail(w, name, err)
		return
	}

	reportPath := path.Join(s.cfg.OutputDir, s.cfg.ReportName)
	if err := s.writeReport(reportPath, summary); err != nil {
		s.fail(w, name, err)
		return
	}

	counts := make(map[string]int)
	for status, n := range summary.Counts() {
		counts[status.String()] = n
	}
	writeJSON(w, http.StatusOK, checkResponse{
		Message:       "success, please see the output folder",
		FileProcessed: name,
		Report:        reportPath,
		RunID:         summary.RunID,
		Discrepancies: summary.HasDiscrepancies(),
		Counts:        counts,
	})
}

func (s *Server) writeReport(reportPath string, summary *validator.Summary) error {
	var buf bytes.Buffer
	if err := report.WriteMarkdown(&buf, summary, report.Options{}); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	s.reportMu.Lock()
	defer s.reportMu.Unlock()
	if err := s.fs.WriteFile(reportPath, buf.Bytes()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// fail maps err to a status code. Details of internal failures stay in the log.
func (s *Server) fail(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, ddlcheck.ErrInputUnavailable) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("file %s not found", name))
		return
	}
	s.logger.Error("Processing %s failed: %v", name, err)
	writeError(w, http.StatusInternalServerError, "file processing failed")
}

// checkFileName rejects anything that is not a plain file name.
func checkFileName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return errors.New("invalid file name")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Verbose("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
