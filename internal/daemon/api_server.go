package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"diagterm/internal/api"
	"diagterm/internal/config"
	"diagterm/internal/logging"
	"diagterm/internal/logs"
	"diagterm/internal/version"
)

const (
	maxProcessLimit     = 200
	maxServiceLimit     = 200
	maxDiagnosticsLimit = 2000
	maxRunsLimit        = 200
	defaultRunsLimit    = 20
	maxLogWait          = 30 * time.Second
)

type apiServer struct {
	bind   string
	token  string
	logger *slog.Logger
	daemon *Daemon
	cfg    *config.Config

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:   bind,
		token:  cfg.Paths.APIToken,
		logger: logging.NewComponentLogger(logger, "api-server"),
		daemon: d,
		cfg:    cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.guard(srv.handleStatus))
	mux.HandleFunc("/api/capabilities", srv.guard(srv.handleCapabilities))
	mux.HandleFunc("/api/summary", srv.guard(srv.handleSummary))
	mux.HandleFunc("/api/processes", srv.guard(srv.handleProcesses))
	mux.HandleFunc("/api/services", srv.guard(srv.handleServices))
	mux.HandleFunc("/api/diagnostics", srv.guard(srv.handleDiagnostics))
	mux.HandleFunc("/api/runs", srv.guard(srv.handleRuns))
	mux.HandleFunc("/api/run", srv.guard(srv.handleRun))
	mux.HandleFunc("/api/logs", srv.guard(srv.handleLogs))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * maxLogWait,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) guard(next http.HandlerFunc) http.HandlerFunc {
	return authMiddleware(s.token, next)
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status()
	payload := api.DaemonStatus{
		Running:       status.Running,
		PID:           status.PID,
		FeedSelection: string(status.FeedSelection),
		DatabasePath:  status.DatabasePath,
		LockFilePath:  status.LockFilePath,
		Dependencies:  api.FromDependencies(status.Dependencies),
	}
	if !status.StartedAt.IsZero() {
		payload.StartedAt = status.StartedAt.Format(time.RFC3339)
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, api.Capabilities{
		Version:         version.Version,
		RunnerEnabled:   s.cfg.Runner.Enabled,
		JournalFeed:     s.daemon.tools.Journal != "",
		DmesgFeed:       s.daemon.tools.Dmesg != "",
		ServicesListing: s.daemon.ServicesAvailable(),
	})
}

func (s *apiServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	summary, err := s.daemon.Summary(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromSummary(summary))
}

func (s *apiServer) handleProcesses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := clampLimit(r, s.cfg.Collect.ProcessCount, maxProcessLimit)
	rows, err := s.daemon.TopProcesses(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.ProcessListResponse{Processes: api.FromProcesses(rows)})
}

func (s *apiServer) handleServices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := clampLimit(r, s.cfg.Collect.ServiceLimit, maxServiceLimit)
	rows := s.daemon.Services(r.Context(), limit)
	s.writeJSON(w, http.StatusOK, api.ServiceListResponse{Services: api.FromServices(rows)})
}

func (s *apiServer) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := clampLimit(r, s.cfg.Feed.Limit, maxDiagnosticsLimit)
	selection, lines := s.daemon.FeedSnapshot(limit)
	s.writeJSON(w, http.StatusOK, api.DiagnosticsResponse{
		Selection: string(selection),
		Lines:     lines,
	})
}

func (s *apiServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := clampLimit(r, defaultRunsLimit, maxRunsLimit)
	runs, err := s.daemon.RecentRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.RunListResponse{Runs: api.FromRuns(runs)})
}

func (s *apiServer) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req api.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		s.writeError(w, http.StatusBadRequest, "command must not be empty")
		return
	}

	id, result, err := s.daemon.RunCommand(r.Context(), req.Command)
	if err != nil {
		if errors.Is(err, ErrRunnerDisabled) {
			s.writeError(w, http.StatusForbidden, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromRunnerResult(id, result))
}

func (s *apiServer) handleLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	offset := int64(-1)
	if value := strings.TrimSpace(query.Get("offset")); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			offset = parsed
		}
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 || limit > maxDiagnosticsLimit {
		limit = 200
	}
	follow := query.Get("follow") == "1" || strings.EqualFold(query.Get("follow"), "true")
	wait := 5 * time.Second
	if value := strings.TrimSpace(query.Get("wait_ms")); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			wait = time.Duration(parsed) * time.Millisecond
			if wait > maxLogWait {
				wait = maxLogWait
			}
		}
	}

	result, err := logs.Tail(r.Context(), s.cfg.DaemonLogPath(), logs.TailOptions{
		Offset: offset,
		Limit:  limit,
		Follow: follow,
		Wait:   wait,
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.LogTailResponse{
		Lines:  result.Lines,
		Offset: result.Offset,
	})
}

// clampLimit reads the limit query parameter, falling back to def and
// clamping to [1, max].
func clampLimit(r *http.Request, def, max int) int {
	limit := def
	if value := strings.TrimSpace(r.URL.Query().Get("limit")); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	return limit
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}
