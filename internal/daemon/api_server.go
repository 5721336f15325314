package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"iconforge/internal/api"
	"iconforge/internal/config"
	"iconforge/internal/logging"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	if cfg == nil || d == nil {
		return nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/items", srv.handleItems)
	mux.HandleFunc("/api/version", srv.handleVersion)
	mux.HandleFunc("/api/enqueue", srv.handleEnqueue)
	mux.HandleFunc("/api/websites", srv.handleWebsites)
	mux.HandleFunc("/api/websites/", srv.handleWebsite)
	mux.HandleFunc("/api/notifications/test", srv.handleTestNotification)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
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
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
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
	status := s.daemon.Status(r.Context())
	depStatuses := make([]api.DependencyStatus, len(status.Dependencies))
	for i, dep := range status.Dependencies {
		depStatuses[i] = api.DependencyStatus{
			Name:        dep.Name,
			Command:     dep.Command,
			Description: dep.Description,
			Optional:    dep.Optional,
			Available:   dep.Available,
			Detail:      dep.Detail,
		}
	}
	s.writeJSON(w, http.StatusOK, api.DaemonStatus{
		Running:      status.Running,
		PID:          status.PID,
		Version:      status.Version,
		QueueDepth:   status.QueueDepth,
		StatePath:    status.StatePath,
		LockFilePath: status.LockFilePath,
		LastScan:     status.LastScan,
		Dependencies: depStatuses,
	})
}

func (s *apiServer) handleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	items, err := s.daemon.Items()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	lastScan, err := s.daemon.LastScan()
	if err != nil {
		s.log().Warn("failed to read last scan", logging.Error(err))
	}
	s.writeJSON(w, http.StatusOK, api.ItemsResponse{
		Items:    items,
		Version:  s.daemon.Version(),
		LastScan: lastScan,
	})
}

func (s *apiServer) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, api.VersionResponse{Version: s.daemon.Version()})
}

func (s *apiServer) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.writeError(w, http.StatusBadRequest, "item name is required")
		return
	}
	queued := s.daemon.EnqueueForIcon(req.Name, req.Website)
	s.writeJSON(w, http.StatusOK, api.EnqueueResponse{Queued: queued})
}

func (s *apiServer) handleWebsites(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sites, err := s.daemon.Websites()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, api.WebsitesResponse{Websites: sites})
	case http.MethodPost:
		var req api.AddWebsiteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		site, err := s.daemon.AddWebsite(req.Name, req.URL)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, api.WebsiteResponse{Website: site})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleWebsite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/websites/")
	name, err := url.PathUnescape(name)
	if err != nil || name == "" || strings.Contains(name, "/") {
		s.writeError(w, http.StatusNotFound, "website not found")
		return
	}
	removed, err := s.daemon.RemoveWebsite(name)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, "website not found")
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *apiServer) handleTestNotification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sent, message, err := s.daemon.TestNotification(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, message+": "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.TestNotificationResponse{Sent: sent, Message: message})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
