package transport

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lockwhz/retroscan/internal/commands"
	"github.com/lockwhz/retroscan/internal/logger"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Invoker é o que a ponte precisa do registro de comandos.
type Invoker interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) (any, error)
	Names() []string
}

type Config struct {
	Addr        string
	CORSOrigins []string
	Token       string // Vazio desativa a autenticação.
	Metrics     prometheus.Gatherer
}

// Server é a ponte HTTP entre o front-end (webview) e os comandos.
type Server struct {
	cfg      Config
	commands Invoker
	router   chi.Router
	server   *http.Server
}

// Response espelha o Result<T, String> que o front-end espera.
type Response struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func NewServer(cfg Config, invoker Invoker) *Server {
	s := &Server{cfg: cfg, commands: invoker}
	s.setupRouter()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(s.setupCORS())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.cfg.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Metrics, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/commands", s.handleListCommands)
		r.Post("/invoke/{command}", s.handleInvoke)
	})

	s.router = r
}

func (s *Server) setupCORS() func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return cors.Handler(opts)
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.cfg.Token)) != 1 {
			writeJSON(w, http.StatusUnauthorized, Response{Error: "não autorizado"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleListCommands(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Response{OK: true, Data: s.commands.Names()})
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "command")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Error: "erro ao ler o corpo da requisição"})
		return
	}

	out, err := s.commands.Invoke(r.Context(), name, body)
	var argsErr *commands.ArgsError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, Response{OK: true, Data: out})
	case errors.Is(err, commands.ErrUnknownCommand):
		writeJSON(w, http.StatusNotFound, Response{Error: err.Error()})
	case errors.As(err, &argsErr):
		writeJSON(w, http.StatusBadRequest, Response{Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, Response{Error: err.Error()})
	}
}

// Start sobe o servidor e faz o shutdown quando o ctx termina.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Bridge: escutando em %s", s.cfg.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Log.Info("Bridge: encerrando servidor")
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Log.Debugw("Bridge: requisição",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start).String(),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Errorf("Bridge: erro ao serializar resposta: %v", err)
	}
}
