package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sourceplane/actionforge/internal/generate"
	"github.com/sourceplane/actionforge/internal/logger"
	"github.com/sourceplane/actionforge/internal/schema"
	"go.uber.org/zap"
)

// Server exposes generation and analysis over HTTP for the form UI.
type Server struct {
	http.Server
	Port      int
	generator *generate.Generator
	validator *schema.Validator
}

// NewServer builds the server and its routes.
func NewServer(httpPort int) (*Server, error) {
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Server: http.Server{
			Addr:        fmt.Sprintf(":%d", httpPort),
			IdleTimeout: 2 * time.Second,
		},
		Port:      httpPort,
		generator: generate.NewGenerator(),
		validator: validator,
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/generate", s.HandleGenerate).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/analyze", s.HandleAnalyze).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/project-types", s.HandleProjectTypes).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.HandleHealth).Methods(http.MethodGet)

	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

// Start blocks serving HTTP until the listener fails or the server stops.
func (s *Server) Start() error {
	logger.Info("starting http server", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Error("error shutting down http server")
	}
	return nil
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]any{"status": "ok"})
}

func (s *Server) HandleProjectTypes(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, projectTypeList())
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondOK(w http.ResponseWriter, message map[string]any) {
	respondWithJSON(w, http.StatusOK, message)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
