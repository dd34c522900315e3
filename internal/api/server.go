package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NElyse/FPA-Project/internal/alert"
	"github.com/NElyse/FPA-Project/internal/auth"
	"github.com/NElyse/FPA-Project/internal/predictor"
	"github.com/NElyse/FPA-Project/internal/store"
)

// InferenceClient relays a feature payload to the flood inference service.
type InferenceClient interface {
	Predict(ctx context.Context, payload json.RawMessage) (*predictor.Response, error)
}

// AlertDispatcher runs a two-channel alert fan-out for a sector.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, req alert.Request) (alert.Outcome, error)
}

// ResetMailer delivers password-reset links.
type ResetMailer interface {
	SendResetLink(ctx context.Context, to, name, url string) error
}

type Server struct {
	store      *store.Store
	inference  InferenceClient
	dispatcher AlertDispatcher
	mailer     ResetMailer
	tokens     *auth.TokenIssuer
	clientURL  string
	port       string
}

func NewServer(st *store.Store, inference InferenceClient, dispatcher AlertDispatcher,
	mailer ResetMailer, tokens *auth.TokenIssuer, clientURL, port string) *Server {
	return &Server{
		store:      st,
		inference:  inference,
		dispatcher: dispatcher,
		mailer:     mailer,
		tokens:     tokens,
		clientURL:  clientURL,
		port:       port,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("POST /save-prediction", s.handleSavePrediction)
	mux.HandleFunc("GET /flood-predictions", s.handleListPredictions)
	mux.HandleFunc("GET /flood-status", s.handleFloodStatus)

	mux.HandleFunc("POST /register-recipient", s.handleRegisterRecipient)
	mux.HandleFunc("GET /recipients", s.handleListRecipients)
	mux.HandleFunc("POST /send-alert", s.handleSendAlert)

	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /forgot-password", s.handleForgotPassword)
	mux.HandleFunc("GET /reset-password/{token}", s.handleValidateResetToken)
	mux.HandleFunc("POST /reset-password/{token}", s.handleResetPassword)
	mux.HandleFunc("PUT /users/{id}", s.handleUpdateUser)

	return corsMiddleware(mux)
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// corsMiddleware allows the browser client, which runs on its own origin, to
// call the API. The user-id header is part of the API contract.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, user-id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
