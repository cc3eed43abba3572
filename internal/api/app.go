package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/npezzotti/go-ideaboard/internal/config"
	"github.com/npezzotti/go-ideaboard/internal/database"
	"github.com/npezzotti/go-ideaboard/internal/hub"
	"github.com/npezzotti/go-ideaboard/internal/ledger"
	"github.com/npezzotti/go-ideaboard/internal/workflow"
	"github.com/teris-io/shortid"
)

type BoardApp struct {
	log            *log.Logger
	db             database.BoardRepository
	mux            *http.Server
	hub            *hub.Hub
	ledger         *ledger.VoteLedger
	workflow       *workflow.StateMachine
	signingKey     []byte
	allowedOrigins []string
}

func NewBoardApp(mux *http.ServeMux, logger *log.Logger, db database.BoardRepository, h *hub.Hub, vl *ledger.VoteLedger, sm *workflow.StateMachine, cfg *config.Config) *BoardApp {
	s := &BoardApp{
		log:            logger,
		db:             db,
		hub:            h,
		ledger:         vl,
		workflow:       sm,
		signingKey:     cfg.SigningKey,
		allowedOrigins: cfg.AllowedOrigins,
	}

	mux.HandleFunc("POST /api/auth/register", s.createAccount)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("GET /api/auth/session", s.authMiddleware(s.session))
	mux.Handle("GET /api/auth/logout", s.authMiddleware(s.logout))
	mux.Handle("POST /api/topics", s.authMiddleware(s.createTopic))
	mux.Handle("GET /api/topics", s.authMiddleware(s.getTopic))
	mux.Handle("POST /api/topics/join", s.authMiddleware(s.joinTopic))
	mux.Handle("POST /api/topics/leave", s.authMiddleware(s.leaveTopic))
	mux.Handle("POST /api/issues", s.authMiddleware(s.createIssue))
	mux.Handle("GET /api/issues", s.authMiddleware(s.getIssue))
	mux.Handle("POST /api/issues/advance", s.authMiddleware(s.advanceIssue))
	mux.Handle("POST /api/categories", s.authMiddleware(s.createCategory))
	mux.Handle("PUT /api/categories", s.authMiddleware(s.updateCategory))
	mux.Handle("POST /api/categories/move", s.authMiddleware(s.moveCategory))
	mux.Handle("DELETE /api/categories", s.authMiddleware(s.deleteCategory))
	mux.Handle("POST /api/ideas", s.authMiddleware(s.createIdea))
	mux.Handle("GET /api/ideas", s.authMiddleware(s.listIdeas))
	mux.Handle("POST /api/ideas/move", s.authMiddleware(s.moveIdea))
	mux.Handle("POST /api/ideas/select", s.authMiddleware(s.selectIdea))
	mux.Handle("DELETE /api/ideas", s.authMiddleware(s.deleteIdea))
	mux.Handle("POST /api/votes", s.authMiddleware(s.castVote))
	mux.Handle("GET /api/reports", s.authMiddleware(s.getReport))
	mux.Handle("GET /api/presence", s.authMiddleware(s.getPresence))
	mux.Handle("GET /ws", s.authMiddleware(s.serveWs))
	mux.HandleFunc("GET /healthz", s.healthz)

	h2 := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept", connectionIdHeader}),
		handlers.AllowCredentials(),
	)(mux)

	h2 = s.errorHandler(h2)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h2,
	}

	s.mux = srv
	return s
}

func (s *BoardApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *BoardApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

func (s *BoardApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func (s *BoardApp) generateShortId() (string, error) {
	return shortid.Generate()
}

func (s *BoardApp) healthz(w http.ResponseWriter, _ *http.Request) {
	if err := s.db.Ping(); err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
