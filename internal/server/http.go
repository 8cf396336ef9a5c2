package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"warrior-server/internal/engine"
	"warrior-server/internal/infrastructure/storage"
	"warrior-server/internal/version"
	"warrior-server/pkg/logger"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// SlotLister - список сохранений для /debug/saves. Может быть nil.
type SlotLister interface {
	Slots(ctx context.Context) ([]storage.SlotInfo, error)
}

type Server struct {
	Engine *engine.ArenaService
	Saves  SlotLister
	Port   string

	log *logrus.Entry
}

func New(engine *engine.ArenaService, saves SlotLister, port string) *Server {
	return &Server{
		Engine: engine,
		Saves:  saves,
		Port:   port,
		log:    logger.For("http"),
	}
}

// Router собирает все маршруты. Отдельно от Run, чтобы тесты гоняли его через httptest.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)

	NewDebugHandler(s.Engine, s.Saves).RegisterRoutes(r.PathPrefix("/debug").Subrouter())
	return r
}

// Run запускает HTTP сервер и гасит его по отмене контекста
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.WithError(err).Warn("HTTP shutdown failed")
		}
	}()

	s.log.WithField("port", s.Port).Info("Warrior server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с локальной отладочной страницы
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

// handleWS подключает зрителя к потоку снимков
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("Upgrade error")
		return
	}

	client := NewClient(s.Engine, conn)
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}
