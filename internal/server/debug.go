package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"warrior-server/internal/engine"
	"warrior-server/pkg/api"

	"github.com/gorilla/mux"
)

const commandTimeout = 5 * time.Second

// DebugHandler - локальный отладочный драйвер: снимки и команды в игровой цикл
type DebugHandler struct {
	Service *engine.ArenaService
	Saves   SlotLister
}

func NewDebugHandler(s *engine.ArenaService, saves SlotLister) *DebugHandler {
	return &DebugHandler{Service: s, Saves: saves}
}

// RegisterRoutes регистрирует debug-эндпоинты на подроутере /debug
func (h *DebugHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/state", h.handleState).Methods(http.MethodGet)
	r.HandleFunc("/combat", h.handleCombat).Methods(http.MethodGet)
	r.HandleFunc("/saves", h.handleSaves).Methods(http.MethodGet)
	r.HandleFunc("/commands/{action}", h.handleCommand).Methods(http.MethodPost)
}

// /debug/state - последний снимок целиком
func (h *DebugHandler) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Latest())
}

// /debug/combat - только бой; 404, если боя нет
func (h *DebugHandler) handleCombat(w http.ResponseWriter, r *http.Request) {
	snap := h.Service.Latest()
	if snap == nil || snap.Combat == nil {
		http.Error(w, "no combat in progress", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap.Combat)
}

func (h *DebugHandler) handleSaves(w http.ResponseWriter, r *http.Request) {
	if h.Saves == nil {
		http.Error(w, engine.ErrNoStore.Error(), http.StatusNotFound)
		return
	}
	slots, err := h.Saves.Slots(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

// POST /debug/commands/{action} - тело запроса становится payload команды
func (h *DebugHandler) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		http.Error(w, "payload must be JSON", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), commandTimeout)
	defer cancel()

	cmd := api.ClientCommand{Action: mux.Vars(r)["action"], Payload: body}
	reply, err := h.Service.ProcessCommand(ctx, cmd)
	switch {
	case errors.Is(err, engine.ErrUnknownCommand):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	status := http.StatusOK
	if reply.Error != "" {
		status = http.StatusConflict
	}
	writeJSON(w, status, reply)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
