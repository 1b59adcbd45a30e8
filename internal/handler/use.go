package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dvasiliu/larder/internal/model"
	"github.com/dvasiliu/larder/internal/store"
	ws "github.com/dvasiliu/larder/internal/websocket"
)

type UseHandler struct {
	store  *store.UseStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewUseHandler(s *store.UseStore, hub *ws.Hub, logger *slog.Logger) *UseHandler {
	return &UseHandler{store: s, hub: hub, logger: logger}
}

type useItemRequest struct {
	ID       *int64  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

func (h *UseHandler) List(w http.ResponseWriter, r *http.Request) {
	histories, err := h.store.List()
	if err != nil {
		h.logger.Error("list use history", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list history"})
		return
	}
	if histories == nil {
		histories = []model.UseHistory{}
	}
	writeJSON(w, http.StatusOK, histories)
}

func (h *UseHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  *string          `json:"name"`
		Items []useItemRequest `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}

	inputs := make([]store.UseInput, 0, len(req.Items))
	for _, item := range req.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" || item.Quantity <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "each item needs a name and quantity > 0"})
			return
		}
		inputs = append(inputs, store.UseInput{
			InventoryItemID: item.ID,
			Name:            name,
			Quantity:        item.Quantity,
		})
	}

	history, err := h.store.Record(req.Name, inputs)
	if err != nil {
		h.logger.Error("record use", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record use"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("use", "created", history.ID))
	for _, item := range history.Items {
		if item.InventoryItemID != nil {
			h.hub.Broadcast(ws.NewMessage("inventory", "updated", *item.InventoryItemID))
		}
	}
	writeJSON(w, http.StatusCreated, history)
}
