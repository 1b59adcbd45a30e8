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

type InventoryHandler struct {
	store  *store.InventoryStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewInventoryHandler(s *store.InventoryStore, hub *ws.Hub, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{store: s, hub: hub, logger: logger}
}

type inventoryItemRequest struct {
	Name     *string  `json:"name"`
	Quantity *float64 `json:"quantity"`
	Type     *string  `json:"type"`
	SubType  *string  `json:"sub_type"`
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.InventoryFilter{
		Name:    q.Get("name"),
		Type:    q.Get("type"),
		SubType: q.Get("sub_type"),
	}

	items, err := h.store.List(filter)
	if err != nil {
		h.logger.Error("list inventory", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list inventory"})
		return
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	item, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get inventory item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get item"})
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.Name == nil || req.Quantity == nil || req.Type == nil || req.SubType == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, quantity, type and sub_type are required"})
		return
	}

	name := strings.TrimSpace(*req.Name)
	typ := strings.TrimSpace(*req.Type)
	subType := strings.TrimSpace(*req.SubType)
	if name == "" || typ == "" || subType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, quantity, type and sub_type are required"})
		return
	}

	item, err := h.store.Create(name, *req.Quantity, typ, subType)
	if err != nil {
		h.logger.Error("create inventory item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create item"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("inventory", "created", item.ID))
	writeJSON(w, http.StatusCreated, item)
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get inventory item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get item"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	var req inventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	// Only provided fields are applied.
	name := existing.Name
	quantity := existing.Quantity
	typ := existing.Type
	subType := existing.SubType
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if req.Type != nil {
		typ = strings.TrimSpace(*req.Type)
	}
	if req.SubType != nil {
		subType = strings.TrimSpace(*req.SubType)
	}

	item, err := h.store.Update(id, name, quantity, typ, subType)
	if err != nil {
		h.logger.Error("update inventory item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update item"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("inventory", "updated", id))
	writeJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get inventory item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get item"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete inventory item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete item"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("inventory", "deleted", id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}
