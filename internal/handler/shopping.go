package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dvasiliu/larder/internal/model"
	"github.com/dvasiliu/larder/internal/store"
	ws "github.com/dvasiliu/larder/internal/websocket"
)

type ShoppingHandler struct {
	store  *store.ShoppingStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewShoppingHandler(s *store.ShoppingStore, hub *ws.Hub, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{store: s, hub: hub, logger: logger}
}

func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.store.List()
	if err != nil {
		h.logger.Error("list shopping lists", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list shopping lists"})
		return
	}
	if lists == nil {
		lists = []model.ShoppingList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ShoppingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	exists, err := h.store.NameExists(req.Name)
	if err != nil {
		h.logger.Error("check list name", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create list"})
		return
	}
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a list with that name already exists"})
		return
	}

	list, err := h.store.Create(req.Name)
	if err != nil {
		h.logger.Error("create shopping list", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create list"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("list", "created", list.ID))
	writeJSON(w, http.StatusCreated, list)
}

func (h *ShoppingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get shopping list", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get list"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete shopping list", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete list"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("list", "deleted", id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "list deleted"})
}

func (h *ShoppingHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and quantity > 0 are required"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get shopping list", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get list"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}

	list, err := h.store.AddItem(id, req.Name, req.Quantity)
	if err != nil {
		h.logger.Error("add list item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add item"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("list", "updated", id))
	writeJSON(w, http.StatusOK, list)
}

func (h *ShoppingHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	listID, err := strconv.ParseInt(r.PathValue("list_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid list_id"})
		return
	}
	itemName := r.PathValue("item_name")

	existing, err := h.store.GetByID(listID)
	if err != nil {
		h.logger.Error("get shopping list", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get list"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}

	list, err := h.store.DeleteItem(listID, itemName)
	if err != nil {
		h.logger.Error("delete list item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete item"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("list", "updated", listID))
	writeJSON(w, http.StatusOK, list)
}

// BuyItem moves a list entry into the inventory and returns both the
// updated list and the affected inventory item.
func (h *ShoppingHandler) BuyItem(w http.ResponseWriter, r *http.Request) {
	listID, err := strconv.ParseInt(r.PathValue("list_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid list_id"})
		return
	}
	itemName := r.PathValue("item_name")

	var req struct {
		Quantity float64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if itemName == "" || req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "itemName and quantity > 0 are required"})
		return
	}

	existing, err := h.store.GetByID(listID)
	if err != nil {
		h.logger.Error("get shopping list", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get list"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}

	list, item, err := h.store.BuyItem(listID, itemName, req.Quantity)
	if err != nil {
		h.logger.Error("buy list item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to buy item"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("list", "updated", listID))
	h.hub.Broadcast(ws.NewMessage("inventory", "updated", item.ID))
	writeJSON(w, http.StatusOK, map[string]any{"list": list, "inventoryItem": item})
}
