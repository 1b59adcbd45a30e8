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

type DrinkTypeHandler struct {
	store  *store.DrinkTypeStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewDrinkTypeHandler(s *store.DrinkTypeStore, hub *ws.Hub, logger *slog.Logger) *DrinkTypeHandler {
	return &DrinkTypeHandler{store: s, hub: hub, logger: logger}
}

func (h *DrinkTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.List()
	if err != nil {
		h.logger.Error("list drink types", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list drink types"})
		return
	}
	if types == nil {
		types = []model.DrinkType{}
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *DrinkTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	exists, err := h.store.NameExists(req.Name, 0)
	if err != nil {
		h.logger.Error("check drink type name", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create drink type"})
		return
	}
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a drink type with that name already exists"})
		return
	}

	dt, err := h.store.Create(req.Name)
	if err != nil {
		h.logger.Error("create drink type", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create drink type"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("drink_type", "created", dt.ID))
	writeJSON(w, http.StatusCreated, dt)
}

func (h *DrinkTypeHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

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

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get drink type", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get drink type"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "drink type not found"})
		return
	}

	exists, err := h.store.NameExists(req.Name, id)
	if err != nil {
		h.logger.Error("check drink type name", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to rename drink type"})
		return
	}
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a drink type with that name already exists"})
		return
	}

	dt, err := h.store.Rename(id, req.Name)
	if err != nil {
		h.logger.Error("rename drink type", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to rename drink type"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("drink_type", "renamed", id))
	writeJSON(w, http.StatusOK, dt)
}

func (h *DrinkTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get drink type", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get drink type"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "drink type not found"})
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete drink type", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete drink type"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("drink_type", "deleted", id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "drink type deleted"})
}
