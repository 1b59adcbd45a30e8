package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/dvasiliu/larder/internal/model"
	"github.com/dvasiliu/larder/internal/store"
	ws "github.com/dvasiliu/larder/internal/websocket"
)

// CategoryHandler manages the type registry. Renames and deletes cascade
// into the inventory; see store.CategoryStore.
type CategoryHandler struct {
	store  *store.CategoryStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewCategoryHandler(s *store.CategoryStore, hub *ws.Hub, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{store: s, hub: hub, logger: logger}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.List()
	if err != nil {
		h.logger.Error("list categories", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list types"})
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
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
		h.logger.Error("check type name", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create type"})
		return
	}
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a type with that name already exists"})
		return
	}

	category, err := h.store.Create(req.Name)
	if err != nil {
		h.logger.Error("create category", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create type"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("type", "created", category.ID))
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
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
		h.logger.Error("get category", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get type"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "type not found"})
		return
	}

	// No-op rename succeeds without touching the inventory.
	if existing.Name == req.Name {
		writeJSON(w, http.StatusOK, existing)
		return
	}

	exists, err := h.store.NameExists(req.Name, id)
	if err != nil {
		h.logger.Error("check type name", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to rename type"})
		return
	}
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a type with that name already exists"})
		return
	}

	category, err := h.store.Rename(id, req.Name)
	if err != nil {
		h.logger.Error("rename category", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to rename type"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("type", "renamed", id))
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get category", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get type"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "type not found"})
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete category", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete type"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("type", "deleted", id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "type deleted"})
}

func (h *CategoryHandler) AddSubType(w http.ResponseWriter, r *http.Request) {
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
		h.logger.Error("get category", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get type"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "type not found"})
		return
	}

	if slices.Contains(existing.SubTypes, req.Name) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subtype already exists"})
		return
	}

	category, err := h.store.AddSubType(id, req.Name)
	if err != nil {
		h.logger.Error("add subtype", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add subtype"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("type", "updated", id))
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) RenameSubType(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		OldName string `json:"oldName"`
		NewName string `json:"newName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.OldName = strings.TrimSpace(req.OldName)
	req.NewName = strings.TrimSpace(req.NewName)
	if req.OldName == "" || req.NewName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "oldName and newName are required"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get category", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get type"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "type not found"})
		return
	}

	if !slices.Contains(existing.SubTypes, req.OldName) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subtype not found"})
		return
	}
	if slices.Contains(existing.SubTypes, req.NewName) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subtype already exists"})
		return
	}

	category, err := h.store.RenameSubType(id, req.OldName, req.NewName)
	if err != nil {
		h.logger.Error("rename subtype", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to rename subtype"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("type", "updated", id))
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) DeleteSubType(w http.ResponseWriter, r *http.Request) {
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
		h.logger.Error("get category", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get type"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "type not found"})
		return
	}

	if !slices.Contains(existing.SubTypes, req.Name) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subtype not found"})
		return
	}

	category, err := h.store.DeleteSubType(id, req.Name)
	if err != nil {
		h.logger.Error("delete subtype", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete subtype"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("type", "updated", id))
	writeJSON(w, http.StatusOK, category)
}
