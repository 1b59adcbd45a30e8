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

type DrunkDrinkHandler struct {
	store  *store.DrinkStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewDrunkDrinkHandler(s *store.DrinkStore, hub *ws.Hub, logger *slog.Logger) *DrunkDrinkHandler {
	return &DrunkDrinkHandler{store: s, hub: hub, logger: logger}
}

func (h *DrunkDrinkHandler) List(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.store.ListDrunk()
	if err != nil {
		h.logger.Error("list drunk drinks", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list drunk drinks"})
		return
	}
	if drinks == nil {
		drinks = []model.DrunkDrink{}
	}
	writeJSON(w, http.StatusOK, drinks)
}

func (h *DrunkDrinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetDrunkByID(id)
	if err != nil {
		h.logger.Error("get drunk drink", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get drunk drink"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "drunk drink not found"})
		return
	}

	var req drinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	name := existing.Name
	typ := existing.Type
	date := existing.Date
	price := existing.Price
	comment := existing.Comment
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name must not be blank"})
			return
		}
	}
	if req.Type != nil {
		typ = strings.TrimSpace(*req.Type)
	}
	if req.Date != nil {
		date = strings.TrimSpace(*req.Date)
		if !drinkDatePattern.MatchString(date) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be in YYYY-MM format"})
			return
		}
	}
	if req.Price != nil {
		if *req.Price < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must not be negative"})
			return
		}
		price = *req.Price
	}
	if req.Comment != nil {
		comment = *req.Comment
	}

	drink, err := h.store.UpdateDrunk(id, name, typ, date, price, comment)
	if err != nil {
		h.logger.Error("update drunk drink", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update drunk drink"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("drunk_drink", "updated", id))
	writeJSON(w, http.StatusOK, drink)
}

// UpdateComment sets only the comment of a consumed drink.
func (h *DrunkDrinkHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Comment *string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Comment == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "comment is required"})
		return
	}

	existing, err := h.store.GetDrunkByID(id)
	if err != nil {
		h.logger.Error("get drunk drink", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get drunk drink"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "drunk drink not found"})
		return
	}

	drink, err := h.store.UpdateDrunkComment(id, *req.Comment)
	if err != nil {
		h.logger.Error("update drunk comment", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update comment"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("drunk_drink", "updated", id))
	writeJSON(w, http.StatusOK, drink)
}
