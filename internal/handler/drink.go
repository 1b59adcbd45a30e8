package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/dvasiliu/larder/internal/model"
	"github.com/dvasiliu/larder/internal/store"
	ws "github.com/dvasiliu/larder/internal/websocket"
)

// Drink dates are year-month only.
var drinkDatePattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

type DrinkHandler struct {
	store     *store.DrinkStore
	typeStore *store.DrinkTypeStore
	hub       *ws.Hub
	logger    *slog.Logger
}

func NewDrinkHandler(s *store.DrinkStore, ts *store.DrinkTypeStore, hub *ws.Hub, logger *slog.Logger) *DrinkHandler {
	return &DrinkHandler{store: s, typeStore: ts, hub: hub, logger: logger}
}

type drinkRequest struct {
	Name    *string  `json:"name"`
	Type    *string  `json:"type"`
	Date    *string  `json:"date"`
	Price   *float64 `json:"price"`
	Comment *string  `json:"comment"`
}

func (h *DrinkHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.DrinkFilter{
		Name: q.Get("name"),
		Type: q.Get("type"),
	}

	drinks, err := h.store.List(filter)
	if err != nil {
		h.logger.Error("list drinks", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list drinks"})
		return
	}
	if drinks == nil {
		drinks = []model.Drink{}
	}
	writeJSON(w, http.StatusOK, drinks)
}

func (h *DrinkHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	drink, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get drink", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get drink"})
		return
	}
	if drink == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "drink not found"})
		return
	}
	writeJSON(w, http.StatusOK, drink)
}

// typeExists reports whether a drink type with the given name is registered.
func (h *DrinkHandler) typeExists(name string) (bool, error) {
	return h.typeStore.NameExists(name, 0)
}

func (h *DrinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req drinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.Name == nil || req.Type == nil || req.Date == nil || req.Price == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, type, date and price are required"})
		return
	}

	name := strings.TrimSpace(*req.Name)
	typ := strings.TrimSpace(*req.Type)
	date := strings.TrimSpace(*req.Date)
	if name == "" || typ == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, type, date and price are required"})
		return
	}
	if !drinkDatePattern.MatchString(date) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be in YYYY-MM format"})
		return
	}
	if *req.Price < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must not be negative"})
		return
	}

	exists, err := h.typeExists(typ)
	if err != nil {
		h.logger.Error("check drink type", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create drink"})
		return
	}
	if !exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown drink type"})
		return
	}

	comment := ""
	if req.Comment != nil {
		comment = *req.Comment
	}

	drink, err := h.store.Create(name, typ, date, *req.Price, comment)
	if err != nil {
		h.logger.Error("create drink", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create drink"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("drink", "created", drink.ID))
	writeJSON(w, http.StatusCreated, drink)
}

func (h *DrinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get drink", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get drink"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "drink not found"})
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
		exists, err := h.typeExists(typ)
		if err != nil {
			h.logger.Error("check drink type", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update drink"})
			return
		}
		if !exists {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown drink type"})
			return
		}
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

	drink, err := h.store.Update(id, name, typ, date, price, comment)
	if err != nil {
		h.logger.Error("update drink", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update drink"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("drink", "updated", id))
	writeJSON(w, http.StatusOK, drink)
}

func (h *DrinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get drink", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get drink"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "drink not found"})
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete drink", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete drink"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("drink", "deleted", id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "drink deleted"})
}

// Consume records the drink as drunk and removes it from the purchased
// collection.
func (h *DrinkHandler) Consume(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	drunk, err := h.store.Consume(id)
	if err != nil {
		h.logger.Error("consume drink", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to consume drink"})
		return
	}
	if drunk == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "drink not found"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("drink", "deleted", id))
	h.hub.Broadcast(ws.NewMessage("drunk_drink", "created", drunk.ID))
	writeJSON(w, http.StatusOK, map[string]any{"message": "drink consumed", "drunked": drunk})
}
