package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dvasiliu/larder/internal/database"
	"github.com/dvasiliu/larder/internal/store"
	ws "github.com/dvasiliu/larder/internal/websocket"
)

func setupDrinkTestHandler(t *testing.T) (*DrinkHandler, *store.DrinkTypeStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hub := ws.NewHub(slog.Default())
	ds := store.NewDrinkStore(db)
	ts := store.NewDrinkTypeStore(db)
	return NewDrinkHandler(ds, ts, hub, slog.Default()), ts
}

func TestDrinkCreateValidation(t *testing.T) {
	h, ts := setupDrinkTestHandler(t)
	if _, err := ts.Create("Wine"); err != nil {
		t.Fatalf("create drink type: %v", err)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"name":"Riesling","type":"Wine","date":"2024-06","price":12.5}`, http.StatusCreated},
		{"missing price", `{"name":"Riesling","type":"Wine","date":"2024-06"}`, http.StatusBadRequest},
		{"blank name", `{"name":" ","type":"Wine","date":"2024-06","price":1}`, http.StatusBadRequest},
		{"full date", `{"name":"Riesling","type":"Wine","date":"2024-06-01","price":1}`, http.StatusBadRequest},
		{"bad date", `{"name":"Riesling","type":"Wine","date":"June 2024","price":1}`, http.StatusBadRequest},
		{"negative price", `{"name":"Riesling","type":"Wine","date":"2024-06","price":-1}`, http.StatusBadRequest},
		{"unknown type", `{"name":"Riesling","type":"Mead","date":"2024-06","price":1}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/drinks", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Create(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestDrinkConsumeMissing(t *testing.T) {
	h, _ := setupDrinkTestHandler(t)

	req := httptest.NewRequest("POST", "/api/drinks/999/consume", nil)
	req.SetPathValue("id", "999")
	rec := httptest.NewRecorder()
	h.Consume(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDrinkPartialUpdate(t *testing.T) {
	h, ts := setupDrinkTestHandler(t)
	if _, err := ts.Create("Wine"); err != nil {
		t.Fatalf("create drink type: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/drinks", strings.NewReader(
		`{"name":"Riesling","type":"Wine","date":"2024-06","price":12.5,"comment":"dry"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}

	// Only price provided; everything else is kept.
	req = httptest.NewRequest("PUT", "/api/drinks/1", strings.NewReader(`{"price":14}`))
	req.SetPathValue("id", "1")
	rec = httptest.NewRecorder()
	h.Update(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"Riesling"`) || !strings.Contains(body, `"dry"`) || !strings.Contains(body, `14`) {
		t.Errorf("unexpected update response: %s", body)
	}
}
