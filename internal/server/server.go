package server

import (
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dvasiliu/larder/internal/auth"
	"github.com/dvasiliu/larder/internal/handler"
	"github.com/dvasiliu/larder/internal/middleware"
	"github.com/dvasiliu/larder/internal/store"
	ws "github.com/dvasiliu/larder/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	issuer      *auth.TokenIssuer
	authH       *handler.AuthHandler
	inventoryH  *handler.InventoryHandler
	categoryH   *handler.CategoryHandler
	shoppingH   *handler.ShoppingHandler
	useH        *handler.UseHandler
	drinkH      *handler.DrinkHandler
	drinkTypeH  *handler.DrinkTypeHandler
	drunkH      *handler.DrunkDrinkHandler
	rateLimiter *middleware.RateLimiter
	healthToken string
	logger      *slog.Logger
}

func New(db *sql.DB, issuer *auth.TokenIssuer, healthToken string, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	inventoryStore := store.NewInventoryStore(db)
	categoryStore := store.NewCategoryStore(db)
	shoppingStore := store.NewShoppingStore(db)
	useStore := store.NewUseStore(db)
	drinkStore := store.NewDrinkStore(db)
	drinkTypeStore := store.NewDrinkTypeStore(db)

	return &Server{
		db:          db,
		hub:         hub,
		issuer:      issuer,
		authH:       handler.NewAuthHandler(userStore, issuer, logger.With("component", "auth")),
		inventoryH:  handler.NewInventoryHandler(inventoryStore, hub, logger.With("component", "inventory")),
		categoryH:   handler.NewCategoryHandler(categoryStore, hub, logger.With("component", "type")),
		shoppingH:   handler.NewShoppingHandler(shoppingStore, hub, logger.With("component", "list")),
		useH:        handler.NewUseHandler(useStore, hub, logger.With("component", "use")),
		drinkH:      handler.NewDrinkHandler(drinkStore, drinkTypeStore, hub, logger.With("component", "drink")),
		drinkTypeH:  handler.NewDrinkTypeHandler(drinkTypeStore, hub, logger.With("component", "drink_type")),
		drunkH:      handler.NewDrunkDrinkHandler(drinkStore, hub, logger.With("component", "drunk_drink")),
		rateLimiter: middleware.NewRateLimiter(),
		healthToken: healthToken,
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.issuer)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if s.healthToken != "" {
		token := r.URL.Query().Get("token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.healthToken)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid token"})
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	// Inventory API routes
	mux.HandleFunc("GET /api/inventory", s.inventoryH.List)
	mux.HandleFunc("POST /api/inventory", s.inventoryH.Create)
	mux.HandleFunc("GET /api/inventory/{id}", s.inventoryH.Get)
	mux.HandleFunc("PUT /api/inventory/{id}", s.inventoryH.Update)
	mux.HandleFunc("DELETE /api/inventory/{id}", s.inventoryH.Delete)

	// Type registry API routes
	mux.HandleFunc("GET /api/types", s.categoryH.List)
	mux.HandleFunc("POST /api/types", s.categoryH.Create)
	mux.HandleFunc("PUT /api/types/{id}", s.categoryH.Rename)
	mux.HandleFunc("DELETE /api/types/{id}", s.categoryH.Delete)
	mux.HandleFunc("POST /api/types/{id}/subtypes", s.categoryH.AddSubType)
	mux.HandleFunc("PUT /api/types/{id}/subtypes", s.categoryH.RenameSubType)
	mux.HandleFunc("DELETE /api/types/{id}/subtypes", s.categoryH.DeleteSubType)

	// Shopping list API routes
	mux.HandleFunc("GET /api/lists", s.shoppingH.List)
	mux.HandleFunc("POST /api/lists", s.shoppingH.Create)
	mux.HandleFunc("DELETE /api/lists/{id}", s.shoppingH.Delete)
	mux.HandleFunc("POST /api/lists/{id}/items", s.shoppingH.AddItem)
	mux.HandleFunc("DELETE /api/lists/{list_id}/items/{item_name}", s.shoppingH.DeleteItem)
	mux.HandleFunc("POST /api/lists/{list_id}/buy/{item_name}", s.shoppingH.BuyItem)

	// Use ledger API routes
	mux.HandleFunc("GET /api/use", s.useH.List)
	mux.HandleFunc("POST /api/use", s.useH.Record)

	// Drink API routes
	mux.HandleFunc("GET /api/drinks", s.drinkH.List)
	mux.HandleFunc("POST /api/drinks", s.drinkH.Create)
	mux.HandleFunc("GET /api/drinks/{id}", s.drinkH.Get)
	mux.HandleFunc("PUT /api/drinks/{id}", s.drinkH.Update)
	mux.HandleFunc("DELETE /api/drinks/{id}", s.drinkH.Delete)
	mux.HandleFunc("POST /api/drinks/{id}/consume", s.drinkH.Consume)

	// Drink type API routes
	mux.HandleFunc("GET /api/drink-types", s.drinkTypeH.List)
	mux.HandleFunc("POST /api/drink-types", s.drinkTypeH.Create)
	mux.HandleFunc("PUT /api/drink-types/{id}", s.drinkTypeH.Rename)
	mux.HandleFunc("DELETE /api/drink-types/{id}", s.drinkTypeH.Delete)

	// Drunk drink API routes
	mux.HandleFunc("GET /api/drunk", s.drunkH.List)
	mux.HandleFunc("PUT /api/drunk/{id}", s.drunkH.Update)
	mux.HandleFunc("PUT /api/drunk/{id}/comment", s.drunkH.UpdateComment)

	// WebSocket change feed
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
