package http

import (
	"net/http"
	"time"

	"equipment-dispatch-backend/internal/config"
	"equipment-dispatch-backend/internal/repository"
	"equipment-dispatch-backend/internal/service"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// Services bundles everything the API surface depends on.
type Services struct {
	Dispatch  service.DispatchService
	Rotation  service.RotationService
	Seniority service.SeniorityService
	Audit     service.AuditService
	Requests  repository.RentalRequestRepository
}

// NewRouter builds the API router with rate limiting, response caching,
// panic recovery and request logging applied to every route.
func NewRouter(cfg *config.DispatchConfig, svcs Services) *mux.Router {
	router := mux.NewRouter()

	limiter := NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)
	responseCache := NewResponseCache(time.Duration(cfg.RotationCacheSeconds) * time.Second)

	router.Use(Recovery)
	router.Use(RequestLogger)
	router.Use(limiter.Middleware)
	router.Use(responseCache.Middleware)

	RegisterRequestRoutes(router, svcs.Requests, svcs.Audit)
	RegisterRotationRoutes(router, svcs.Rotation)
	RegisterDispatchRoutes(router, svcs.Dispatch)
	RegisterSeniorityRoutes(router, svcs.Seniority)
	RegisterAuditRoutes(router, svcs.Audit)

	router.HandleFunc("/health", handleHealth).Methods("GET")

	return router
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
