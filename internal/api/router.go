package api

import (
	"net/http"
	"time"

	"prephub/internal/api/handler"
	"prephub/internal/app/service"
	"prephub/internal/common"
	"prephub/internal/common/security"
	"prephub/internal/ratelimit"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	problemService *service.ProblemService,
	progressService *service.ProgressService,
	productService *service.ProductService,
	limiter *ratelimit.FixedWindowLimiter,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the bearer access token when present and puts claims in the
	// context; the Authenticator middleware enforces it per route group.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Welcome to the prephub API",
			"version": "1.0.0",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
				"success":   true,
				"status":    "OK",
				"message":   "Server is running",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		authHandler := handler.NewAuthHandler(authService, limiter)
		api.Route("/auth", authHandler.RegisterRoutes)

		problemHandler := handler.NewProblemHandler(problemService)
		api.Route("/dsa", problemHandler.RegisterRoutes)

		progressHandler := handler.NewProgressHandler(progressService)
		api.Route("/progress", progressHandler.RegisterRoutes)

		productHandler := handler.NewProductHandler(productService)
		api.Route("/tech-products", productHandler.RegisterRoutes)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusNotFound, "Route not found: "+r.URL.Path)
	})

	return r
}
