// Package router sets up all HTTP routes and middleware chains for the
// ClutchZone API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clutchzone/internal/handlers"
	"clutchzone/internal/metrics"
	"clutchzone/internal/middleware"
	"clutchzone/internal/session"
)

// Login attempts allowed per IP within loginWindow.
const (
	loginLimit  = 10
	loginWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(metrics.Middleware)
	r.Use(middleware.LoadSession(sessionStore))

	// Operational endpoints.
	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	// Public catalog.
	r.Route("/api", func(r chi.Router) {
		r.Route("/cars", func(r chi.Router) {
			r.Get("/", public.ListCars)
			r.Get("/search", public.SearchCars)
			r.Get("/resolve/{pk}", public.ResolveCarSlug)
			r.Get("/{identifier}", public.GetCar)
		})

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", public.ListProperties)
			r.Get("/resolve/{pk}", public.ResolvePropertySlug)
			r.Get("/{identifier}", public.GetProperty)
		})

		r.Get("/categories", public.ListCategories)
		r.Get("/settings", public.GetSettings)
		r.Post("/orders", public.CreateOrder)
	})

	// Admin back office, bearer-token sessions.
	loginLimiter := middleware.NewRateLimiter(loginLimit, loginWindow)

	r.Route("/api/admin", func(r chi.Router) {
		r.With(loginLimiter.Middleware).Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})

		// Authenticated + 2FA-verified admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Route("/cars", func(r chi.Router) {
				r.Post("/", admin.CreateCar)
				r.Put("/reorder", admin.ReorderCars)
				r.Put("/{pk}", admin.UpdateCar)
				r.Delete("/{pk}", admin.DeleteCar)
				r.Post("/{pk}/images", admin.UploadCarImages)
			})

			r.Route("/properties", func(r chi.Router) {
				r.Post("/", admin.CreateProperty)
				r.Put("/reorder", admin.ReorderProperties)
				r.Put("/{pk}", admin.UpdateProperty)
				r.Delete("/{pk}", admin.DeleteProperty)
				r.Post("/{pk}/images", admin.UploadPropertyImages)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", admin.CreateCategory)
				r.Delete("/{pk}", admin.DeleteCategory)
				r.Post("/{pk}/logo", admin.UploadCategoryLogo)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", admin.ListOrders)
				r.Put("/{pk}/status", admin.UpdateOrderStatus)
				r.Delete("/{pk}", admin.DeleteOrder)
			})

			r.Put("/settings", admin.UpdateSettings)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
