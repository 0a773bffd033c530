package api

import (
	"net/http"
	"time"

	"github.com/example/herbal-backoffice/internal/api/middleware"
	"github.com/example/herbal-backoffice/internal/auth"
	"github.com/example/herbal-backoffice/internal/domain/employee"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig wires the handlers behind the router
type RouterConfig struct {
	Handlers     *Handlers
	AuthHandlers *AuthHandlers
	JWTService   *auth.JWTService
}

func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handlers

	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Logger, chimw.Recoverer)
	r.Use(chimw.Timeout(15 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", cfg.AuthHandlers.Login)
		r.Post("/auth/refresh", cfg.AuthHandlers.Refresh)
		r.Post("/auth/logout", cfg.AuthHandlers.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTService))

			r.Get("/auth/me", cfg.AuthHandlers.Me)

			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)
			r.Post("/profile/password", h.ChangePassword)

			r.With(middleware.RequirePermission(employee.PermDashboard)).Get("/dashboard", h.GetDashboard)

			r.Route("/categories", func(r chi.Router) {
				r.Use(middleware.RequirePermission(employee.PermCategories))
				r.Get("/", h.ListCategories)
				r.Post("/", h.CreateCategory)
				r.Get("/{id}", h.GetCategory)
				r.Put("/{id}", h.UpdateCategory)
				r.Delete("/{id}", h.DeleteCategory)
			})

			r.Route("/customers", func(r chi.Router) {
				r.Use(middleware.RequirePermission(employee.PermCustomers))
				r.Get("/", h.ListCustomers)
				r.Post("/", h.CreateCustomer)
				r.Get("/{id}", h.GetCustomer)
				r.Put("/{id}", h.UpdateCustomer)
				r.Delete("/{id}", h.DeleteCustomer)
			})

			r.Route("/discounts", func(r chi.Router) {
				r.Use(middleware.RequirePermission(employee.PermProducts))
				r.Get("/", h.ListDiscounts)
				r.Post("/", h.CreateDiscount)
				r.Get("/{id}", h.GetDiscount)
				r.Put("/{id}", h.UpdateDiscount)
				r.Delete("/{id}", h.DeleteDiscount)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Use(middleware.RequirePermission(employee.PermEmployees))
				r.Get("/", h.ListEmployees)
				r.Post("/", h.CreateEmployee)
				r.Get("/{id}", h.GetEmployee)
				r.Put("/{id}", h.UpdateEmployee)
				r.Delete("/{id}", h.DeleteEmployee)
			})

			r.Route("/products", func(r chi.Router) {
				r.Use(middleware.RequirePermission(employee.PermProducts))
				r.Get("/", h.ListProducts)
				r.Post("/", h.CreateProduct)
				r.Get("/{id}", h.GetProduct)
				r.Put("/{id}", h.UpdateProduct)
				r.Delete("/{id}", h.DeleteProduct)
				r.Post("/{id}/stock", h.AdjustStock)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Use(middleware.RequirePermission(employee.PermOrders))
				r.Get("/", h.ListOrders)
				r.Post("/", h.CreateOrder)
				r.Get("/{id}", h.GetOrder)
				r.Delete("/{id}", h.DeleteOrder)
				r.Put("/{id}/status", h.UpdateOrderStatus)
				r.Get("/{id}/invoice", h.GetInvoice)
			})
		})
	})

	return r
}
