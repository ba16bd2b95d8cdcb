package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carservice/internal/api"
	"carservice/internal/auth"
	"carservice/internal/booking"
	"carservice/internal/catalog"
	"carservice/internal/customer"
	"carservice/internal/feedback"
	"carservice/internal/mechanic"
	"carservice/internal/payment"
	"carservice/internal/slot"
	"carservice/internal/user"
	"carservice/internal/vehicle"
	"carservice/pkg/config"
)

type Dependencies struct {
	Cfg config.Config
	DB  *pgxpool.Pool
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	usersRepo := user.NewRepository(deps.DB)
	customersRepo := customer.NewRepository(deps.DB)
	mechanicsRepo := mechanic.NewRepository(deps.DB)
	catalogRepo := catalog.NewRepository(deps.DB)
	slotsRepo := slot.NewRepository(deps.DB)
	vehiclesRepo := vehicle.NewRepository(deps.DB)
	bookingsRepo := booking.NewRepository(deps.DB)
	feedbackRepo := feedback.NewRepository(deps.DB)
	paymentsRepo := payment.NewRepository(deps.DB)

	sessions := auth.NewManager(
		deps.Cfg.Auth.JWTSecret,
		time.Duration(deps.Cfg.Auth.SessionTTLMinutes)*time.Minute,
		auth.NewSessionStore(),
	)

	authHandlers := auth.Handlers{
		DB:        deps.DB,
		Sessions:  sessions,
		Users:     usersRepo,
		Customers: customersRepo,
		Mechanics: mechanicsRepo,
	}
	customerHandlers := customer.Handlers{Customers: customersRepo}
	mechanicHandlers := mechanic.Handlers{DB: deps.DB, Mechanics: mechanicsRepo, Users: usersRepo}
	catalogHandlers := catalog.Handlers{Services: catalogRepo}
	slotHandlers := slot.Handlers{Slots: slotsRepo}
	vehicleHandlers := vehicle.Handlers{Vehicles: vehiclesRepo}
	bookingHandlers := booking.Handlers{
		DB:        deps.DB,
		Bookings:  bookingsRepo,
		Vehicles:  vehiclesRepo,
		Catalog:   catalogRepo,
		Mechanics: mechanicsRepo,
	}
	feedbackHandlers := feedback.Handlers{Feedback: feedbackRepo, Bookings: bookingsRepo}
	paymentHandlers := payment.Handlers{DB: deps.DB, Payments: paymentsRepo, Bookings: bookingsRepo}

	r.Route("/v1", func(r chi.Router) {
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.AllowedOrigins,
		}))

		r.Post("/auth/register", authHandlers.Register)
		r.Post("/auth/login", authHandlers.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.SessionAuth(sessions))

			r.Post("/auth/logout", authHandlers.Logout)
			r.Get("/auth/me", authHandlers.Me)

			// Visible to every signed-in role.
			r.Get("/services", catalogHandlers.ListActive)
			r.Get("/slots", slotHandlers.List)

			// Lifecycle: handler enforces admin-or-assigned-mechanic.
			r.Patch("/bookings/{id}/status", bookingHandlers.UpdateStatus)

			// Customer
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(user.RoleCustomer))

				r.Get("/profile", customerHandlers.GetProfile)
				r.Put("/profile", customerHandlers.UpdateProfile)

				r.Get("/vehicles", vehicleHandlers.List)
				r.Post("/vehicles", vehicleHandlers.Create)
				r.Delete("/vehicles/{id}", vehicleHandlers.Delete)

				r.Post("/bookings", bookingHandlers.Create)
				r.Get("/bookings", bookingHandlers.ListMine)

				r.Post("/feedback", feedbackHandlers.Submit)
			})

			// Mechanic
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(user.RoleMechanic))

				r.Get("/tasks", bookingHandlers.ListTasks)
				r.Get("/tasks/history", bookingHandlers.ListHistory)
			})

			// Admin
			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireRole(user.RoleAdmin))

				r.Get("/services", catalogHandlers.ListAll)
				r.Post("/services", catalogHandlers.Create)
				r.Patch("/services/{id}/active", catalogHandlers.SetActive)

				r.Post("/slots", slotHandlers.Create)

				r.Get("/bookings", bookingHandlers.ListAll)
				r.Patch("/bookings/{id}/mechanic", bookingHandlers.AssignMechanic)
				r.Get("/bookings/{id}/events", bookingHandlers.Events)

				r.Get("/mechanics", mechanicHandlers.List)
				r.Post("/mechanics", mechanicHandlers.Create)
				r.Patch("/mechanics/{id}/active", mechanicHandlers.SetActive)

				r.Get("/payments", paymentHandlers.ListAll)
				r.Post("/payments", paymentHandlers.Record)

				r.Get("/feedback", feedbackHandlers.ListAll)
			})
		})
	})

	return r
}
