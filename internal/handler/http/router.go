package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/verp-hr/fine-backend-go/internal/handler/http/middleware"
	"github.com/verp-hr/fine-backend-go/internal/pkg/jwt"
)

func NewRouter(JWTService jwt.Service, fineHandler FineHandler, liabilityHandler LiabilityHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "fine-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/fines", func(r chi.Router) {
				r.Post("/", fineHandler.Create)
				r.With(middleware.AdminOnly).Get("/", fineHandler.ListByStatus)
				r.Get("/code/{code}", fineHandler.GetByCode)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", fineHandler.Get)
					r.Put("/", fineHandler.Update)
					r.Post("/actions", fineHandler.Act)
					r.Get("/permissions", fineHandler.CanAct)

					// Payments land via payroll/accounts
					r.Post("/payments", fineHandler.RecordPayment)
				})
			})

			r.Route("/persons/{personID}", func(r chi.Router) {
				r.Get("/fines", fineHandler.ListForPerson)
				r.Get("/liability", liabilityHandler.GetSummary)
			})
		})
	})
	return r
}
