package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/prasetyadi/biltrack/internal/auth"
	"github.com/prasetyadi/biltrack/internal/http/edc"
	inventoryHandler "github.com/prasetyadi/biltrack/internal/http/inventory"
	"github.com/prasetyadi/biltrack/internal/http/monthly"
	"github.com/prasetyadi/biltrack/internal/http/respond"
	"github.com/prasetyadi/biltrack/internal/http/unitkerja"
)

type Options struct {
	AuthSecret     string
	AllowedOrigins []string
}

func New(
	unitKerjaV1 *unitkerja.Handler,
	edcV1 *edc.Handler,
	monthlyV1 *monthly.Handler,
	inventoryV1 *inventoryHandler.Handler,
	opts Options,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
	}))

	router.Use(auth.Middleware(opts.AuthSecret))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, "Endpoint tidak ditemukan")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "Method tidak diizinkan")
	})

	router.Route("/api", func(r chi.Router) {
		r.Route("/unitkerja", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			unitKerjaV1.Routes(r)
		})

		r.Route("/edc", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			edcV1.Routes(r)
		})

		r.Route("/monthly", monthlyV1.Routes)

		r.Route("/inventory", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			inventoryV1.Routes(r)
		})
	})

	return router
}
