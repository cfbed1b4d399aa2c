package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/worldoflottery/archive-backend/api/controllers"
	"github.com/worldoflottery/archive-backend/api/middleware"
	"github.com/worldoflottery/archive-backend/internal/catalog"
	"github.com/worldoflottery/archive-backend/internal/enrichment"
	"github.com/worldoflottery/archive-backend/internal/profile"
	"github.com/worldoflottery/archive-backend/pkg/config"
	"github.com/worldoflottery/archive-backend/pkg/db"
	"github.com/worldoflottery/archive-backend/pkg/logger"
	"github.com/worldoflottery/archive-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	profileService profile.Service,
	enrichmentService enrichment.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", controllers.TicketList(catalogService, logg))
			r.Post("/", controllers.TicketCreate(catalogService, logg))
			r.Get("/duplicates", controllers.TicketDuplicates(catalogService, logg))
			r.Route("/{ticketId}", func(r chi.Router) {
				r.Get("/", controllers.TicketDetail(catalogService, logg))
				r.Put("/", controllers.TicketUpdate(catalogService, logg))
				r.Delete("/", controllers.TicketDelete(catalogService, logg))
				r.Post("/favorite", controllers.TicketToggleFavorite(catalogService, logg))
			})
		})

		r.Get("/stats", controllers.CollectionStats(catalogService, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileCurrent(profileService, logg))
			r.Post("/register", controllers.ProfileRegister(profileService, logg))
			r.Post("/login", controllers.ProfileLogin(profileService, logg))
		})

		r.Route("/enrichment", func(r chi.Router) {
			r.Post("/analyze", controllers.EnrichmentAnalyze(enrichmentService, logg))
			r.Post("/research", controllers.EnrichmentResearch(enrichmentService, logg))
		})
	})

	return r
}
