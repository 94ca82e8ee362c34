package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/remotekitchen/chatchef-backend-new/api/controllers"
	"github.com/remotekitchen/chatchef-backend-new/api/middleware"
	"github.com/remotekitchen/chatchef-backend-new/internal/costs"
	"github.com/remotekitchen/chatchef-backend-new/internal/orders"
	"github.com/remotekitchen/chatchef-backend-new/internal/rewards"
	"github.com/remotekitchen/chatchef-backend-new/pkg/config"
	"github.com/remotekitchen/chatchef-backend-new/pkg/logger"
)

// NewRouter wires every HTTP surface of the service.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	costService costs.Service,
	orderService orders.Service,
	rewardGate rewards.Gate,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbPinger,
			"redis":    redisPinger,
		}))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/costs/preview", controllers.CostPreview(costService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(orderService, logg))
			r.Get("/{orderId}", controllers.GetOrder(orderService, logg))
			r.Post("/{orderId}/status", controllers.UpdateOrderStatus(orderService, logg))
		})

		r.Get("/users/{userId}/rewards/balance", controllers.RewardBalance(rewardGate, logg))
	})

	return r
}
