package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cofounderbay/networking-core/internal/middleware"
	"github.com/cofounderbay/networking-core/internal/service"
	"github.com/cofounderbay/networking-core/pkg/logger"
)

// RouterConfig carries what the router needs besides the services.
type RouterConfig struct {
	JWTSecret          string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
	CORSAllowedOrigins []string
}

// Services groups the services exposed over HTTP.
type Services struct {
	Discovery    *service.DiscoveryService
	Network      *service.NetworkService
	Messaging    *service.MessagingService
	Opportunity  *service.OpportunityService
	Profile      *service.ProfileService
	Connectivity Connectivity
}

// NewRouter builds the bridge router.
func NewRouter(cfg RouterConfig, svc Services, log *logger.Logger) http.Handler {
	healthHandler := NewHealthHandler(svc.Connectivity)
	discoveryHandler := NewDiscoveryHandler(svc.Discovery, log)
	networkHandler := NewNetworkHandler(svc.Network, log)
	messagingHandler := NewMessagingHandler(svc.Messaging, log)
	opportunityHandler := NewOpportunityHandler(svc.Opportunity, log)
	profileHandler := NewProfileHandler(svc.Profile, log)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Get("/badges", messagingHandler.Badges)

		r.Get("/profiles", discoveryHandler.Profiles)

		r.Route("/opportunities", func(r chi.Router) {
			r.Get("/", discoveryHandler.Opportunities)
			r.Post("/{id}/apply", opportunityHandler.Apply)
		})

		r.Route("/network", func(r chi.Router) {
			r.Get("/connections", networkHandler.Connections)
			r.Get("/suggestions", networkHandler.Suggestions)
			r.Post("/suggestions/{id}/connect", networkHandler.Connect)
			r.Get("/requests", networkHandler.Requests)
			r.Post("/requests/{id}/accept", networkHandler.Accept)
			r.Post("/requests/{id}/decline", networkHandler.Decline)
		})

		r.Route("/intros", func(r chi.Router) {
			r.Get("/", messagingHandler.Intros)
			r.Post("/{id}/accept", messagingHandler.AcceptIntro)
			r.Post("/{id}/decline", messagingHandler.DeclineIntro)
		})

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", messagingHandler.Conversations)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/messages", messagingHandler.Messages)
				r.Post("/messages", messagingHandler.Send)
				r.Post("/messages/{messageID}/reactions", messagingHandler.React)
				r.Post("/read", messagingHandler.Read)
				r.Get("/typing", messagingHandler.Typing)
			})
		})

		r.Route("/proposals", func(r chi.Router) {
			r.Get("/", opportunityHandler.Proposals)
			r.Post("/{id}/accept", opportunityHandler.AcceptProposal)
			r.Post("/{id}/decline", opportunityHandler.DeclineProposal)
		})

		r.Get("/applications", opportunityHandler.Applications)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profileHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireScope(middleware.ScopeProfileWrite))
				r.Post("/edit", profileHandler.Edit)
				r.Patch("/draft", profileHandler.Patch)
				r.Post("/save", profileHandler.Save)
				r.Post("/cancel", profileHandler.Cancel)
			})
		})
	})

	return r
}
