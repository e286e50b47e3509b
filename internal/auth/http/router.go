package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/branchauth/internal/auth/service"
	"github.com/aussiebroadwan/branchauth/internal/auth/store"
	"github.com/aussiebroadwan/branchauth/pkg/httpx"
	"github.com/aussiebroadwan/branchauth/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/branchauth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	gatherer     prometheus.Gatherer

	store    store.Store
	Sessions *service.SessionManager
}

func NewRouter(
	sessions *service.SessionManager,
	st store.Store,
	buildVersion string,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		gatherer:     gatherer,
		store:        st,
		Sessions:     sessions,
	}

	// Request logging runs outermost so recovered panics still get an access line.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Branch Authentication Service API
//	@version		0.1.0
//	@description	Session service for branch staff: registration, password login, rotating refresh tokens and logout.
//	@description
//	@description				Access and refresh tokens are HS256 JWTs signed with separate secrets. Refresh tokens are single-use.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/branchauth
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	h := &SessionHandler{Sessions: r.Sessions}
	bearer := func(next httpx.IdentityHandlerFunc) http.Handler {
		return httpx.RequireBearer(r.Sessions.Authenticate, next)
	}

	// Public endpoints
	r.Mux.HandleFunc("POST /v1/auth/register", h.HandleRegister)
	r.Mux.HandleFunc("POST /v1/auth/login", h.HandleLogin)
	r.Mux.HandleFunc("POST /v1/auth/refresh", h.HandleRefresh)

	// Bearer-authenticated endpoints
	r.Mux.Handle("POST /v1/auth/logout", bearer(h.HandleLogout))
	r.Mux.Handle("GET /v1/auth/me", bearer(h.HandleMe))
	r.Mux.Handle("GET /v1/auth/profile", bearer(h.HandleProfile))
	r.Mux.Handle("POST /v1/auth/password", bearer(h.HandleChangePassword))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
}
