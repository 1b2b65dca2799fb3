// Package kernel assembles the HTTP application: services, controllers,
// global middleware, routes and the operational endpoints.
package kernel

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/kashvi-shop/app/controllers"
	appgraphql "github.com/shashiranjanraj/kashvi-shop/app/graphql"
	"github.com/shashiranjanraj/kashvi-shop/app/jobs"
	"github.com/shashiranjanraj/kashvi-shop/app/listeners"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/app/routes"
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	"github.com/shashiranjanraj/kashvi-shop/pkg/cache"
	"github.com/shashiranjanraj/kashvi-shop/pkg/event"
	"github.com/shashiranjanraj/kashvi-shop/pkg/graphql"
	"github.com/shashiranjanraj/kashvi-shop/pkg/metrics"
	"github.com/shashiranjanraj/kashvi-shop/pkg/middleware"
	"github.com/shashiranjanraj/kashvi-shop/pkg/queue"
	"github.com/shashiranjanraj/kashvi-shop/pkg/reqid"
	"github.com/shashiranjanraj/kashvi-shop/pkg/response"
	"github.com/shashiranjanraj/kashvi-shop/pkg/router"
	"github.com/shashiranjanraj/kashvi-shop/pkg/storage"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ws"
)

// Deps are the booted infrastructure pieces the kernel wires together.
type Deps struct {
	Store  *repositories.Store
	Cache  *cache.Cache
	Queue  *queue.Manager
	Bus    *event.Bus
	Issuer *auth.Issuer
	Disk   storage.Disk
	Hub    *ws.Hub

	// Limiter is optional; nil disables rate limiting.
	Limiter *middleware.Limiter
	// Ping reports store health for /healthz. nil means always healthy.
	Ping func(ctx context.Context) error

	BcryptCost          int
	StrictOrderProducts bool
}

// Services are exposed so the CLI and tests can reach them directly.
type Services struct {
	Users      *services.UserService
	Auth       *services.AuthService
	Categories *services.CategoryService
	Products   *services.ProductService
	Uploads    *services.UploadService
	Carts      *services.CartService
	Orders     *services.OrderService
}

type HTTPKernel struct {
	router   *router.Router
	services Services
}

// NewHTTPKernel builds the router. It registers the queue jobs and event
// listeners as a side effect, so it must run once per Deps.
func NewHTTPKernel(d Deps) (*HTTPKernel, error) {
	if d.Cache == nil {
		d.Cache = cache.Nop()
	}
	if d.Bus == nil {
		d.Bus = event.NewBus()
	}
	if d.Queue == nil {
		d.Queue = queue.New(queue.NewMemoryDriver())
	}

	users := services.NewUserService(d.Store.Users, d.BcryptCost)
	uploads := services.NewUploadService(d.Disk)
	carts := services.NewCartService(d.Store.Carts, d.Store.Products)
	svc := Services{
		Users:      users,
		Auth:       services.NewAuthService(users, d.Store.Users, d.Issuer),
		Categories: services.NewCategoryService(d.Store.Categories, d.Cache),
		Products:   services.NewProductService(d.Store.Products, d.Store.Categories, uploads, d.Cache),
		Uploads:    uploads,
		Carts:      carts,
		Orders:     services.NewOrderService(d.Store, carts, d.Queue, d.Bus, d.StrictOrderProducts),
	}

	jobs.Register(d.Queue, d.Store)

	h := routes.Handlers{
		Authn:      middleware.Authenticate(d.Issuer, users),
		Auth:       controllers.NewAuthController(svc.Auth),
		Users:      controllers.NewUserController(users),
		Categories: controllers.NewCategoryController(svc.Categories),
		Products:   controllers.NewProductController(svc.Products),
		Uploads:    controllers.NewUploadController(uploads),
		Carts:      controllers.NewCartController(carts),
		Orders:     controllers.NewOrderController(svc.Orders),
	}
	if d.Hub != nil {
		listeners.RegisterOrderFeed(d.Bus, d.Hub)
		h.OrderFeed = controllers.NewOrderFeedController(d.Hub)
	}

	catalog := &appgraphql.Catalog{Categories: svc.Categories, Products: svc.Products}
	schema, err := catalog.Schema()
	if err != nil {
		return nil, err
	}
	h.GraphQL = graphql.Handler(schema)

	r := router.New()

	// Outermost first: metrics see total latency, recovery guards the rest,
	// and the request id exists before anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	if d.Limiter != nil {
		r.Use(d.Limiter.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", healthz(d.Ping))
	if local, ok := d.Disk.(*storage.LocalDisk); ok {
		r.Mount("/storage", http.StripPrefix("/storage", http.FileServer(http.Dir(local.Root()))))
	}

	routes.RegisterAPI(r, h)

	return &HTTPKernel{router: r, services: svc}, nil
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

func (k *HTTPKernel) Routes() []router.RouteInfo { return k.router.Routes() }

func (k *HTTPKernel) Services() Services { return k.services }

type health struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

func healthz(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping == nil {
			response.Write(w, http.StatusOK, health{Status: "ok", Store: "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			response.Write(w, http.StatusServiceUnavailable, health{Status: "degraded", Store: err.Error()})
			return
		}
		response.Write(w, http.StatusOK, health{Status: "ok", Store: "ok"})
	}
}
