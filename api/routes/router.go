package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/divinobizcochito/storefront-backend/api/controllers"
	"github.com/divinobizcochito/storefront-backend/api/middleware"
	"github.com/divinobizcochito/storefront-backend/internal/auth"
	"github.com/divinobizcochito/storefront-backend/internal/cart"
	"github.com/divinobizcochito/storefront-backend/internal/catalog"
	checkoutsvc "github.com/divinobizcochito/storefront-backend/internal/checkout"
	"github.com/divinobizcochito/storefront-backend/internal/devices"
	"github.com/divinobizcochito/storefront-backend/internal/orders"
	"github.com/divinobizcochito/storefront-backend/internal/recipes"
	"github.com/divinobizcochito/storefront-backend/pkg/auth/session"
	"github.com/divinobizcochito/storefront-backend/pkg/config"
	"github.com/divinobizcochito/storefront-backend/pkg/logger"
	"github.com/divinobizcochito/storefront-backend/pkg/metrics"
	pkgredis "github.com/divinobizcochito/storefront-backend/pkg/redis"
)

// Dependencies carries everything NewRouter wires into the HTTP surface.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisPinger pkgredis.Pinger
	Idempotency pkgredis.IdempotencyStore
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Auth     auth.Service
	Catalog  catalog.Service
	Cart     cart.Service
	Recipes  recipes.Service
	Orders   orders.Service
	Devices  devices.Service
	Checkout checkoutsvc.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.RedisPinger, logg))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// Catalog reads and the Webpay return URL stay public: the app hits
	// them before login, and Transbank redirects without our JWT.
	r.Get("/productos", controllers.ListProducts(deps.Catalog, logg))
	r.Get("/toppings", controllers.ListToppings(deps.Catalog, logg))
	r.Get("/relleno", controllers.ListFillings(deps.Catalog, logg))
	r.Get("/recetas", controllers.ListRecipes(deps.Recipes, logg))
	r.Get("/webpay/commit-mobile", controllers.CommitWebpayMobile(deps.Checkout, logg))

	authed := middleware.Auth(cfg.JWT, deps.Sessions, logg)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.Idempotency(deps.Idempotency, logg)).Post("/register", controllers.Register(deps.Auth, logg))
		r.Post("/login", controllers.Login(deps.Auth, logg))
		r.Post("/refresh", controllers.Refresh(deps.Auth, logg))
		r.With(authed).Post("/logout", controllers.Logout(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authed)
		r.Use(middleware.Idempotency(deps.Idempotency, logg))

		r.Get("/me", controllers.Me(deps.Auth, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.Cart, logg))
			r.Delete("/", controllers.ClearCart(deps.Cart, logg))
			r.Get("/quote", controllers.QuoteCart(deps.Cart, logg))
			r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
			r.Patch("/items/{lineID}", controllers.UpdateCartItem(deps.Cart, logg))
			r.Delete("/items/{lineID}", controllers.RemoveCartItem(deps.Cart, logg))
		})

		r.Post("/recetas", controllers.CreateRecipe(deps.Recipes, logg))
		r.Post("/devices", controllers.RegisterDevice(deps.Devices, logg))

		r.Route("/pedidos", func(r chi.Router) {
			r.Get("/", controllers.ListMyOrders(deps.Orders, logg))
			r.Get("/{orderID}", controllers.GetMyOrder(deps.Orders, logg))
		})

		r.Post("/webpay/create", controllers.CreateWebpayTransaction(deps.Checkout, logg))
	})

	return r
}
