package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"demo-storefront/internal/cart"
	"demo-storefront/internal/catalog"
	"demo-storefront/internal/checkout"
	"demo-storefront/internal/domain"
	"demo-storefront/internal/kv"
	productsvc "demo-storefront/internal/service/product"
	"demo-storefront/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"
)

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Related(ctx context.Context, p *domain.Product, limit int) ([]domain.Product, error)
	Categories(ctx context.Context) ([]productsvc.CategoryCount, error)
}

type sessionManager interface {
	Get(ctx context.Context, id string) (*session.Session, error)
	New(ctx context.Context) (*session.Session, error)
}

type checkoutService interface {
	Submit(ctx context.Context, engine *cart.Engine, orders kv.Store, form checkout.Form) (checkout.Receipt, error)
	LastOrderID(ctx context.Context, orders kv.Store) string
}

// Deps are the services behind the routes. Store is only used for
// readiness checks.
type Deps struct {
	ProductSvc  productService
	Sessions    sessionManager
	CheckoutSvc checkoutService
	Store       kv.Store

	PageSize      int
	CORSOrigins   []string
	CheckoutRate  rate.Limit
	CheckoutBurst int
}

type api struct {
	logger   *log.Logger
	products productService
	sessions sessionManager
	checkout checkoutService
	pageSize int
	limiters *ipLimiters
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if deps.ProductSvc == nil || deps.Sessions == nil || deps.CheckoutSvc == nil {
		return nil, errors.New("httpserver: product, session and checkout services are required")
	}
	if deps.PageSize <= 0 {
		deps.PageSize = catalog.DefaultPageSize
	}
	if deps.CheckoutRate <= 0 {
		deps.CheckoutRate = 2
	}
	if deps.CheckoutBurst <= 0 {
		deps.CheckoutBurst = 5
	}

	a := &api{
		logger:   logger,
		products: deps.ProductSvc,
		sessions: deps.Sessions,
		checkout: deps.CheckoutSvc,
		pageSize: deps.PageSize,
		limiters: newIPLimiters(deps.CheckoutRate, deps.CheckoutBurst),
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db, deps.Store))

	router.GET("/products", a.listProducts)
	router.GET("/products/search", a.searchProducts)
	router.GET("/products/:slug", a.getProduct)
	router.GET("/categories", a.listCategories)

	sess := router.Group("/", sessionMiddleware(a.sessions, logger))
	sess.GET("/cart", a.getCart)
	sess.POST("/cart/items", a.addCartItem)
	sess.PATCH("/cart/items/:productId", a.updateCartItem)
	sess.DELETE("/cart/items/:productId", a.removeCartItem)
	sess.DELETE("/cart", a.clearCart)
	sess.POST("/cart/open", a.setCartVisibility((*cart.Engine).Open))
	sess.POST("/cart/close", a.setCartVisibility((*cart.Engine).Close))
	sess.POST("/cart/toggle", a.setCartVisibility((*cart.Engine).Toggle))

	sess.GET("/listing", a.getListing)
	sess.PATCH("/listing", a.updateListing)

	sess.POST("/checkout", rateLimitMiddleware(a.limiters), a.submitCheckout)
	sess.GET("/orders/last", a.lastOrder)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", sessionHeader},
		ExposeHeaders:    []string{sessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
}

func (a *api) writeInternal(c *gin.Context, op string, err error) {
	a.logger.Printf("http: %s error=%v", op, err)
	writeError(c, http.StatusInternalServerError, "internal_error", "unexpected error")
}

func (a *api) writeLookupError(c *gin.Context, op string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(c, http.StatusNotFound, "not_found", "product not found")
		return
	}
	a.writeInternal(c, op, err)
}
