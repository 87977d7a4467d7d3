package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/swapmarket/swapmarket-backend/internal/ai"
	"github.com/swapmarket/swapmarket-backend/internal/config"
	"github.com/swapmarket/swapmarket-backend/internal/handler"
	appmw "github.com/swapmarket/swapmarket-backend/internal/middleware"
	"github.com/swapmarket/swapmarket-backend/internal/service"
	"github.com/swapmarket/swapmarket-backend/internal/store"
	"github.com/swapmarket/swapmarket-backend/internal/workflow"
)

type Server struct {
	e   *echo.Echo
	log *slog.Logger
}

func New(cfg *config.Config, client *redis.Client, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(appmw.PrometheusMetrics())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", handler.SessionHeader},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			return false, nil
		},
	}))

	coll := store.NewCollections(client, log)
	products := store.NewProductStore(coll, log)
	users := store.NewUserStore(coll)
	purchases := store.NewPurchaseStore(coll)
	notifications := store.NewNotificationStore(coll)
	reviews := store.NewReviewStore(coll)
	wishlist := store.NewWishlistStore(coll)

	assistant := ai.NewAssistant(cfg.GeminiAPIKey, cfg.GeminiModel, log)

	var searcher service.CatalogSearcher
	if assistant.Enabled() {
		searcher = assistant
	}
	catalogSvc := service.NewCatalogService(products, searcher, log)
	authSvc := service.NewAuthService(users, service.AuthPolicy{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		SignupDomain:  cfg.AllowedSignupDomain,
	}, cfg.JWTSecret, cfg.TokenTTL)
	reviewSvc := service.NewReviewService(reviews, products)

	processor := &workflow.SimulatedProcessor{Steps: cfg.PaymentSteps, StepDelay: cfg.PaymentStepDelay}
	engine := workflow.NewEngine(products, purchases, notifications, wishlist, processor, log)

	authMw := appmw.NewAuthMiddleware(authSvc)

	authHandler := handler.NewAuthHandler(authSvc)
	productHandler := handler.NewProductHandler(catalogSvc, engine)
	workflowHandler := handler.NewWorkflowHandler(engine, wishlist)
	purchaseHandler := handler.NewPurchaseHandler(purchases)
	notificationHandler := handler.NewNotificationHandler(notifications)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	aiHandler := handler.NewAIHandler(assistant, products)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	api.POST("/auth/signup", authHandler.SignUp)
	api.POST("/auth/signin", authHandler.SignIn)
	api.GET("/me", authHandler.Me, authMw.RequireAuth)
	api.PUT("/me/profile", authHandler.UpdateProfile, authMw.RequireAuth)

	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)
	api.POST("/products", productHandler.Create, authMw.RequireAuth)
	api.PUT("/products/:id", productHandler.Update, authMw.RequireAuth)
	api.DELETE("/products/:id", productHandler.Delete, authMw.RequireAuth)
	api.GET("/me/products", productHandler.ListMine, authMw.RequireAuth)

	api.GET("/products/:id/reviews", reviewHandler.ListForProduct)
	api.POST("/products/:id/reviews", reviewHandler.Create, authMw.OptionalAuth)

	// Cart, compare, and checkout work for guests under a client session id.
	api.GET("/cart", workflowHandler.GetCart, authMw.OptionalAuth)
	api.POST("/cart", workflowHandler.AddToCart, authMw.OptionalAuth)
	api.PATCH("/cart/:id", workflowHandler.UpdateQuantity, authMw.OptionalAuth)
	api.DELETE("/cart/:id", workflowHandler.RemoveFromCart, authMw.OptionalAuth)

	api.GET("/compare", workflowHandler.GetCompare, authMw.OptionalAuth)
	api.POST("/compare/:id", workflowHandler.ToggleCompare, authMw.OptionalAuth)
	api.DELETE("/compare", workflowHandler.ClearCompare, authMw.OptionalAuth)

	api.GET("/wishlist", workflowHandler.GetWishlist, authMw.RequireAuth)
	api.POST("/wishlist/:id", workflowHandler.ToggleWishlist, authMw.RequireAuth)
	api.DELETE("/wishlist/:id", workflowHandler.RemoveFromWishlist, authMw.RequireAuth)

	api.POST("/checkout", workflowHandler.Checkout, authMw.OptionalAuth)
	api.GET("/checkout", workflowHandler.CheckoutState, authMw.OptionalAuth)
	api.POST("/checkout/pay", workflowHandler.Pay, authMw.OptionalAuth)
	api.POST("/checkout/cancel", workflowHandler.CancelCheckout, authMw.OptionalAuth)
	api.GET("/checkout/last-order", workflowHandler.LastOrder, authMw.OptionalAuth)

	api.POST("/products/:id/swap", workflowHandler.SubmitSwap, authMw.RequireAuth)

	api.GET("/me/purchases", purchaseHandler.ListMine, authMw.RequireAuth)
	api.GET("/me/notifications", notificationHandler.ListMine, authMw.RequireAuth)
	api.POST("/me/notifications/read", notificationHandler.MarkAllRead, authMw.RequireAuth)

	api.POST("/products/:id/insights", aiHandler.Insights)
	api.POST("/chat", aiHandler.Chat, authMw.OptionalAuth)

	api.GET("/admin/users", authHandler.ListUsers, authMw.RequireAdmin)
	api.GET("/admin/purchases", purchaseHandler.ListAll, authMw.RequireAdmin)

	return &Server{e: e, log: log}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Echo exposes the router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.e
}
