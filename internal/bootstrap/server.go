package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/zvrva/staybook/api"
	"github.com/zvrva/staybook/config"
)

// Handlers bundles everything the router needs; cmd/app wires the services.
type Handlers struct {
	Bookings *api.BookingHandler
	Hotels   *api.HotelHandler
	Rooms    *api.RoomHandler
	Users    *api.UserHandler
	AI       *api.AIHandler
	Webhooks *api.WebhookHandler

	Auth      gin.HandlerFunc
	OwnerOnly gin.HandlerFunc
	RateLimit gin.HandlerFunc
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, h Handlers) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           newRouter(cfg, h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, h Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  false,
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	apiGroup := router.Group("/api")
	h.Bookings.Register(apiGroup.Group("/bookings"), h.Auth, h.OwnerOnly)
	h.Hotels.Register(apiGroup.Group("/hotels"), h.Auth, h.OwnerOnly)
	h.Rooms.Register(apiGroup.Group("/rooms"), h.Auth, h.OwnerOnly)
	h.Users.Register(apiGroup.Group("/user"), h.Auth)
	h.AI.Register(apiGroup.Group("/ai"), h.RateLimit)
	// The webhook stays outside auth: the gateway signs its own requests.
	h.Webhooks.Register(apiGroup.Group("/stripe"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return router
}
