package httpserver

import (
	"errors"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"petmarket/internal/domain"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if deps.AccountSvc == nil || deps.CatalogSvc == nil || deps.PetSvc == nil ||
		deps.CartSvc == nil || deps.CouponSvc == nil || deps.OrderSvc == nil || deps.ChatSvc == nil {
		return nil, errors.New("httpserver: missing dependency")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	auth := authHandlers{accounts: deps.AccountSvc, carts: deps.CartSvc}
	cats := categoryHandlers{svc: deps.CatalogSvc}
	pets := petHandlers{svc: deps.PetSvc, categories: deps.CatalogSvc}
	carts := cartHandlers{svc: deps.CartSvc}
	coupons := couponHandlers{svc: deps.CouponSvc, carts: deps.CartSvc}
	orders := orderHandlers{svc: deps.OrderSvc}
	chat := chatHandlers{svc: deps.ChatSvc}

	v1 := router.Group("/v1")
	v1.Use(authenticate(deps.AccountSvc))

	v1.POST("/auth/signup", auth.signup)
	v1.POST("/auth/login", auth.login)
	v1.POST("/auth/refresh", auth.refresh)
	v1.POST("/auth/guest", auth.guest)
	v1.GET("/me", requireUser(), auth.me)

	v1.GET("/categories", cats.tree)
	v1.GET("/categories/flat", cats.flat)
	v1.GET("/categories/:id/children", cats.children)

	v1.GET("/pets", pets.list)
	v1.GET("/pets/:id", pets.get)

	cart := v1.Group("/cart", requireOwner())
	cart.GET("", carts.get)
	cart.POST("/items", carts.addItem)
	cart.PATCH("/items/:lineId", carts.changeQuantity)
	cart.DELETE("/items/:lineId", carts.removeItem)
	cart.GET("/quote", carts.quote)

	v1.POST("/coupons/validate", requireOwner(), coupons.validate)

	ord := v1.Group("/orders", requireUser())
	ord.POST("", orders.checkout)
	ord.GET("", orders.listMine)
	ord.GET("/:id", orders.get)
	ord.POST("/:id/actions", orders.action)

	seller := v1.Group("/seller", requireUser(), requireRole(domain.RoleSeller, domain.RoleAdmin))
	seller.POST("/pets", pets.create)
	seller.PUT("/pets/:id", pets.update)
	seller.DELETE("/pets/:id", pets.remove)
	seller.GET("/orders", orders.listForSeller)

	admin := v1.Group("/admin", requireUser(), requireRole(domain.RoleAdmin))
	admin.POST("/categories", cats.upsert)
	admin.DELETE("/categories/:id", cats.remove)
	admin.GET("/coupons", coupons.list)
	admin.POST("/coupons", coupons.create)
	admin.DELETE("/coupons/:id", coupons.remove)

	ch := v1.Group("/chat", requireUser())
	ch.POST("/conversations", chat.open)
	ch.GET("/conversations", chat.list)
	ch.GET("/conversations/:id/messages", chat.messages)
	ch.POST("/conversations/:id/messages", chat.send)
	ch.GET("/conversations/:id/stream", chat.stream)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Guest-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
