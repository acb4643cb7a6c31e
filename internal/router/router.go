package router

import (
	"fmt"
	"strings"

	"github.com/veloshop-next/internal/cache"
	"github.com/veloshop-next/internal/config"
	adminhandlers "github.com/veloshop-next/internal/http/handlers/admin"
	publichandlers "github.com/veloshop-next/internal/http/handlers/public"
	"github.com/veloshop-next/internal/logger"
	"github.com/veloshop-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "vs"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxRequests,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxRequests,
		BlockSeconds:  cfg.Security.CheckoutRateLimit.BlockSeconds,
		MessageKey:    "error.checkout_too_many",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开目录接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:slug", publicHandler.GetProduct)
			public.GET("/combo-offers", publicHandler.ListComboOffers)
		}

		// 购物车与订单接口(用户或游客归属)
		shop := apiV1.Group("")
		shop.Use(OwnerIdentityMiddleware(cfg.OwnerJWT))
		{
			shop.GET("/cart", publicHandler.GetCart)
			shop.POST("/cart/lines", publicHandler.AddCartLine)
			shop.PATCH("/cart/lines/:id", publicHandler.UpdateCartLine)
			shop.DELETE("/cart/lines/:id", publicHandler.DeleteCartLine)
			shop.DELETE("/cart", publicHandler.ClearCart)
			shop.POST("/checkout", RateLimitMiddleware(redisClient, checkoutRule, KeyByOwner), publicHandler.Checkout)
			shop.GET("/orders", publicHandler.ListMyOrders)
			shop.GET("/orders/:order_no", publicHandler.GetMyOrder)
		}

		// 管理端接口
		adminAuth := apiV1.Group("/admin")
		{
			adminAuth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIP), adminHandler.Login)
		}
		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
		admin.Use(AdminRBACMiddleware(c.AuthzService))
		{
			admin.GET("/profile", adminHandler.Profile)
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.POST("/orders/:id/tracking-updates", adminHandler.AddTrackingUpdate)
			admin.GET("/coupons", adminHandler.ListCoupons)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.PATCH("/coupons/:id", adminHandler.UpdateCoupon)
		}
	}

	return r
}
