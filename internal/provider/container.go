package provider

import (
	"github.com/veloshop-next/internal/authz"
	"github.com/veloshop-next/internal/cache"
	"github.com/veloshop-next/internal/config"
	"github.com/veloshop-next/internal/logger"
	"github.com/veloshop-next/internal/models"
	"github.com/veloshop-next/internal/queue"
	"github.com/veloshop-next/internal/repository"
	"github.com/veloshop-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo      repository.AdminRepository
	ProductRepo    repository.ProductRepository
	ComboOfferRepo repository.ComboOfferRepository
	CartRepo       repository.CartRepository
	CouponRepo     repository.CouponRepository
	OrderRepo      repository.OrderRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	PricingService      *service.PricingService
	CartService         *service.CartService
	CouponService       *service.CouponService
	OrderService        *service.OrderService
	NotificationService *service.NotificationService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queue.NewClient(cfg.Queue),
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewGormAdminRepository(db)
	c.ProductRepo = repository.NewGormProductRepository(db)
	c.ComboOfferRepo = repository.NewGormComboOfferRepository(db)
	c.CartRepo = repository.NewGormCartRepository(db)
	c.CouponRepo = repository.NewGormCouponRepository(db)
	c.OrderRepo = repository.NewGormOrderRepository(db)
}

func (c *Container) initServices() {
	db := models.DB

	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
	} else {
		if err := authzService.BootstrapBuiltinRoles(); err != nil {
			logger.Errorw("provider_bootstrap_roles_failed", "error", err)
		}
		c.AuthzService = authzService
	}

	c.AuthService = service.NewAuthService(c.AdminRepo, c.Config.JWT)
	c.PricingService = service.NewPricingService(c.ProductRepo, c.ComboOfferRepo)
	c.CartService = service.NewCartService(db, c.CartRepo, c.PricingService)
	c.CouponService = service.NewCouponService(c.CouponRepo)
	c.OrderService = service.NewOrderService(db, c.OrderRepo, c.CartRepo, c.PricingService, c.CouponService, c.QueueClient)
	c.NotificationService = service.NewNotificationService(c.Config.Notify)
}
