package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	auditApp "github.com/csc-helpdesk/csc/internal/application/audit"
	"github.com/csc-helpdesk/csc/internal/infrastructure/auth"
	"github.com/csc-helpdesk/csc/internal/infrastructure/config"
	"github.com/csc-helpdesk/csc/internal/infrastructure/database"
	"github.com/csc-helpdesk/csc/internal/infrastructure/messaging"
	"github.com/csc-helpdesk/csc/internal/infrastructure/permission"
	"github.com/csc-helpdesk/csc/internal/infrastructure/pubsub"
	"github.com/csc-helpdesk/csc/internal/infrastructure/scheduler"
	"github.com/csc-helpdesk/csc/internal/infrastructure/services"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/middleware"
	"github.com/csc-helpdesk/csc/internal/shared/db"
	"github.com/csc-helpdesk/csc/internal/shared/goroutine"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/services/markdown"
)

// Container holds all infrastructure components, repositories, services,
// handlers and background jobs. It wires everything together and provides
// Shutdown() for graceful termination.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	svcs  *allServices
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimitMiddleware  *middleware.RateLimitMiddleware

	// Shared infrastructure services
	txManager     *db.TransactionManager
	recorder      *auditApp.Recorder
	healthChecker *database.HealthChecker
	jwtSvc        *auth.JWTService
	enforcer      *permission.Enforcer
	renderer      markdown.Service
	group         *goroutine.Group

	// Background services and hubs
	hub       *services.NotificationHub
	scheduler *scheduler.SchedulerManager
	publisher *messaging.RabbitMQPublisher

	// Cross-instance push relay, nil without redis
	relay       *pubsub.NotificationRelay
	relayCancel context.CancelFunc
}

// NewContainer creates a Container with all dependencies wired together.
// Sections run in dependency order.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, Repositories, Tokens, Permissions, Hub
	if err := c.initInfrastructure(); err != nil {
		c.Shutdown()
		return nil, err
	}

	// Section 2: Application services
	if err := c.initServices(); err != nil {
		c.Shutdown()
		return nil, err
	}

	// Section 3: Middlewares and handlers
	c.initMiddlewares()
	c.initHandlers()

	// Section 4: Maintenance jobs
	if err := c.initScheduler(); err != nil {
		c.Shutdown()
		return nil, err
	}

	return c, nil
}

// SyncPermissions writes the built-in role table into casbin_rule and
// reloads it.
func (c *Container) SyncPermissions() error {
	result, err := c.enforcer.Sync()
	if err != nil {
		return err
	}
	c.log.Infow("permission policies synced", "added", result.Added, "removed", result.Removed)
	return nil
}
