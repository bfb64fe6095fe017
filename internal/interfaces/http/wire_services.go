package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	adminApp "github.com/csc-helpdesk/csc/internal/application/admin"
	auditApp "github.com/csc-helpdesk/csc/internal/application/audit"
	auditUsecases "github.com/csc-helpdesk/csc/internal/application/audit/usecases"
	authApp "github.com/csc-helpdesk/csc/internal/application/auth"
	authUsecases "github.com/csc-helpdesk/csc/internal/application/auth/usecases"
	notificationApp "github.com/csc-helpdesk/csc/internal/application/notification"
	notificationUsecases "github.com/csc-helpdesk/csc/internal/application/notification/usecases"
	reportApp "github.com/csc-helpdesk/csc/internal/application/report"
	ticketApp "github.com/csc-helpdesk/csc/internal/application/ticket"
	ticketUsecases "github.com/csc-helpdesk/csc/internal/application/ticket/usecases"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/infrastructure/auth"
	"github.com/csc-helpdesk/csc/internal/infrastructure/cache"
	"github.com/csc-helpdesk/csc/internal/infrastructure/config"
	"github.com/csc-helpdesk/csc/internal/infrastructure/database"
	"github.com/csc-helpdesk/csc/internal/infrastructure/email"
	"github.com/csc-helpdesk/csc/internal/infrastructure/export"
	"github.com/csc-helpdesk/csc/internal/infrastructure/messaging"
	"github.com/csc-helpdesk/csc/internal/infrastructure/permission"
	"github.com/csc-helpdesk/csc/internal/infrastructure/pubsub"
	"github.com/csc-helpdesk/csc/internal/infrastructure/ratelimit"
	"github.com/csc-helpdesk/csc/internal/infrastructure/scheduler"
	"github.com/csc-helpdesk/csc/internal/infrastructure/services"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/middleware"
	"github.com/csc-helpdesk/csc/internal/shared/db"
	"github.com/csc-helpdesk/csc/internal/shared/goroutine"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/services/markdown"
)

const (
	stateKeyPrefix      = "csc:sso:state:"
	maxConnsPerUser     = 5
	redisConnectTimeout = 5 * time.Second
)

// allServices holds the application services behind the handlers.
type allServices struct {
	ticket       *ticketApp.Service
	auth         *authApp.Service
	admin        *adminApp.Service
	notification *notificationApp.Service
	report       *reportApp.Service
	dispatcher   *notificationApp.Dispatcher
}

// initRedis connects to redis when enabled. A nil client selects the
// in-memory state store and rate limiter.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		log.Infow("redis disabled, using in-memory state store and rate limiter")
		return nil, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}

// initInfrastructure connects redis and builds repositories, token services,
// the permission enforcer and the realtime hub.
func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	redisClient, err := initRedis(cfg, log)
	if err != nil {
		return err
	}
	c.redis = redisClient

	c.repos = newRepositories(c.db, log)
	c.txManager = db.NewTransactionManager(c.db)
	c.recorder = auditApp.NewRecorder(c.repos.auditRepo, log.Named("audit"))
	c.healthChecker = database.NewHealthChecker(c.db)
	c.group = goroutine.NewGroup(log)

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes)

	enforcer, err := permission.NewEnforcer(c.db, log.Named("permission"))
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	c.enforcer = enforcer

	c.hub = services.NewNotificationHub(log.Named("hub"), &services.NotificationHubConfig{
		MaxConnsPerUser: maxConnsPerUser,
	})

	if c.redis != nil {
		c.relay = pubsub.NewNotificationRelay(c.redis, c.hub, log.Named("relay"))
	}

	if cfg.Messaging.Enabled {
		c.publisher = messaging.NewRabbitMQPublisher(cfg.Messaging, log.Named("messaging"))
	}

	return nil
}

// stateStore keeps SSO state and PKCE verifiers in redis when available so
// callbacks may land on any instance.
func (c *Container) stateStore() authUsecases.StateStore {
	ttl := c.cfg.Auth.StateTTL()
	if c.redis != nil {
		return cache.NewRedisStateStore(c.redis, stateKeyPrefix, ttl)
	}
	return cache.NewMemoryStateStore(ttl)
}

func (c *Container) rateLimiter() ratelimit.RateLimiter {
	if c.redis != nil {
		return ratelimit.NewRedisRateLimiter(c.redis)
	}
	return ratelimit.NewMemoryRateLimiter()
}

// mailer returns nil when e-mail is disabled; the dispatcher then skips
// delivery. Otherwise delivery is also gated by the email_notifications setting.
func (c *Container) mailer() notificationApp.Mailer {
	if !c.cfg.Email.Enabled {
		return nil
	}
	smtp := email.NewSMTPMailer(c.cfg.Email, c.cfg.Server.BaseURL, c.renderer)
	return email.NewGatedMailer(smtp, c.repos.settingRepo, c.log.Named("email"))
}

func (c *Container) ssoClient() authUsecases.SSOClient {
	if !c.cfg.OIDC.Enabled {
		return nil
	}
	return auth.NewOIDCClient(c.cfg.OIDC, c.log.Named("oidc"))
}

// pusher fans pushes out to every instance when redis is available.
func (c *Container) pusher() notificationApp.Pusher {
	if c.relay != nil {
		return c.relay
	}
	return c.hub
}

func (c *Container) eventPublisher() ticketUsecases.EventPublisher {
	if c.publisher == nil {
		return nil
	}
	return c.publisher
}

// initServices builds the application services.
func (c *Container) initServices() error {
	cfg := c.cfg
	log := c.log
	repos := c.repos

	c.renderer = markdown.NewService()

	dispatcher := notificationApp.NewDispatcher(repos.notificationRepo, c.pusher(), c.mailer(), c.group, log.Named("notification"))

	policy, err := authUsecases.NewAccessPolicy(
		cfg.Auth.AllowedDomains,
		cfg.Auth.AllowedEmails,
		cfg.Auth.SuperAdmins,
		cfg.Auth.DomainRoles,
	)
	if err != nil {
		return fmt.Errorf("invalid auth configuration: %w", err)
	}

	ticketDeps := ticketUsecases.Deps{
		Tx:        c.txManager,
		Tickets:   repos.ticketRepo,
		Updates:   repos.ticketUpdateRepo,
		Audit:     c.recorder,
		Notifier:  dispatcher,
		Publisher: c.eventPublisher(),
		Sanitizer: c.renderer,
		Logger:    log.Named("ticket"),
	}

	c.svcs = &allServices{
		ticket: ticketApp.NewService(
			ticketDeps,
			ticket.NewDailyNumberGenerator(repos.ticketCounterRepo),
			repos.categoryRepo,
			repos.userRepo,
		),
		auth: authApp.NewService(repos.userRepo, c.jwtSvc, c.recorder, authApp.Options{
			Policy:     policy,
			DevLogin:   cfg.Auth.DevLogin,
			SSO:        c.ssoClient(),
			StateStore: c.stateStore(),
		}, log.Named("auth")),
		admin: adminApp.NewService(adminApp.Repositories{
			Users:      repos.userRepo,
			Tickets:    repos.ticketRepo,
			Reports:    repos.reportRepo,
			Settings:   repos.settingRepo,
			Categories: repos.categoryRepo,
			Audit:      repos.auditRepo,
		}, c.recorder, log.Named("admin")),
		notification: notificationApp.NewService(repos.notificationRepo, log.Named("notification")),
		report: reportApp.NewService(
			repos.reportRepo,
			export.NewFactory(),
			c.recorder,
			cfg.Export.TempDir,
			cfg.Export.BatchSize,
			log.Named("report"),
		),
		dispatcher: dispatcher,
	}

	return nil
}

// initMiddlewares builds the per-route middlewares.
func (c *Container) initMiddlewares() {
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log).WithUserLookup(c.repos.userRepo)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log)

	if c.cfg.RateLimit.Enabled {
		c.rateLimitMiddleware = middleware.NewRateLimitMiddleware(c.rateLimiter(), ratelimit.Policy{
			Limit:  c.cfg.RateLimit.AuthLimit,
			Window: time.Duration(c.cfg.RateLimit.WindowSeconds) * time.Second,
		}, c.log)
	}
}

// initScheduler registers the maintenance jobs. They start with the server.
func (c *Container) initScheduler() error {
	if !c.cfg.Scheduler.Enabled {
		return nil
	}

	manager, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	specs := scheduler.MaintenanceJobs(c.cfg.Scheduler, scheduler.MaintenanceDeps{
		AuditPurge:        auditUsecases.NewPurgeAuditLogsUseCase(c.repos.auditRepo, c.cfg.Retention.AuditDays, c.log),
		NotificationPurge: notificationUsecases.NewPurgeNotificationsUseCase(c.repos.notificationRepo, c.cfg.Retention.NotificationDays, c.log),
		OverdueSweep:      notificationUsecases.NewSweepOverdueTicketsUseCase(c.repos.ticketRepo, c.svcs.dispatcher, c.log).WithSettings(c.repos.settingRepo),
		Health:            c.healthChecker,
	})
	if err := manager.RegisterAll(specs); err != nil {
		return fmt.Errorf("failed to register maintenance jobs: %w", err)
	}

	c.scheduler = manager
	return nil
}
