// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"stagehand/internal/cancellation"
	"stagehand/internal/conflicts"
	"stagehand/internal/events"
	"stagehand/internal/members"
	"stagehand/internal/notifications"
	"stagehand/internal/productions"
	"stagehand/internal/proposals"
	"stagehand/internal/registrations"
	"stagehand/internal/shared/config"
	"stagehand/internal/shared/database"
	"stagehand/internal/shifts"
	"stagehand/internal/waitlist"
	"stagehand/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Router holds all route dependencies
type Router struct {
	config     *config.Config
	db         *database.DB
	dispatcher *notifications.Dispatcher
}

// NewRouter creates a new router instance. The dispatcher may be nil when the
// notification pipeline is unavailable; registrations then run silent.
func NewRouter(cfg *config.Config, db *database.DB, dispatcher *notifications.Dispatcher) *Router {
	return &Router{
		config:     cfg,
		db:         db,
		dispatcher: dispatcher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	gormDB := r.db.GetPostgreSQL()

	// Shared building blocks
	cacheService := cache.NewService(r.db.GetRedis())
	queue := waitlist.NewQueue(gormDB)
	detector := conflicts.NewDetector(conflicts.NewRepository(gormDB))
	guard := cancellation.NewGuard(r.config.Engine.CancelBuffer)

	// Feature services, bottom up
	memberService := members.NewService(members.NewRepository(gormDB))
	eventService := events.NewService(events.NewRepository(gormDB))
	shiftService := shifts.NewService(shifts.NewRepository(gormDB), cacheService, &shifts.ServiceConfig{
		AvailabilityTTL: r.config.Redis.AvailabilityTTL,
		ShiftListTTL:    r.config.Redis.ShiftListTTL,
	})
	waitlistService := waitlist.NewService(queue)

	var dispatcher registrations.Dispatcher
	if r.dispatcher != nil {
		dispatcher = r.dispatcher
	} else {
		dispatcher = noopDispatcher{}
	}

	registrationService := registrations.NewService(
		registrations.NewRepository(gormDB, queue),
		detector,
		shiftService,
		eventService,
		memberService,
		guard,
		dispatcher,
		r.config.Engine,
	)

	productionService := productions.NewService(productions.NewRepository(gormDB), memberService)
	proposalEngine := proposals.NewEngine(productionService, shiftService, registrationService, detector)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		members.SetupMemberRoutes(api, members.NewController(memberService))
		events.SetupEventRoutes(api, events.NewController(eventService))
		shifts.SetupShiftRoutes(api, shifts.NewController(shiftService))
		registrations.SetupRegistrationRoutes(api, registrations.NewController(registrationService))
		waitlist.SetupWaitlistRoutes(api, waitlist.NewController(waitlistService))
		productions.SetupProductionRoutes(api, productions.NewController(productionService))
		proposals.SetupProposalRoutes(api, proposals.NewController(proposalEngine))
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "stagehand-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "stagehand-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// noopDispatcher swallows notification hooks when the pipeline is down
type noopDispatcher struct{}

func (noopDispatcher) RegistrationConfirmed(registrationID uuid.UUID, cancelToken string)  {}
func (noopDispatcher) RegistrationWaitlisted(registrationID uuid.UUID, cancelToken string) {}
func (noopDispatcher) CancellationConfirmed(registrationID uuid.UUID)                      {}
func (noopDispatcher) WaitlistPromoted(registrationID uuid.UUID)                           {}
