package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"studiobook/internal/booking"
	"studiobook/internal/checkin"
	"studiobook/internal/client"
	"studiobook/internal/config"
	"studiobook/internal/db"
	"studiobook/internal/email"
	"studiobook/internal/membership"
	"studiobook/internal/payment"
	"studiobook/internal/plan"
	"studiobook/internal/qrtoken"
	"studiobook/internal/session"
	"studiobook/internal/settings"
	"studiobook/internal/waitlist"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(database *sqlx.DB, cfg *config.Config, emailService *email.Service, studioSettings *settings.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RequestLoggingMiddleware())

	txRunner := db.NewRunner(database)

	clientRepo := client.NewRepository(database)
	sessionRepo := session.NewRepository(database)
	bookingRepo := booking.NewRepository(database)
	planRepo := plan.NewRepository(database)
	membershipRepo := membership.NewRepository(database)
	tokenRepo := qrtoken.NewRepository(database)
	waitlistRepo := waitlist.NewRepository(database)

	tokenService := qrtoken.NewService(tokenRepo, studioSettings)
	capacityGuard := booking.NewCapacityGuard(bookingRepo)
	autoBooker := booking.NewAutoBooker(sessionRepo, bookingRepo, capacityGuard, tokenService)
	waitlistService := waitlist.NewService(waitlistRepo, txRunner)
	bookingService := booking.NewService(bookingRepo, waitlistService)
	attendanceService := booking.NewAttendanceService(bookingRepo, studioSettings)

	planPreparer := plan.NewPreparer(clientRepo, planRepo, membershipRepo, studioSettings)
	planCommitter := plan.NewCommitter(planRepo, clientRepo, autoBooker, txRunner)
	membershipPreparer := membership.NewPreparer(clientRepo, membershipRepo, studioSettings)
	membershipCommitter := membership.NewCommitter(membershipRepo, clientRepo, txRunner)

	clientHandler := client.NewHandler(clientRepo)
	planHandler := plan.NewHandler(planPreparer, planCommitter)
	membershipHandler := membership.NewHandler(membershipPreparer, membershipCommitter)
	paymentHandler := payment.NewHandler(planPreparer, planCommitter, membershipPreparer, membershipCommitter, emailService)
	bookingHandler := booking.NewHandler(bookingService)
	waitlistHandler := waitlist.NewHandler(waitlistService)
	checkinHandler := checkin.NewHandler(tokenService, attendanceService, bookingService, sessionRepo, clientRepo)

	// Purchase surface. Permission checks happen upstream of this service.
	purchases := router.Group("/purchases")
	{
		purchases.POST("/plans", planHandler.PurchasePlan)
		purchases.POST("/memberships", membershipHandler.PurchaseMembership)
	}

	router.POST("/payments/events", paymentHandler.HandleEvent)

	// Check-in surface, rate limited because the scanner endpoint is the
	// one exposed on the studio floor.
	checkins := router.Group("/checkin")
	checkins.Use(RateLimitMiddleware(cfg.CheckinRatePerSecond, cfg.CheckinRateBurst))
	{
		checkins.POST("", checkinHandler.Checkin)
		checkins.POST("/instructor", checkinHandler.InstructorCheckin)
		checkins.POST("/instructor-tokens", checkinHandler.IssueInstructorToken)
	}
	router.GET("/qr/:code", checkinHandler.TokenImage)

	router.GET("/clients/:clientID/snapshot", clientHandler.GetSnapshot)
	router.GET("/clients/:clientID/bookings", bookingHandler.ListClientBookings)
	router.GET("/sessions/:sessionID/bookings", bookingHandler.ListSessionBookings)
	router.POST("/sessions/:sessionID/waitlist", waitlistHandler.Join)
	router.POST("/bookings/:bookingID/cancel", bookingHandler.CancelBooking)
	router.GET("/bookings/:bookingID/events", bookingHandler.ListBookingEvents)
	router.POST("/waitlist/:entryID/cancel", waitlistHandler.Cancel)
	router.POST("/waitlist/:entryID/promote", waitlistHandler.Promote)

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		db:     database,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:         ":" + port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
