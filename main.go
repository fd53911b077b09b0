package main

import (
	"log"

	"github.com/Nonita16/viral-events-app/config"
	"github.com/Nonita16/viral-events-app/controllers"
	_ "github.com/Nonita16/viral-events-app/docs" // swagger docs
	"github.com/Nonita16/viral-events-app/middleware"
	"github.com/Nonita16/viral-events-app/models"
	"github.com/Nonita16/viral-events-app/services/activity"
	"github.com/Nonita16/viral-events-app/services/mail"
	"github.com/Nonita16/viral-events-app/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Viral Events API
// @version         1.0
// @description     Event creation, RSVP management and referral-based growth tracking.

// @host      localhost:8081
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Error initializing logger:", err)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.GetConfig()

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Error connecting to database:", err)
	}

	models.SetDB(db)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	activityService := activity.NewActivityService(db)

	var mailer mail.Mailer
	if cfg.Mail.Enabled {
		mailer = mail.NewMailService()
	}

	authController := controllers.NewAuthController(db, activityService)
	eventController := controllers.NewEventController(db, activityService)
	rsvpController := controllers.NewRSVPController(db)
	inviteController := controllers.NewInviteController(db, mailer)
	referralController := controllers.NewReferralController(db, activityService)
	activityController := controllers.NewActivityController(activityService)

	v1 := r.Group("/api/v1")
	{
		// Public routes
		v1.POST("/auth/signup", authController.Signup)
		v1.POST("/auth/login", authController.Login)
		v1.POST("/auth/anonymous", authController.Anonymous)

		v1.GET("/events", eventController.List)
		v1.GET("/events/latest", eventController.Latest)
		v1.GET("/events/:id", eventController.Get)
		v1.GET("/rsvps/counts", rsvpController.Counts)
		v1.GET("/rsvps/event/:eventId", rsvpController.ByEvent)
		v1.GET("/referrals/:code", referralController.GetByCode)
		v1.GET("/referrals/event/:eventId", referralController.ByEvent)

		// Click tracking accepts anonymous sessions, full sessions or no
		// session at all.
		v1.POST("/referrals/track-click", middleware.OptionalAuth(), referralController.TrackClick)

		// Routes for any authenticated session, anonymous included.
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.GET("/auth/me", authController.Me)
			authed.PATCH("/events/:id", eventController.Update)
			authed.DELETE("/events/:id", eventController.Delete)
			authed.DELETE("/rsvps/:id", rsvpController.Delete)
			authed.PATCH("/invites/:id", inviteController.UpdateStatus)
			authed.GET("/invites/event/:eventId", inviteController.ByEvent)
			authed.GET("/referrals/analytics/:eventId", referralController.AnalyticsByEvent)

			authed.GET("/stats", controllers.GetSystemStats)
			authed.GET("/system/status", controllers.GetSystemStatus)
			authed.GET("/logs", controllers.GetLogs)
			authed.GET("/activities", activityController.GetRecentActivities)
		}

		// Routes requiring a full (non-anonymous) account.
		full := v1.Group("")
		full.Use(middleware.AuthMiddleware(), middleware.RequireFullAccount())
		{
			full.POST("/events", eventController.Create)
			full.GET("/events/my", eventController.My)
			full.POST("/events/generate-test-data", eventController.GenerateTestData)
			full.POST("/rsvps", rsvpController.Create)
			full.GET("/rsvps/my", rsvpController.My)
			full.POST("/invites", inviteController.Create)
			full.GET("/invites/my", inviteController.My)
			full.POST("/referrals", referralController.Create)
			full.POST("/referrals/:code/register", referralController.Register)
			full.GET("/referrals/analytics", referralController.Analytics)
		}

		// WebSocket log stream, registered without middleware.
		v1.GET("/logs/watch", controllers.WatchLogs)
	}

	r.Run(":" + cfg.App.Port)
}
