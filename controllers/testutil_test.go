package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/Nonita16/viral-events-app/config"
	"github.com/Nonita16/viral-events-app/middleware"
	"github.com/Nonita16/viral-events-app/models"
	"github.com/Nonita16/viral-events-app/services/activity"
	"github.com/Nonita16/viral-events-app/services/mail"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps the in-memory database alive for the whole
	// test.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	models.SetDB(db)
	return db
}

func newTestRouter(db *gorm.DB, mailer mail.Mailer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	activityService := activity.NewActivityService(db)
	authController := NewAuthController(db, activityService)
	eventController := NewEventController(db, activityService)
	rsvpController := NewRSVPController(db)
	inviteController := NewInviteController(db, mailer)
	referralController := NewReferralController(db, activityService)

	v1 := r.Group("/api/v1")

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
	v1.POST("/referrals/track-click", middleware.OptionalAuth(), referralController.TrackClick)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware())
	authed.GET("/auth/me", authController.Me)
	authed.PATCH("/events/:id", eventController.Update)
	authed.DELETE("/events/:id", eventController.Delete)
	authed.DELETE("/rsvps/:id", rsvpController.Delete)
	authed.PATCH("/invites/:id", inviteController.UpdateStatus)
	authed.GET("/invites/event/:eventId", inviteController.ByEvent)
	authed.GET("/referrals/analytics/:eventId", referralController.AnalyticsByEvent)

	full := v1.Group("")
	full.Use(middleware.AuthMiddleware(), middleware.RequireFullAccount())
	full.POST("/events", eventController.Create)
	full.GET("/events/my", eventController.My)
	full.POST("/rsvps", rsvpController.Create)
	full.GET("/rsvps/my", rsvpController.My)
	full.POST("/invites", inviteController.Create)
	full.GET("/invites/my", inviteController.My)
	full.POST("/referrals", referralController.Create)
	full.POST("/referrals/:code/register", referralController.Register)
	full.GET("/referrals/analytics", referralController.Analytics)

	return r
}

func createTestUser(t *testing.T, db *gorm.DB, username string) (*models.User, string) {
	t.Helper()

	email := username + "@example.com"
	user := models.User{
		UUID:     uuid.NewString(),
		Username: username,
		Email:    &email,
		Password: "password123",
	}
	if err := user.HashPassword(); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	token, err := issueToken(&user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return &user, token
}

func createAnonymousUser(t *testing.T, db *gorm.DB, username string) (*models.User, string) {
	t.Helper()

	user := models.User{
		UUID:        uuid.NewString(),
		Username:    username,
		IsAnonymous: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create anonymous user: %v", err)
	}

	token, err := issueToken(&user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return &user, token
}

func createTestEvent(t *testing.T, db *gorm.DB, creator uint, title string) *models.Event {
	t.Helper()

	event := models.Event{
		CreatedBy: creator,
		Title:     title,
		EventDate: "2026-09-15",
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return &event
}

func performRequest(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
	return body
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d (body %s)", want, w.Code, w.Body.String())
	}
}
