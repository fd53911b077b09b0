package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Nonita16/viral-events-app/middleware"
	"github.com/Nonita16/viral-events-app/models"
	"github.com/Nonita16/viral-events-app/services/activity"
	"github.com/Nonita16/viral-events-app/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// codeGenerationAttempts bounds the retry loop when a freshly generated code
// collides with an existing one.
const codeGenerationAttempts = 3

// ReferralController implements the referral attribution pipeline: code
// issuance, click tracking, idempotent registration with auto-RSVP, and
// analytics.
type ReferralController struct {
	DB              *gorm.DB
	activityService *activity.ActivityService
}

func NewReferralController(db *gorm.DB, activityService *activity.ActivityService) *ReferralController {
	return &ReferralController{
		DB:              db,
		activityService: activityService,
	}
}

// CreateReferralRequest optionally ties the code to an event.
type CreateReferralRequest struct {
	EventID *uint `json:"event_id" example:"42"`
}

// TrackClickRequest is the click-tracking body. AnonUserID is the
// client-supplied candidate identity used when the anonymous session cookie
// has not propagated yet.
type TrackClickRequest struct {
	Code       string `json:"code" example:"aB3dE5fG7h"`
	AnonUserID string `json:"anon_user_id" example:"0b9fd9a2-4c2a-4be6-9a13-ffb24b2a9cbd"`
}

// CodeAnalytics is the per-code slice of the event analytics response.
type CodeAnalytics struct {
	ID         uint    `json:"id"`
	Code       string  `json:"code"`
	Clicks     int64   `json:"clicks"`
	Signups    int64   `json:"signups"`
	Conversion float64 `json:"conversion"`
}

// Create godoc
// @Summary      Get or create the caller's referral code
// @Description  Returns the existing code with 200, or generates a new
// @Description  10-character code with 201, retrying up to 3 times on
// @Description  collision
// @Tags         referrals
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        referral body CreateReferralRequest false "optional event binding"
// @Success      200  {object}  map[string]interface{}
// @Success      201  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /referrals [post]
func (rc *ReferralController) Create(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	var req CreateReferralRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	// One code per creator, enforced here rather than by a constraint.
	var existing models.ReferralCode
	err := rc.DB.Where("created_by = ?", userID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"referralCode": existing})
		return
	}
	if !notFound(err) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var referralCode models.ReferralCode
	for attempt := 0; ; attempt++ {
		code, genErr := utils.GenerateRandomString(models.ReferralCodeLength)
		if genErr != nil {
			utils.LogError("failed to generate referral code", genErr)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate referral code"})
			return
		}

		referralCode = models.ReferralCode{
			Code:      code,
			EventID:   req.EventID,
			CreatedBy: userID,
		}

		insertErr := rc.DB.Create(&referralCode).Error
		if insertErr == nil {
			break
		}
		if !errors.Is(insertErr, gorm.ErrDuplicatedKey) || attempt == codeGenerationAttempts-1 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create referral code"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"referralCode": referralCode})
}

// GetByCode godoc
// @Summary      Resolve a referral code
// @Tags         referrals
// @Produce      json
// @Param        code path string true "referral code"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /referrals/{code} [get]
func (rc *ReferralController) GetByCode(c *gin.Context) {
	var referralCode models.ReferralCode
	err := rc.DB.Preload("Event").Where("code = ?", c.Param("code")).First(&referralCode).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid referral code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"referralCode": referralCode})
}

// ByEvent godoc
// @Summary      Referral codes for an event
// @Tags         referrals
// @Produce      json
// @Param        eventId path int true "event id"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /referrals/event/{eventId} [get]
func (rc *ReferralController) ByEvent(c *gin.Context) {
	var codes []models.ReferralCode
	err := rc.DB.Where("event_id = ?", c.Param("eventId")).
		Order("created_at desc").
		Find(&codes).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"referralCodes": codes})
}

// Register godoc
// @Summary      Redeem a referral code
// @Description  Records the registration (idempotent on repeat redemption)
// @Description  and RSVPs the caller "going" to the code's event
// @Tags         referrals
// @Produce      json
// @Security     Bearer
// @Param        code path string true "referral code"
// @Success      201  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /referrals/{code}/register [post]
func (rc *ReferralController) Register(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	var referralCode models.ReferralCode
	if err := rc.DB.Where("code = ?", c.Param("code")).First(&referralCode).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid referral code"})
		return
	}

	registration := models.ReferralRegistration{
		ReferralCodeID: referralCode.ID,
		UserID:         userID,
		EventID:        referralCode.EventID,
	}

	if err := rc.DB.Create(&registration).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// Repeat redemption by the same user: keep going so the caller
		// still ends up with the RSVP.
		utils.LogInfo(fmt.Sprintf("duplicate referral registration for code %s by user %d", referralCode.Code, userID))
	} else {
		rc.activityService.RecordActivity("referral", fmt.Sprintf("referral code %s redeemed", referralCode.Code))
	}

	if referralCode.EventID == nil {
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Successfully registered via referral code",
		})
		return
	}

	rsvp := models.RSVP{
		EventID: *referralCode.EventID,
		UserID:  userID,
		Status:  models.RSVPGoing,
	}

	err := rc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&rsvp).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := rc.DB.Where("event_id = ? AND user_id = ?", rsvp.EventID, rsvp.UserID).First(&rsvp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"rsvp":     rsvp,
		"event_id": *referralCode.EventID,
	})
}

// TrackClick godoc
// @Summary      Track a referral link click
// @Description  Deduplicated per (code, anonymous identity); clicks by fully
// @Description  registered users are a no-op
// @Tags         referrals
// @Accept       json
// @Produce      json
// @Param        click body TrackClickRequest true "click payload"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /referrals/track-click [post]
func (rc *ReferralController) TrackClick(c *gin.Context) {
	var req TrackClickRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	if req.AnonUserID != "" && !utils.IsValidUUID(req.AnonUserID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user identifier format"})
		return
	}

	_, authed := c.Get(middleware.CtxClaims)
	isAnonymous := c.GetBool(middleware.CtxIsAnonymous)

	// Resolve the tracking identity. The server-side anonymous session wins;
	// a client-supplied id covers the window before the session cookie
	// propagates; registered users are never attributed.
	var trackingUserID string
	switch {
	case authed && isAnonymous:
		trackingUserID = c.GetString(middleware.CtxUserUUID)
	case req.AnonUserID != "":
		trackingUserID = req.AnonUserID
	case authed:
		c.JSON(http.StatusOK, gin.H{"message": "Click not tracked - user already registered"})
		return
	}

	if trackingUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to track click - no user identifier"})
		return
	}

	var referralCode models.ReferralCode
	if err := rc.DB.Select("id").Where("code = ?", req.Code).First(&referralCode).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Referral code not found"})
		return
	}

	var existing models.ReferralClick
	err := rc.DB.Where("referral_code_id = ? AND anon_user_id = ?", referralCode.ID, trackingUserID).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Click already tracked"})
		return
	}
	if !notFound(err) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track click"})
		return
	}

	click := models.ReferralClick{
		ReferralCodeID: referralCode.ID,
		AnonUserID:     trackingUserID,
	}
	if err := rc.DB.Create(&click).Error; err != nil {
		// Two concurrent first clicks can both pass the existence check;
		// the unique index turns the loser into a duplicate insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusOK, gin.H{"message": "Click already tracked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track click"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Click tracked successfully"})
}

// Analytics godoc
// @Summary      Referral analytics for the caller's code
// @Tags         referrals
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /referrals/analytics [get]
func (rc *ReferralController) Analytics(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	var referralCode models.ReferralCode
	err := rc.DB.Where("created_by = ?", userID).First(&referralCode).Error
	if notFound(err) {
		c.JSON(http.StatusOK, gin.H{
			"totalClicks":     0,
			"totalSignups":    0,
			"totalConversion": 0,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	clicks, signups, countErr := rc.countForCode(referralCode.ID)
	if countErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": countErr.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":            referralCode.Code,
		"totalClicks":     clicks,
		"totalSignups":    signups,
		"totalConversion": conversionRate(clicks, signups),
	})
}

// AnalyticsByEvent godoc
// @Summary      Referral analytics per code for an event
// @Description  Restricted to the event creator
// @Tags         referrals
// @Produce      json
// @Security     Bearer
// @Param        eventId path int true "event id"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /referrals/analytics/{eventId} [get]
func (rc *ReferralController) AnalyticsByEvent(c *gin.Context) {
	eventID := c.Param("eventId")
	userID := c.GetUint(middleware.CtxUserID)

	var event models.Event
	if err := rc.DB.Select("created_by").First(&event, "id = ?", eventID).Error; err != nil || event.CreatedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var codes []models.ReferralCode
	if err := rc.DB.Where("event_id = ?", eventID).Find(&codes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	analytics := make([]CodeAnalytics, 0, len(codes))
	var totalClicks, totalSignups int64
	for _, code := range codes {
		clicks, signups, err := rc.countForCode(code.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		analytics = append(analytics, CodeAnalytics{
			ID:         code.ID,
			Code:       code.Code,
			Clicks:     clicks,
			Signups:    signups,
			Conversion: conversionRate(clicks, signups),
		})
		totalClicks += clicks
		totalSignups += signups
	}

	c.JSON(http.StatusOK, gin.H{
		"analytics":       analytics,
		"totalClicks":     totalClicks,
		"totalSignups":    totalSignups,
		"totalConversion": conversionRate(totalClicks, totalSignups),
	})
}

func (rc *ReferralController) countForCode(codeID uint) (clicks, signups int64, err error) {
	if err = rc.DB.Model(&models.ReferralClick{}).Where("referral_code_id = ?", codeID).Count(&clicks).Error; err != nil {
		return 0, 0, err
	}
	if err = rc.DB.Model(&models.ReferralRegistration{}).Where("referral_code_id = ?", codeID).Count(&signups).Error; err != nil {
		return 0, 0, err
	}
	return clicks, signups, nil
}

// conversionRate returns signups/clicks as a percentage, zero when there are
// no clicks.
func conversionRate(clicks, signups int64) float64 {
	if clicks == 0 {
		return 0
	}
	return float64(signups) / float64(clicks) * 100
}
