package controllers

import (
	"fmt"
	"net/http"

	"github.com/Nonita16/viral-events-app/config"
	"github.com/Nonita16/viral-events-app/middleware"
	"github.com/Nonita16/viral-events-app/models"
	"github.com/Nonita16/viral-events-app/services/mail"
	"github.com/Nonita16/viral-events-app/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InviteController handles email invitations. Delivery is best-effort: the
// invite row is the source of truth and a failed send never fails the
// request.
type InviteController struct {
	DB     *gorm.DB
	mailer mail.Mailer
}

func NewInviteController(db *gorm.DB, mailer mail.Mailer) *InviteController {
	return &InviteController{DB: db, mailer: mailer}
}

// CreateInviteRequest is the invite creation body.
type CreateInviteRequest struct {
	EventID     uint   `json:"event_id" binding:"required" example:"42"`
	SentToEmail string `json:"sent_to_email" binding:"required,email" example:"friend@example.com"`
}

// UpdateInviteRequest is the invite status update body.
type UpdateInviteRequest struct {
	Status string `json:"status" binding:"required" example:"accepted"`
}

// Create godoc
// @Summary      Send an invite
// @Description  Creates the invite row and sends the mail in the background
// @Tags         invites
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        invite body CreateInviteRequest true "invite payload"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /invites [post]
func (ic *InviteController) Create(c *gin.Context) {
	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_id and a valid sent_to_email are required"})
		return
	}

	var event models.Event
	if err := ic.DB.First(&event, req.EventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	invite := models.Invite{
		EventID:     req.EventID,
		SentBy:      c.GetUint(middleware.CtxUserID),
		SentToEmail: req.SentToEmail,
		Status:      models.InvitePending,
	}

	if err := ic.DB.Create(&invite).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if ic.mailer != nil {
		inviteURL := fmt.Sprintf("%s/events/%d", config.GetConfig().App.BaseURL, event.ID)
		go func() {
			if err := ic.mailer.SendEventInvite(invite.SentToEmail, event.Title, event.EventDate, event.Location, inviteURL); err != nil {
				utils.LogError(fmt.Sprintf("failed to send invite mail for event %d", event.ID), err)
			}
		}()
	}

	c.JSON(http.StatusCreated, gin.H{"invite": invite})
}

// UpdateStatus godoc
// @Summary      Update invite status
// @Tags         invites
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id path int true "invite id"
// @Param        invite body UpdateInviteRequest true "status payload"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /invites/{id} [patch]
func (ic *InviteController) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetUint(middleware.CtxUserID)

	var req UpdateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidInviteStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid status is required (pending, accepted, declined)"})
		return
	}

	var invite models.Invite
	if err := ic.DB.Select("sent_by").First(&invite, "id = ?", id).Error; err != nil || invite.SentBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := ic.DB.First(&invite, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := ic.DB.Model(&invite).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invite": invite})
}

// ByEvent godoc
// @Summary      Invites for an event
// @Description  Restricted to the event creator
// @Tags         invites
// @Produce      json
// @Security     Bearer
// @Param        eventId path int true "event id"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /invites/event/{eventId} [get]
func (ic *InviteController) ByEvent(c *gin.Context) {
	eventID := c.Param("eventId")
	userID := c.GetUint(middleware.CtxUserID)

	var event models.Event
	if err := ic.DB.Select("created_by").First(&event, "id = ?", eventID).Error; err != nil || event.CreatedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var invites []models.Invite
	err := ic.DB.Where("event_id = ?", eventID).
		Order("created_at desc").
		Find(&invites).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

// My godoc
// @Summary      Invites addressed to the caller
// @Tags         invites
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /invites/my [get]
func (ic *InviteController) My(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	var user models.User
	if err := ic.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if user.Email == nil {
		c.JSON(http.StatusOK, gin.H{"invites": []models.Invite{}})
		return
	}

	var invites []models.Invite
	err := ic.DB.Preload("Event").
		Where("sent_to_email = ?", *user.Email).
		Order("created_at desc").
		Find(&invites).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invites": invites})
}
