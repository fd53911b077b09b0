package controllers

import (
	"net/http"

	"github.com/Nonita16/viral-events-app/middleware"
	"github.com/Nonita16/viral-events-app/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RSVPController handles attendance responses. Writes are upserts keyed on
// (event_id, user_id) so a second RSVP replaces the status instead of
// duplicating the row.
type RSVPController struct {
	DB *gorm.DB
}

func NewRSVPController(db *gorm.DB) *RSVPController {
	return &RSVPController{DB: db}
}

// CreateRSVPRequest is the RSVP upsert body.
type CreateRSVPRequest struct {
	EventID uint   `json:"event_id" binding:"required" example:"42"`
	Status  string `json:"status" binding:"required" example:"going"`
}

// RSVPCounts is the per-event aggregation of going/maybe responses.
type RSVPCounts struct {
	Going int `json:"going"`
	Maybe int `json:"maybe"`
}

// Create godoc
// @Summary      Create or update an RSVP
// @Tags         rsvps
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        rsvp body CreateRSVPRequest true "rsvp payload"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /rsvps [post]
func (rc *RSVPController) Create(c *gin.Context) {
	var req CreateRSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_id and status are required"})
		return
	}

	if !models.ValidRSVPStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid status is required (going, maybe, not_going)"})
		return
	}

	rsvp := models.RSVP{
		EventID: req.EventID,
		UserID:  c.GetUint(middleware.CtxUserID),
		Status:  req.Status,
	}

	err := rc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&rsvp).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// The upsert leaves rsvp.ID zero when it updated an existing row, so
	// reload the canonical row.
	if err := rc.DB.Where("event_id = ? AND user_id = ?", rsvp.EventID, rsvp.UserID).First(&rsvp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"rsvp": rsvp})
}

// Delete godoc
// @Summary      Delete an RSVP
// @Tags         rsvps
// @Produce      json
// @Security     Bearer
// @Param        id path int true "rsvp id"
// @Success      200  {object}  map[string]bool
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /rsvps/{id} [delete]
func (rc *RSVPController) Delete(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetUint(middleware.CtxUserID)

	var rsvp models.RSVP
	if err := rc.DB.Select("user_id").First(&rsvp, "id = ?", id).Error; err != nil || rsvp.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := rc.DB.Delete(&models.RSVP{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Counts godoc
// @Summary      RSVP counts per event
// @Description  Going and maybe totals per event; not_going is excluded
// @Tags         rsvps
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /rsvps/counts [get]
func (rc *RSVPController) Counts(c *gin.Context) {
	var rsvps []models.RSVP
	if err := rc.DB.Select("event_id", "status").Find(&rsvps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	counts := make(map[uint]*RSVPCounts)
	for _, rsvp := range rsvps {
		entry, ok := counts[rsvp.EventID]
		if !ok {
			entry = &RSVPCounts{}
			counts[rsvp.EventID] = entry
		}
		switch rsvp.Status {
		case models.RSVPGoing:
			entry.Going++
		case models.RSVPMaybe:
			entry.Maybe++
		}
	}

	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

// ByEvent godoc
// @Summary      RSVPs for an event
// @Tags         rsvps
// @Produce      json
// @Param        eventId path int true "event id"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /rsvps/event/{eventId} [get]
func (rc *RSVPController) ByEvent(c *gin.Context) {
	var rsvps []models.RSVP
	err := rc.DB.Where("event_id = ?", c.Param("eventId")).
		Order("created_at desc").
		Find(&rsvps).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}

// My godoc
// @Summary      Caller's RSVPs
// @Tags         rsvps
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /rsvps/my [get]
func (rc *RSVPController) My(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	var rsvps []models.RSVP
	err := rc.DB.Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&rsvps).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}
