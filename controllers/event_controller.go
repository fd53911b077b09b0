package controllers

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/Nonita16/viral-events-app/config"
	"github.com/Nonita16/viral-events-app/middleware"
	"github.com/Nonita16/viral-events-app/models"
	"github.com/Nonita16/viral-events-app/services/activity"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EventController handles event CRUD. Mutations follow the ownership gate:
// fetch the creator column, compare with the caller, act. A missing row and
// a row owned by someone else both read as Forbidden.
type EventController struct {
	DB              *gorm.DB
	activityService *activity.ActivityService
}

func NewEventController(db *gorm.DB, activityService *activity.ActivityService) *EventController {
	return &EventController{
		DB:              db,
		activityService: activityService,
	}
}

// CreateEventRequest is the event creation body.
type CreateEventRequest struct {
	Title       string  `json:"title" binding:"required" example:"Summer Music Festival"`
	Description string  `json:"description" example:"Join us for an unforgettable experience"`
	Location    string  `json:"location" example:"Central Park, New York, NY"`
	EventDate   string  `json:"event_date" binding:"required" example:"2026-09-15"`
	EventTime   *string `json:"event_time" example:"18:30"`
}

// UpdateEventRequest carries a partial update; nil fields stay untouched.
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	EventDate   *string `json:"event_date"`
	EventTime   *string `json:"event_time"`
	ImageURL    *string `json:"image_url"`
}

// List godoc
// @Summary      List all events
// @Tags         events
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /events [get]
func (ec *EventController) List(c *gin.Context) {
	var events []models.Event
	if err := ec.DB.Order("event_date asc").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Latest godoc
// @Summary      Latest three events
// @Tags         events
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /events/latest [get]
func (ec *EventController) Latest(c *gin.Context) {
	var events []models.Event
	if err := ec.DB.Order("created_at desc").Limit(3).Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// My godoc
// @Summary      Events created by the caller
// @Tags         events
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /events/my [get]
func (ec *EventController) My(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	var events []models.Event
	if err := ec.DB.Where("created_by = ?", userID).Order("event_date asc").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Get godoc
// @Summary      Get one event
// @Tags         events
// @Produce      json
// @Param        id path int true "event id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /events/{id} [get]
func (ec *EventController) Get(c *gin.Context) {
	var event models.Event
	if err := ec.DB.First(&event, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

// Create godoc
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        event body CreateEventRequest true "event payload"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /events [post]
func (ec *EventController) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and event_date are required"})
		return
	}

	if _, err := time.Parse("2006-01-02", req.EventDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_date must be YYYY-MM-DD"})
		return
	}

	event := models.Event{
		CreatedBy:   c.GetUint(middleware.CtxUserID),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		EventDate:   req.EventDate,
		EventTime:   req.EventTime,
	}

	if err := ec.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ec.activityService.RecordActivity("event", fmt.Sprintf("event %q created", event.Title))

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// fetchOwner reads only the created_by column. Missing rows return 0, which
// never matches a caller id, so the ownership gate folds "not found" into
// Forbidden.
func (ec *EventController) fetchOwner(id string) uint {
	var event models.Event
	if err := ec.DB.Select("created_by").First(&event, "id = ?", id).Error; err != nil {
		return 0
	}
	return event.CreatedBy
}

// Update godoc
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id path int true "event id"
// @Param        event body UpdateEventRequest true "fields to update"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /events/{id} [patch]
func (ec *EventController) Update(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetUint(middleware.CtxUserID)

	if ec.fetchOwner(id) != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.EventDate != nil {
		if _, err := time.Parse("2006-01-02", *req.EventDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "event_date must be YYYY-MM-DD"})
			return
		}
		updates["event_date"] = *req.EventDate
	}
	if req.EventTime != nil {
		updates["event_time"] = *req.EventTime
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	var event models.Event
	if err := ec.DB.First(&event, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(updates) > 0 {
		if err := ec.DB.Model(&event).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// Delete godoc
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Security     Bearer
// @Param        id path int true "event id"
// @Success      200  {object}  map[string]bool
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /events/{id} [delete]
func (ec *EventController) Delete(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetUint(middleware.CtxUserID)

	if ec.fetchOwner(id) != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := ec.DB.Delete(&models.Event{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

var testEventTitles = []string{
	"Summer Music Festival", "Tech Conference", "Food & Wine Tasting",
	"Art Gallery Opening", "Charity Run Marathon", "Startup Pitch Night",
	"Jazz Concert Evening", "Photography Workshop", "Yoga Retreat Weekend",
	"Cooking Masterclass", "Book Club Meetup", "Film Festival Premiere",
	"Gaming Tournament", "Comedy Night Live", "Networking Mixer",
	"Craft Beer Festival", "Science Fair Exhibition", "Poetry Slam Night",
	"Dance Party Extravaganza", "Fashion Show Gala",
}

var testEventLocations = []string{
	"Central Park, New York, NY", "Golden Gate Park, San Francisco, CA",
	"Grant Park, Chicago, IL", "Boston Common, Boston, MA",
	"Zilker Park, Austin, TX", "Gas Works Park, Seattle, WA",
}

// GenerateTestData godoc
// @Summary      Seed random events (development only)
// @Tags         events
// @Produce      json
// @Security     Bearer
// @Success      201  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /events/generate-test-data [post]
func (ec *EventController) GenerateTestData(c *gin.Context) {
	if !config.GetConfig().IsDevelopment() {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	userID := c.GetUint(middleware.CtxUserID)

	events := make([]models.Event, 0, len(testEventTitles))
	for _, title := range testEventTitles {
		date := time.Now().AddDate(0, 0, rand.Intn(90)+1).Format("2006-01-02")
		events = append(events, models.Event{
			CreatedBy: userID,
			Title:     title,
			Location:  testEventLocations[rand.Intn(len(testEventLocations))],
			EventDate: date,
		})
	}

	if err := ec.DB.Create(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"events": events, "count": len(events)})
}

// notFound reports whether err is a record-not-found error, used on public
// reads where missing rows are 404 rather than folded into 403.
func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
