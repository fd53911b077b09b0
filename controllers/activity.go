package controllers

import (
	"net/http"

	"github.com/Nonita16/viral-events-app/services/activity"
	"github.com/Nonita16/viral-events-app/utils"
	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	activityService *activity.ActivityService
}

func NewActivityController(activityService *activity.ActivityService) *ActivityController {
	return &ActivityController{activityService: activityService}
}

// GetRecentActivities godoc
// @Summary      Recent activity feed
// @Tags         system
// @Produce      json
// @Param        page query int false "page"
// @Param        page_size query int false "page size"
// @Security     Bearer
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /activities [get]
func (ac *ActivityController) GetRecentActivities(c *gin.Context) {
	page := utils.GetPage(c)
	pageSize := utils.GetPageSize(c)

	activities, total, err := ac.activityService.GetRecentActivities(page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": activities,
		"total":      total,
		"page":       page,
		"page_size":  pageSize,
	})
}
