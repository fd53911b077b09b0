package controllers

import (
	"net/http"
	"time"

	"github.com/Nonita16/viral-events-app/models"
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

// SystemStats aggregates row totals across the main tables.
type SystemStats struct {
	TotalUsers         int64 `json:"total_users"`
	TotalEvents        int64 `json:"total_events"`
	TotalRSVPs         int64 `json:"total_rsvps"`
	TotalReferralCodes int64 `json:"total_referral_codes"`
}

// SystemStatus reports host-level runtime metrics.
type SystemStatus struct {
	CPUUsage    float64 `json:"cpuUsage"`
	MemoryTotal uint64  `json:"memoryTotal"`
	MemoryUsed  uint64  `json:"memoryUsed"`
	MemoryUsage float64 `json:"memoryUsage"`
	DiskTotal   uint64  `json:"diskTotal"`
	DiskUsed    uint64  `json:"diskUsed"`
	DiskUsage   float64 `json:"diskUsage"`
	RxBytes     uint64  `json:"rxBytes"`
	TxBytes     uint64  `json:"txBytes"`
	Uptime      float64 `json:"uptime"`
}

// GetSystemStats godoc
// @Summary      Row totals
// @Tags         system
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  map[string]interface{}
// @Router       /stats [get]
func GetSystemStats(c *gin.Context) {
	var stats SystemStats

	models.DB.Model(&models.User{}).Count(&stats.TotalUsers)
	models.DB.Model(&models.Event{}).Count(&stats.TotalEvents)
	models.DB.Model(&models.RSVP{}).Count(&stats.TotalRSVPs)
	models.DB.Model(&models.ReferralCode{}).Count(&stats.TotalReferralCodes)

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// GetSystemStatus godoc
// @Summary      Host metrics
// @Tags         system
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  map[string]interface{}
// @Router       /system/status [get]
func GetSystemStatus(c *gin.Context) {
	status := SystemStatus{}

	if uptime, err := host.Uptime(); err == nil {
		status.Uptime = float64(uptime)
	}

	if cpuPercent, err := cpu.Percent(time.Second, false); err == nil && len(cpuPercent) > 0 {
		status.CPUUsage = cpuPercent[0]
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemoryTotal = vm.Total
		status.MemoryUsed = vm.Used
		status.MemoryUsage = vm.UsedPercent
	}

	if du, err := disk.Usage("/"); err == nil {
		status.DiskTotal = du.Total
		status.DiskUsed = du.Used
		status.DiskUsage = du.UsedPercent
	}

	if counters, err := net.IOCounters(false); err == nil && len(counters) > 0 {
		status.RxBytes = counters[0].BytesRecv
		status.TxBytes = counters[0].BytesSent
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}
