package controllers

import (
	"bufio"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Nonita16/viral-events-app/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	HandshakeTimeout: 10 * time.Second,
}

// GetLogs godoc
// @Summary      Tail the application log
// @Tags         system
// @Produce      json
// @Param        lines query int false "line count (default 100, max 1000)"
// @Security     Bearer
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /logs [get]
func GetLogs(c *gin.Context) {
	lines := 100
	if lineParam := c.Query("lines"); lineParam != "" {
		if parsed, err := strconv.Atoi(lineParam); err == nil && parsed > 0 && parsed <= 1000 {
			lines = parsed
		}
	}

	file, err := os.Open(filepath.Join("logs", "app.log"))
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, gin.H{"logs": []string{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open log file"})
		return
	}
	defer file.Close()

	var all []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		all = append(all, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read log file"})
		return
	}

	if len(all) > lines {
		all = all[len(all)-lines:]
	}

	c.JSON(http.StatusOK, gin.H{"logs": all})
}

// WatchLogs upgrades to a WebSocket and streams log lines as they are
// written.
// @Summary      Stream the application log
// @Tags         system
// @Router       /logs/watch [get]
func WatchLogs(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	utils.AddLogClient(conn)
	defer func() {
		utils.RemoveLogClient(conn)
		conn.Close()
	}()

	// Hold the connection open; broadcast happens from the logger. Reads
	// only serve to detect the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
