package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	logDir     = "logs"
	logName    = "app.log"
	maxLogSize = 10 * 1024 * 1024
)

var (
	logFile    *os.File
	logger     *log.Logger
	mu         sync.Mutex
	clients    = make(map[*websocket.Conn]bool)
	clientsMux sync.Mutex
)

// InitLogger opens the log file and starts the rotation check. Log lines go
// to stdout and the file, and are broadcast to any connected log watchers.
func InitLogger() error {
	mu.Lock()
	defer mu.Unlock()

	if logger != nil {
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	file, err := os.OpenFile(filepath.Join(logDir, logName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	logFile = file
	logger = log.New(io.MultiWriter(os.Stdout, file), "", 0)

	go checkLogRotation()

	return nil
}

// LogError records an error with an optional cause.
func LogError(message string, err error) {
	msg := fmt.Sprintf("[%s] [ERROR] %s", time.Now().Format("2006-01-02 15:04:05"), message)
	if err != nil {
		msg += fmt.Sprintf(": %v", err)
	}
	writeLog(msg)
}

// LogInfo records an informational message.
func LogInfo(message string) {
	msg := fmt.Sprintf("[%s] [INFO] %s", time.Now().Format("2006-01-02 15:04:05"), message)
	writeLog(msg)
}

func writeLog(msg string) {
	if logger == nil {
		if err := InitLogger(); err != nil || logger == nil {
			log.Println(msg)
			return
		}
	}
	logger.Println(msg)
	BroadcastLog(msg)
}

func checkLogRotation() {
	for {
		time.Sleep(time.Hour)
		if needRotation() {
			rotateLog()
		}
	}
}

func needRotation() bool {
	if logFile == nil {
		return false
	}
	info, err := logFile.Stat()
	if err != nil {
		return false
	}
	return info.Size() > maxLogSize
}

func rotateLog() {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return
	}

	logFile.Close()
	os.Rename(
		filepath.Join(logDir, logName),
		filepath.Join(logDir, fmt.Sprintf("app.%s.log", time.Now().Format("20060102150405"))),
	)

	file, err := os.OpenFile(filepath.Join(logDir, logName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logFile = nil
		logger = log.New(os.Stdout, "", 0)
		return
	}
	logFile = file
	logger = log.New(io.MultiWriter(os.Stdout, file), "", 0)
}

// BroadcastLog sends a log line to all connected WebSocket watchers.
func BroadcastLog(message string) {
	clientsMux.Lock()
	defer clientsMux.Unlock()

	for client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
			client.Close()
			delete(clients, client)
		}
	}
}

// AddLogClient registers a WebSocket log watcher.
func AddLogClient(conn *websocket.Conn) {
	clientsMux.Lock()
	clients[conn] = true
	clientsMux.Unlock()
}

// RemoveLogClient removes a WebSocket log watcher.
func RemoveLogClient(conn *websocket.Conn) {
	clientsMux.Lock()
	delete(clients, conn)
	clientsMux.Unlock()
}
