package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tradelink/backend/internal/interfaces/http/dto"
)

const (
	apiName    = "TradeLink Backend API"
	apiVersion = "1.0.0"

	// ediRelease is the directory release the ORDERS codec implements.
	ediRelease = "EDIFACT D.01B"
)

// SystemHandler serves the info and ping endpoints partners use to probe
// the gateway.
type SystemHandler struct {
	BaseHandler
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{startTime: time.Now()}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	GoVersion  string   `json:"go_version"`
	Uptime     string   `json:"uptime"`
	EDIRelease string   `json:"edi_release"`
	Messages   []string `json:"messages"`
}

// GetSystemInfo returns version, uptime and the supported EDI surface.
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:       apiName,
		Version:    apiVersion,
		GoVersion:  runtime.Version(),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		EDIRelease: ediRelease,
		Messages:   []string{"ORDERS"},
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping checks that the API is responsive.
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}))
}
