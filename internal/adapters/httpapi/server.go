// Package httpapi serves a read-only view of a held fleet over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/bnema/droidfleet/internal/logging"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// StatusSource exposes the published device snapshots of a fleet.
type StatusSource interface {
	RunID() string
	Statuses() []domain.DeviceStatus
}

type fleetView struct {
	RunID   string                `json:"run_id"`
	Devices []domain.DeviceStatus `json:"devices"`
}

func NewRouter(source StatusSource, logger *log.Logger) *gin.Engine {
	logger = logging.WithComponent(logger, "httpapi")

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, successResponse(gin.H{"status": "ok"}))
	})

	api := router.Group("/api")
	{
		devices := api.Group("/devices")
		{
			devices.GET("", func(c *gin.Context) {
				listDevices(c, source)
			})
			devices.GET("/:serial", func(c *gin.Context) {
				getDevice(c, source)
			})
		}
	}

	return router
}

func listDevices(c *gin.Context, source StatusSource) {
	c.JSON(http.StatusOK, successResponse(fleetView{RunID: source.RunID(), Devices: source.Statuses()}))
}

func getDevice(c *gin.Context, source StatusSource) {
	serial := domain.Serial(c.Param("serial"))
	for _, status := range source.Statuses() {
		if status.Serial == serial {
			c.JSON(http.StatusOK, successResponse(status))
			return
		}
	}

	c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("device %s is not part of this fleet", serial)))
}

func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "took", time.Since(start))
	}
}

// Serve answers on ln until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve status api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shut down status api: %w", err)
	}

	return nil
}
