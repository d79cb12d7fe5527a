package handler

import (
	"context"
	"net/http"
	"time"

	"restopos/internal/notify"
	"restopos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthDeps lists what /health probes. DB and Redis are nil when the
// deployment does not use them.
type HealthDeps struct {
	Store string
	DB    *gorm.DB
	Redis *redis.Client
	Hub   *notify.Hub
}

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
func Health(d HealthDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		body := gin.H{"store": d.Store}
		ok := true

		if d.DB != nil {
			dbStatus := "connected"
			sqlDB, err := d.DB.DB()
			if err != nil || sqlDB.PingContext(ctx) != nil {
				dbStatus = "error"
				ok = false
			}
			body["db"] = dbStatus
		}

		if d.Redis != nil {
			redisStatus := "connected"
			if d.Redis.Ping(ctx).Err() != nil {
				redisStatus = "error"
				ok = false
			} else {
				body["dlq"] = worker.DLQStats(ctx, d.Redis)
			}
			body["redis"] = redisStatus
		}

		if d.Hub != nil {
			body["subscribers"] = d.Hub.Suscriptores()
			body["events_dropped"] = d.Hub.Descartados()
		}

		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		body["ok"] = ok
		c.JSON(status, body)
	}
}
