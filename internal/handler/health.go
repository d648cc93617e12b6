package handler

import (
	"context"
	"net/http"
	"time"

	"hppkit/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Only the database is required; Redis backs optional caching and locking,
// so its outage degrades the report without failing it.
func Health(db *gorm.DB, rdb *redis.Client, redisCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			}
		}

		body := gin.H{
			"ok":    dbStatus == "connected",
			"db":    dbStatus,
			"redis": redisStatus,
		}
		if redisCB != nil {
			body["redis_breaker"] = redisCB.State().String()
		}

		status := http.StatusOK
		if dbStatus != "connected" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, body)
	}
}
