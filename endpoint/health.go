package endpoint

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nadvoretskiy13/attestation03/config"
	"github.com/nadvoretskiy13/attestation03/middleware"
	"github.com/nadvoretskiy13/attestation03/util"
)

type HealthStatus struct {
	Database string `json:"database" example:"up"`
	Redis    string `json:"redis" example:"disabled"`
}

// Health godoc
// @Summary      Health check
// @Description  Reports database and Redis reachability
// @Tags         System
// @Produce      json
// @Success      200 {object} util.APIResponse{data=HealthStatus}
// @Failure      503 {object} util.APIResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServiceUnavailable(c, "Database connection not available", errors.New("db is nil"))
		return
	}
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		util.CallServiceUnavailable(c, "Database unreachable", err)
		return
	}

	status := HealthStatus{Database: "up", Redis: "disabled"}
	if rdb := config.GetRedisClient(); rdb != nil {
		status.Redis = "up"
		if err := rdb.Ping(ctx).Err(); err != nil {
			status.Redis = "down"
		}
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "OK", Data: status})
}
