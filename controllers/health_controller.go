package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthCheck handles GET /api/v1/health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Barber Booking API is running",
	})
}

// DatabaseStatus handles GET /api/v1/database/status - checks connectivity and lists tables
func DatabaseStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to get database instance")
			return
		}

		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			errorJSON(c, http.StatusInternalServerError, "DATABASE_CONNECTION_ERROR", "Database connection failed")
			return
		}

		// Migrator works against both postgres and sqlite
		tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "DATABASE_QUERY_ERROR", "Failed to query tables")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Database connected",
			"tables":  tables,
		})
	}
}
