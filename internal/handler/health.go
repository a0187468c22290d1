package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reporta la disponibilidad de las dependencias del servicio:
// Postgres (datos maestros, lotes y auditoría) y Redis (cola de avisos de
// vencimiento y rate limiting). Cualquier dependencia caída baja la
// respuesta a 503 para que el orquestador saque la instancia de rotación.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		var errDB error
		if sqlDB, err := db.DB(); err != nil {
			errDB = err
		} else {
			errDB = sqlDB.PingContext(ctx)
		}
		errRedis := rdb.Ping(ctx).Err()

		status := http.StatusOK
		if errDB != nil || errRedis != nil {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":       status == http.StatusOK,
			"postgres": estadoDependencia(errDB),
			"redis":    estadoDependencia(errRedis),
		})
	}
}

func estadoDependencia(err error) string {
	if err != nil {
		return "sin conexion"
	}
	return "ok"
}
