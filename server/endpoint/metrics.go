package endpoint

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
)

// Metrics reports runtime memory and goroutine counts. Application metrics
// are exported over OTLP, not here.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		c.JSON(http.StatusOK, gin.H{
			"goroutines": runtime.NumGoroutine(),
			"memory": gin.H{
				"alloc_mb": m.Alloc >> 20,
				"sys_mb":   m.Sys >> 20,
				"gc_runs":  m.NumGC,
			},
		})
	}
}
