package bridge

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS sets the allow-all headers the mobile client relies on and
// short-circuits preflight requests with an empty 204, on every path.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
