package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func limitedRouter(perMinute int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/analytics", RateLimit(perMinute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func hit(r *gin.Engine, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/analytics", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitRejectsWhenBucketDrained(t *testing.T) {
	r := limitedRouter(2) // burst of 1

	require.Equal(t, http.StatusOK, hit(r, "203.0.113.50:1000"))
	require.Equal(t, http.StatusTooManyRequests, hit(r, "203.0.113.50:1000"))
}

func TestRateLimitIsPerIP(t *testing.T) {
	r := limitedRouter(2)

	require.Equal(t, http.StatusOK, hit(r, "203.0.113.51:1000"))
	require.Equal(t, http.StatusOK, hit(r, "203.0.113.52:1000"))
}
