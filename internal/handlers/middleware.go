package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/admin"
)

// AdminPasswordHeader carries the dashboard password on admin requests.
const AdminPasswordHeader = "X-Admin-Password"

// RateLimit limits requests per client IP, e.g. "10-M" for ten a minute.
func RateLimit(formatted string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", formatted, err)
	}
	store := memory.NewStore()
	instance := limiter.New(store, rate)
	return mgin.NewMiddleware(instance), nil
}

// RequireAdmin rejects requests whose password header does not pass the gate.
func RequireAdmin(gate admin.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := gate.Login(c.GetHeader(AdminPasswordHeader)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "incorrect_password"})
			return
		}
		c.Next()
	}
}
