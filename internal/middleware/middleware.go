package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/navafv/familyplus/internal/models"
)

const (
	// HeaderUserID carries the authenticated user set by the gateway
	HeaderUserID = "X-User-ID"
	// HeaderCartID carries the guest cart id
	HeaderCartID = "X-Cart-ID"

	contextUserID    = "user_id"
	contextCartID    = "cart_id"
	contextRequestID = "request_id"
)

// SetupCORS configures CORS middleware
func SetupCORS(allowedOrigins []string) gin.HandlerFunc {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{
			"http://localhost:3000", // storefront
			"http://localhost:5173", // storefront dev server
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Accept", "Cache-Control", "X-Requested-With", "X-Request-ID", HeaderUserID, HeaderCartID},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID", HeaderCartID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// Logger returns a gin.HandlerFunc for logging requests
func Logger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	})
}

// Recovery returns a middleware that recovers from panics
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Panic recovered: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "INTERNAL_ERROR",
			"message": "An unexpected error occurred",
		})
	})
}

// RequestID adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)
		c.Set(contextRequestID, requestID)
		c.Next()
	}
}

// Identity reads the caller's user id and guest cart id. A guest cart id is
// issued and echoed back when the request carries none.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := strings.TrimSpace(c.GetHeader(HeaderUserID)); userID != "" {
			c.Set(contextUserID, userID)
		}

		cartID := strings.TrimSpace(c.GetHeader(HeaderCartID))
		if cartID == "" {
			cartID = uuid.New().String()
		}
		c.Set(contextCartID, cartID)
		c.Header(HeaderCartID, cartID)

		c.Next()
	}
}

// RequireUserID rejects requests without an authenticated user
func RequireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "UNAUTHORIZED",
				"message": "Sign in to continue",
			})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id, if any
func GetUserID(c *gin.Context) string {
	return c.GetString(contextUserID)
}

// GetCartOwner returns whose cart the request operates on. Signed-in users
// own their cart by user id; guests by cart id.
func GetCartOwner(c *gin.Context) models.CartOwner {
	if userID := GetUserID(c); userID != "" {
		return models.CartOwner{UserID: userID}
	}
	return models.CartOwner{CartKey: c.GetString(contextCartID)}
}

// GetRequestID returns the request id set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(contextRequestID)
}
