package errorlog

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/d4vhost/salesmanager/internal/auth"
)

const requestIDKey = "request_id"

// RequestID tags every request with a correlation id, echoed back in the
// X-Request-ID header and attached to any recorded error.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// Recorder persists panics and 5xx responses. Recording uses a detached
// context so a canceled request cannot suppress its own error report.
func Recorder(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := string(debug.Stack())
				record(repo, c, "Error", fmt.Sprintf("panic: %v", rec), &stack)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}()

		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			msgs := make([]string, 0, len(c.Errors))
			for _, e := range c.Errors {
				msgs = append(msgs, e.Error())
			}
			msg := strings.Join(msgs, "; ")
			if msg == "" {
				msg = fmt.Sprintf("request failed with status %d", c.Writer.Status())
			}
			record(repo, c, "Error", msg, nil)
		}
	}
}

func record(repo Repository, c *gin.Context, level, msg string, stack *string) {
	entry := &Entry{
		LogLevel:    level,
		Message:     msg,
		StackTrace:  stack,
		RequestPath: c.FullPath(),
		HTTPMethod:  c.Request.Method,
		UserName:    auth.UserEmailFromContext(c),
		RequestID:   c.GetString(requestIDKey),
	}
	if entry.RequestPath == "" {
		entry.RequestPath = c.Request.URL.Path
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	repo.Insert(ctx, entry)
}
