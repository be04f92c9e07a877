package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler renders errors attached with c.Error as a JSON body and
// turns panics into a 500. Handlers set the status and attach the error
// without writing a body themselves.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[HTTP] panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, rec)
				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
				}
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		err := c.Errors.Last()
		if status >= http.StatusInternalServerError {
			log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err.Err)
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
	}
}
