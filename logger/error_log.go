package logger

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// LogHTTPError logs a request-scoped error with context pulled from the
// gin request: request id, user id, path, method and client IP.
func LogHTTPError(c *gin.Context, err error, statusCode int, message string) {
	log := GetLogger()

	fields := []interface{}{
		"error", err,
		"status_code", statusCode,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"client_ip", c.ClientIP(),
		"headers", filterSensitiveHeaders(c.Request.Header),
	}
	if userID := c.GetString("user_id"); userID != "" {
		fields = append(fields, "user_id", userID)
	}
	if requestID := c.GetString("request_id"); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	log.Errorw(message, fields...)
}

// filterSensitiveHeaders redacts credentials before headers hit the log.
func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string)
	for name, values := range headers {
		lower := strings.ToLower(name)
		if strings.EqualFold(name, "Authorization") ||
			strings.EqualFold(name, "Cookie") ||
			strings.Contains(lower, "token") ||
			strings.Contains(lower, "key") ||
			strings.Contains(lower, "secret") {
			filtered[name] = "[REDACTED]"
			continue
		}
		if len(values) > 0 {
			filtered[name] = values[0]
		}
	}
	return filtered
}
