package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/staybook/internal/domain"
)

// Every response carries a success flag and a human-readable message.

func respondError(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	if code == domain.CodeInternal {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(statusOf(code), gin.H{"success": false, "message": err.Error()})
}

func statusOf(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation, domain.CodeAlreadyPaid:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeUpstream:
		return http.StatusBadGateway
	case domain.CodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

const dateLayout = "2006-01-02"

// parseDate accepts plain calendar dates and full timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
