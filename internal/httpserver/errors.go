package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"open-producten/internal/domain"
)

const nonFieldErrors = "nonFieldErrors"

// writeError maps service errors onto responses. Validation failures become
// a 400 with messages keyed by request attribute.
func writeError(c *gin.Context, err error) {
	fields := map[string][]string{}
	collectFieldErrors(err, fields)
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, fields)
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}

func collectFieldErrors(err error, out map[string][]string) {
	switch e := err.(type) {
	case *domain.BatchError:
		key := e.Field
		if key == "" {
			key = nonFieldErrors
		}
		out[key] = append(out[key], e.Messages()...)
	case *domain.Error:
		out[nonFieldErrors] = append(out[nonFieldErrors], e.Message)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			collectFieldErrors(inner, out)
		}
	case interface{ Unwrap() error }:
		collectFieldErrors(e.Unwrap(), out)
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}
