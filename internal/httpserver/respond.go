package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func respond[T any](c *gin.Context, status int, v *T, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, v)
}

// respondList writes an empty array instead of null for empty results.
func respondList[T any](c *gin.Context, items []T, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

func respondNoContent(c *gin.Context, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
