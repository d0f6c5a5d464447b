package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// respond writes the success envelope shared by every endpoint.
func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{"data": data, "message": message})
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if errParse != nil || id == 0 {
		return 0, false
	}
	return id, true
}
