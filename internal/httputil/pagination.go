package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseListLimit parses the limit query parameter for listing endpoints.
// A missing parameter returns 0, letting the caller apply its default.
// Out-of-range values are not an error here; callers clamp them.
func ParseListLimit(c *gin.Context) (int, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, fmt.Errorf("invalid limit parameter: must be an integer")
	}

	return limit, nil
}
