package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stallbacken/stallplan/pkg/holiday"
)

// ListHolidays returns the Swedish public holidays for a year, so
// tenant backends can render the same calendar the point weighting
// uses.
func (h *Handler) ListHolidays(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1900 || year > 2200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":     year,
		"holidays": holiday.ForYear(year),
	})
}
