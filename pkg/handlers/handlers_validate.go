package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stallbacken/stallplan/pkg/models"
	"github.com/stallbacken/stallplan/pkg/scheduler"
)

// ValidateInput checks an assignment request for structural problems
// before a run is attempted. Semantic failures come back as HTTP 200
// with valid=false so callers can surface them without error handling.
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.AssignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if len(input.Members) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one member is required",
		})
		return
	}

	if len(input.Shifts) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one shift is required",
		})
		return
	}

	memberIDs := make(map[string]bool)
	for _, m := range input.Members {
		if memberIDs[m.UserID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate member ID: " + m.UserID})
			return
		}
		memberIDs[m.UserID] = true
	}

	shiftIDs := make(map[string]bool)
	badDates := 0
	for _, s := range input.Shifts {
		if shiftIDs[s.ID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate shift ID: " + s.ID})
			return
		}
		shiftIDs[s.ID] = true
		if _, ok := scheduler.ParseShiftDate(s.Date); !ok {
			badDates++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"member_count":  len(input.Members),
			"shift_count":   len(input.Shifts),
			"invalid_dates": badDates,
		},
	})
}

// ValidateManualAssignment checks an administrator's manual shift
// override. A rejected override is still HTTP 200; the reason is a
// ready-to-display message.
func (h *Handler) ValidateManualAssignment(c *gin.Context) {
	var input models.ManualAssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := scheduler.ValidateManualAssignment(input.Member, input.Shift, input.Current); err != nil {
		c.JSON(http.StatusOK, gin.H{"allowed": false, "reason": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"allowed": true})
}
