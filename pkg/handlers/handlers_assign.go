package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stallbacken/stallplan/pkg/database"
	"github.com/stallbacken/stallplan/pkg/models"
	"github.com/stallbacken/stallplan/pkg/scheduler"
)

// mergeConfig overlays caller-supplied tunables on the defaults. Zero
// fields fall back to the default, matching the upstream behavior where
// omitted config keys inherit the production values.
func mergeConfig(override *models.AssignmentConfig) models.AssignmentConfig {
	cfg := models.DefaultConfig()
	if override == nil {
		return cfg
	}
	if override.HolidayMultiplier != 0 {
		cfg.HolidayMultiplier = override.HolidayMultiplier
	}
	if override.PreferenceBonus != 0 {
		cfg.PreferenceBonus = override.PreferenceBonus
	}
	if override.MemoryHorizonDays != 0 {
		cfg.MemoryHorizonDays = override.MemoryHorizonDays
	}
	return cfg
}

// runAssignment executes one auto-assignment run over the given roster
// and shift list and packages the full response.
func (h *Handler) runAssignment(members []models.Member, shifts []models.Shift, override *models.AssignmentConfig) models.AssignResponse {
	cfg := mergeConfig(override)

	roster := make([]*models.Member, len(members))
	for i := range members {
		roster[i] = &members[i]
	}

	s := scheduler.New(roster, cfg, h.calendar())
	results := s.Assign(shifts)

	tracking := make(map[string]models.TrackingState, len(s.Tracking))
	for id, t := range s.Tracking {
		tracking[id] = *t
	}

	runID := uuid.NewString()
	h.Log.Info("assignment run completed",
		zap.String("run_id", runID),
		zap.Int("members", len(members)),
		zap.Int("shifts", len(shifts)),
		zap.Int("assigned", len(results)),
	)

	return models.AssignResponse{
		RunID:   runID,
		Results: results,
		Summary: scheduler.Summarize(results),
		Members: tracking,
		Skipped: s.Skipped,
		Config:  cfg,
	}
}

// AutoAssign handles the JSON auto-assignment request.
func (h *Handler) AutoAssign(c *gin.Context) {
	var input models.AssignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := h.runAssignment(input.Members, input.Shifts, input.Config)

	h.RecordUsage(c, resp.RunID, len(input.Shifts), len(input.Members))

	c.JSON(http.StatusOK, resp)
}

// RecordUsage meters one assignment run against the caller's key using
// a single-query upsert (works on both Postgres and SQLite).
func (h *Handler) RecordUsage(c *gin.Context, runID string, shiftCount, memberCount int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")

	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count": gorm.Expr("request_count + ?", 1),
			"total_shifts":  gorm.Expr("total_shifts + ?", shiftCount),
			"total_members": gorm.Expr("total_members + ?", memberCount),
			"last_run_id":   runID,
		}),
	}).Create(&database.RunUsage{
		KeyID:        apiKey.ID,
		Date:         today,
		RequestCount: 1,
		TotalShifts:  shiftCount,
		TotalMembers: memberCount,
		LastRunID:    runID,
	})
}

// AutoAssignCSV handles CSV roster/shift uploads and returns the
// committed assignments as CSV. The CSV path carries the flat member
// fields only; rosters with availability windows go through JSON.
func (h *Handler) AutoAssignCSV(c *gin.Context) {
	membersFile, _ := c.FormFile("members_file")
	shiftsFile, _ := c.FormFile("shifts_file")

	if membersFile == nil || shiftsFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "members_file and shifts_file are required"})
		return
	}

	members, err := parseMembersCSV(membersFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shifts, err := parseShiftsCSV(shiftsFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := h.runAssignment(members, shifts, nil)

	h.RecordUsage(c, resp.RunID, len(shifts), len(members))

	dates := make(map[string]string, len(shifts))
	times := make(map[string]string, len(shifts))
	for _, sh := range shifts {
		dates[sh.ID] = sh.Date
		times[sh.ID] = sh.Time
	}

	var outCSV strings.Builder
	writer := csv.NewWriter(&outCSV)
	writer.Write([]string{"shift_id", "date", "time", "assigned_to", "assigned_to_name", "points_awarded", "is_holiday"})
	for _, r := range resp.Results {
		writer.Write([]string{
			r.ShiftID,
			dates[r.ShiftID],
			times[r.ShiftID],
			r.AssignedTo,
			r.AssignedToName,
			fmt.Sprintf("%.2f", r.PointsAwarded),
			strconv.FormatBool(r.IsHoliday),
		})
	}
	writer.Flush()

	c.JSON(http.StatusOK, gin.H{"run_id": resp.RunID, "csv": outCSV.String(), "summary": resp.Summary})
}

func parseMembersCSV(fh *multipart.FileHeader) ([]models.Member, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open members file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read members header")
	}
	cols := make(map[string]int)
	for i, name := range header {
		cols[name] = i
	}

	var members []models.Member
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		points, _ := strconv.ParseFloat(record[cols["historical_points"]], 64)
		m := models.Member{
			UserID:           record[cols["user_id"]],
			DisplayName:      record[cols["display_name"]],
			Email:            record[cols["email"]],
			HistoricalPoints: points,
		}
		var limits models.Limits
		if idx, ok := cols["max_shifts_per_week"]; ok && record[idx] != "" {
			limits.MaxShiftsPerWeek, _ = strconv.Atoi(record[idx])
		}
		if idx, ok := cols["max_shifts_per_month"]; ok && record[idx] != "" {
			limits.MaxShiftsPerMonth, _ = strconv.Atoi(record[idx])
		}
		if limits != (models.Limits{}) {
			m.Limits = &limits
		}
		members = append(members, m)
	}
	return members, nil
}

func parseShiftsCSV(fh *multipart.FileHeader) ([]models.Shift, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open shifts file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read shifts header")
	}
	cols := make(map[string]int)
	for i, name := range header {
		cols[name] = i
	}

	var shifts []models.Shift
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		points, _ := strconv.ParseFloat(record[cols["points"]], 64)
		sh := models.Shift{
			ID:     record[cols["id"]],
			Date:   record[cols["date"]],
			Time:   record[cols["time"]],
			Points: points,
		}
		if idx, ok := cols["status"]; ok {
			sh.Status = record[idx]
		}
		if idx, ok := cols["assigned_to"]; ok && record[idx] != "" {
			assignee := record[idx]
			sh.AssignedTo = &assignee
		}
		shifts = append(shifts, sh)
	}
	return shifts, nil
}
