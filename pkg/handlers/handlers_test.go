package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stallbacken/stallplan/pkg/auth"
	"github.com/stallbacken/stallplan/pkg/database"
	"github.com/stallbacken/stallplan/pkg/models"
)

func setupRouter(t *testing.T) (*gin.Engine, string) {
	t.Setenv("API_MASTER_SECRET", "test-master-secret")
	t.Setenv("JWT_SECRET", "test-jwt-secret")
	gin.SetMode(gin.TestMode)

	// One named in-memory database per test: shared across the pool's
	// connections, isolated between tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&database.APIKey{}, &database.RunUsage{}, &database.AdminUser{}))

	h := &Handler{DB: db, Log: zap.NewNop()}

	r := gin.New()
	r.POST("/admin/login", h.Login)
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/assign", h.AutoAssign)
		api.POST("/assign/csv", h.AutoAssignCSV)
		api.POST("/validate", h.ValidateInput)
		api.POST("/assignments/validate", h.ValidateManualAssignment)
		api.GET("/holidays/:year", h.ListHolidays)
		api.GET("/usage", h.GetMyUsage)
	}

	return r, auth.GenerateHMACKey("test-tenant")
}

func doJSON(r *gin.Engine, method, path, key string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAutoAssign_LowestScoreWins(t *testing.T) {
	r, key := setupRouter(t)

	input := models.AssignInput{
		Members: []models.Member{
			{UserID: "u1", DisplayName: "Anna", Email: "anna@stallbacken.se", HistoricalPoints: 10},
			{UserID: "u2", DisplayName: "Bea", Email: "bea@stallbacken.se", HistoricalPoints: 3},
		},
		Shifts: []models.Shift{
			{ID: "s1", Date: "2025-01-06", Time: "06:00-07:00", Points: 5, Status: "pending"},
		},
	}

	w := doJSON(r, http.MethodPost, "/api/assign", key, input)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.AssignResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "u2", resp.Results[0].AssignedTo)
	assert.Equal(t, "Bea", resp.Results[0].AssignedToName)
	assert.Equal(t, 5.0, resp.Results[0].PointsAwarded)
	assert.False(t, resp.Results[0].IsHoliday)
	assert.Equal(t, 5.0, resp.Members["u2"].SessionPoints)
	assert.Equal(t, 1, resp.Summary.TotalAssigned)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 1.5, resp.Config.HolidayMultiplier)
}

func TestAutoAssign_HolidayWeighting(t *testing.T) {
	r, key := setupRouter(t)

	input := models.AssignInput{
		Members: []models.Member{{UserID: "u1", HistoricalPoints: 0}},
		Shifts: []models.Shift{
			{ID: "s1", Date: "2025-06-06", Time: "06:00-07:00", Points: 10},
		},
	}

	w := doJSON(r, http.MethodPost, "/api/assign", key, input)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AssignResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].IsHoliday, "Nationaldagen shift must be flagged")
	assert.Equal(t, 15.0, resp.Results[0].PointsAwarded)
	assert.Equal(t, 1, resp.Summary.HolidayShifts)
}

func TestAutoAssign_RequiresKey(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/assign", "", models.AssignInput{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/assign", "tampered.deadbeef", models.AssignInput{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateInput_DuplicateIDs(t *testing.T) {
	r, key := setupRouter(t)

	input := models.AssignInput{
		Members: []models.Member{{UserID: "u1"}, {UserID: "u1"}},
		Shifts:  []models.Shift{{ID: "s1", Date: "2025-01-06"}},
	}

	w := doJSON(r, http.MethodPost, "/api/validate", key, input)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["valid"])
	assert.Contains(t, resp["error"], "Duplicate member ID")
}

func TestValidateManualAssignment_Endpoint(t *testing.T) {
	r, key := setupRouter(t)

	input := models.ManualAssignmentInput{
		Member: models.Member{
			UserID:      "u1",
			DisplayName: "Anna",
			Availability: &models.Availability{
				NeverAvailable: []models.TimeWindow{{DayOfWeek: 1, Start: "06:00", End: "08:00"}},
			},
		},
		Shift: models.Shift{ID: "s1", Date: "2025-01-06", Time: "06:00-07:00"},
	}

	w := doJSON(r, http.MethodPost, "/api/assignments/validate", key, input)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["allowed"])
	assert.Contains(t, resp["reason"], "Anna is not available")

	// Same member, a shift outside the blackout window.
	input.Shift.Time = "09:00-10:00"
	w = doJSON(r, http.MethodPost, "/api/assignments/validate", key, input)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["allowed"])
}

func TestListHolidays(t *testing.T) {
	r, key := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/api/holidays/2025", key, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2025-06-06")
	assert.Contains(t, w.Body.String(), "Midsommardagen")

	w = doJSON(r, http.MethodGet, "/api/holidays/123456", key, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsageMetering(t *testing.T) {
	r, key := setupRouter(t)

	input := models.AssignInput{
		Members: []models.Member{{UserID: "u1"}},
		Shifts:  []models.Shift{{ID: "s1", Date: "2025-01-06", Time: "06:00-07:00", Points: 1}},
	}
	for i := 0; i < 2; i++ {
		w := doJSON(r, http.MethodPost, "/api/assign", key, input)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(r, http.MethodGet, "/api/usage", key, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		KeyName string `json:"key_name"`
		Totals  struct {
			Requests int `json:"requests"`
			Shifts   int `json:"shifts"`
			Members  int `json:"members"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "test-tenant", resp.KeyName)
	assert.Equal(t, 2, resp.Totals.Requests)
	assert.Equal(t, 2, resp.Totals.Shifts)
	assert.Equal(t, 2, resp.Totals.Members)
}

func TestAutoAssignCSV(t *testing.T) {
	r, key := setupRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	membersPart, err := mw.CreateFormFile("members_file", "members.csv")
	require.NoError(t, err)
	fmt.Fprintln(membersPart, "user_id,display_name,email,historical_points,max_shifts_per_week")
	fmt.Fprintln(membersPart, "u1,Anna,anna@stallbacken.se,10,")
	fmt.Fprintln(membersPart, "u2,Bea,bea@stallbacken.se,3,2")

	shiftsPart, err := mw.CreateFormFile("shifts_file", "shifts.csv")
	require.NoError(t, err)
	fmt.Fprintln(shiftsPart, "id,date,time,points,status")
	fmt.Fprintln(shiftsPart, "s1,2025-01-06,06:00-07:00,5,pending")

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/assign/csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+key)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		CSV string `json:"csv"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	lines := strings.Split(strings.TrimSpace(resp.CSV), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "s1")
	assert.Contains(t, lines[1], "u2")
}

func TestAdminLogin_InvalidCredentials(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/admin/login", "", map[string]string{
		"username": "nobody",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
