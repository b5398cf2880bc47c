package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/stallbacken/stallplan/pkg/auth"
	"github.com/stallbacken/stallplan/pkg/database"
	"github.com/stallbacken/stallplan/pkg/handlers"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev).
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	logger, _ := zap.NewProduction()

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	h := &handlers.Handler{DB: db, Log: logger}

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Stallplan Shift Assignment API (serverless)",
			"version": "1.3.0",
		})
	})

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

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
}

// Handler is the serverless entrypoint.
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
