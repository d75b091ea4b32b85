package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aditi-rao/supplylens-api/config"
	"github.com/aditi-rao/supplylens-api/controllers"
	"github.com/aditi-rao/supplylens-api/middleware"
	"github.com/aditi-rao/supplylens-api/models"
	"github.com/aditi-rao/supplylens-api/services"
	"github.com/aditi-rao/supplylens-api/utils"
)

// stylesheet is loaded once at startup; a missing file is a warning, never
// a failure of the computation pipeline.
var stylesheet []byte

func main() {
	// Basic logging
	log.Println("Starting SupplyLens dashboard API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open the append-only diagnostic log
	if err := utils.InitDiagnosticLog(cfg.DiagnosticLogPath); err != nil {
		log.Fatalf("Failed to open diagnostic log: %v", err)
	}
	defer utils.CloseDiagnosticLog()

	// Connect to the warehouse
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate the credential and order-fact tables
	db := config.GetDB()
	if err := db.AutoMigrate(&models.User{}, &models.OrderFact{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize services
	services.InitWarehouse(db)
	services.InitDatasetStore()
	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitS3Service(); err != nil {
			log.Fatalf("Failed to initialize S3 archive service: %v", err)
		}
		log.Println("S3 dataset archive enabled")
	} else {
		log.Println("AWS_S3_BUCKET not set, dataset archiving disabled")
	}

	// Load the stylesheet served to the dashboard
	stylesheet = loadStylesheet(cfg.StylesheetPath)

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires the middleware and route groups
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	{
		// Public endpoints
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
		v1.GET("/styles", serveStyles)
		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)

		// Authenticated dashboard endpoints
		authenticated := v1.Group("")
		authenticated.Use(middleware.EnsureValidToken(cfg))
		{
			authenticated.POST("/analytics/orders", controllers.AnalyzeOrders)
			authenticated.POST("/datasets", controllers.UploadDataset)
			authenticated.GET("/datasets/:id/histogram", controllers.DatasetHistogram)
			authenticated.GET("/datasets/:id/frequency", controllers.DatasetFrequency)
			authenticated.GET("/datasets/:id/archive", controllers.DatasetArchiveURL)
			authenticated.DELETE("/datasets/:id", controllers.DeleteDataset)

			// Admin row management
			admin := authenticated.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/rows", controllers.ListRows)
				admin.POST("/rows", controllers.InsertRow)
				admin.PUT("/rows", controllers.UpdateRows)
				admin.DELETE("/rows", controllers.DeleteRows)
			}
		}
	}

	return router
}

// loadStylesheet reads the dashboard stylesheet once at startup
func loadStylesheet(path string) []byte {
	content, err := os.ReadFile(path)
	if err != nil {
		utils.Diag(utils.SeverityWarning, "stylesheet %s not loaded: %v", path, err)
		return nil
	}
	log.Printf("Loaded stylesheet from %s", path)
	return content
}

// serveStyles handles the stylesheet endpoint; an absent stylesheet serves
// an empty body rather than an error
func serveStyles(c *gin.Context) {
	c.Data(http.StatusOK, "text/css; charset=utf-8", stylesheet)
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "SupplyLens dashboard API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
