package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/instalacoes-api/config"
	"github.com/kendall-kelly/instalacoes-api/controllers"
	"github.com/kendall-kelly/instalacoes-api/middleware"
	"github.com/kendall-kelly/instalacoes-api/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Version is reported by the status endpoint
const Version = "2.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.InitLogger(cfg)
	logger.WithField("env", cfg.GoEnv).Info("Starting installation orders API server...")

	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.Migrate(config.GetDB()); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info("Database migration completed successfully")

	if cfg.ReportArchiveEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := services.InitS3Service(ctx); err != nil {
			logger.WithError(err).Warn("Report archive disabled: S3 initialization failed")
		} else {
			logger.WithField("bucket", cfg.AWSS3Bucket).Info("Report archive enabled")
		}
		cancel()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := setupRouter(cfg)
	if err != nil {
		logger.Fatalf("Failed to set up router: %v", err)
	}

	addr := ":" + cfg.Port
	logger.Infof("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires middleware and every route
func setupRouter(cfg *config.Config) (*gin.Engine, error) {
	if err := middleware.RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(), middleware.Metrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader, controllers.ArchiveKeyHeader, controllers.ArchiveURLHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.RequireToken(cfg)
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit)

	api := router.Group("/api")
	{
		api.GET("/status", statusCheck)
		api.GET("/database/status", databaseStatus)
		api.POST("/auth/login", loginLimiter.Handler(), controllers.Login)

		cidades := api.Group("/cidades")
		{
			cidades.GET("", controllers.ListCities)
			cidades.GET("/ufs", controllers.ListUFs)
			cidades.GET("/regioes", controllers.ListRegions)
			cidades.GET("/:id", controllers.GetCity)
			cidades.POST("", auth, controllers.CreateCity)
			cidades.PUT("/:id", auth, controllers.UpdateCity)
			cidades.DELETE("/:id", auth, controllers.DeleteCity)
		}

		clientes := api.Group("/clientes")
		{
			clientes.GET("", controllers.ListClients)
			clientes.GET("/busca", controllers.SearchClients)
			clientes.GET("/:id", controllers.GetClient)
			clientes.POST("", auth, controllers.CreateClient)
			clientes.PUT("/:id", auth, controllers.UpdateClient)
			clientes.DELETE("/:id", auth, controllers.DeleteClient)
		}

		tecnicos := api.Group("/tecnicos")
		{
			tecnicos.GET("", controllers.ListTechnicians)
			tecnicos.GET("/:id", controllers.GetTechnician)
			tecnicos.GET("/:id/desempenho", controllers.GetTechnicianPerformance)
			tecnicos.POST("", auth, controllers.CreateTechnician)
			tecnicos.PUT("/:id", auth, controllers.UpdateTechnician)
			tecnicos.DELETE("/:id", auth, controllers.DeleteTechnician)
		}

		fornecedores := api.Group("/fornecedores")
		{
			fornecedores.GET("", controllers.ListSuppliers)
			fornecedores.GET("/:id", controllers.GetSupplier)
			fornecedores.POST("", auth, controllers.CreateSupplier)
			fornecedores.PUT("/:id", auth, controllers.UpdateSupplier)
			fornecedores.DELETE("/:id", auth, controllers.DeleteSupplier)
		}

		kits := api.Group("/kits")
		{
			kits.GET("", controllers.ListKits)
			kits.GET("/:id", controllers.GetKit)
			kits.POST("", auth, controllers.CreateKit)
			kits.PUT("/:id", auth, controllers.UpdateKit)
			kits.DELETE("/:id", auth, controllers.DeleteKit)
			kits.POST("/:id/componentes", auth, controllers.AddKitComponent)
			kits.DELETE("/:id/componentes/:componente_id", auth, controllers.DeleteKitComponent)
		}

		ordens := api.Group("/ordens")
		{
			ordens.GET("", controllers.ListOrders)
			ordens.GET("/proximas-vencimento", controllers.ListUpcomingOrders)
			ordens.GET("/metricas", controllers.GetOrderMetrics)
			ordens.GET("/:id", controllers.GetOrder)
			ordens.POST("", auth, controllers.CreateOrder)
			ordens.PUT("/:id", auth, controllers.UpdateOrder)
			ordens.DELETE("/:id", auth, controllers.DeleteOrder)
		}

		relatorios := api.Group("/relatorios")
		{
			relatorios.GET("/tecnicos/pdf", controllers.GetPendingOrdersReport)
			relatorios.GET("/admin/csv", controllers.ExportAdminReport)
			relatorios.GET("/admin/pdf", controllers.GetAdminPDFReport)
			relatorios.GET("/desempenho/tecnicos", controllers.GetTechnicianPerformanceReport)
			relatorios.GET("/desempenho/cidades", controllers.GetCityPerformanceReport)
		}
	}

	return router, nil
}

// statusCheck reports that the API is up and whether the database answers
func statusCheck(c *gin.Context) {
	database := "online"
	status := http.StatusOK
	if err := pingDatabase(c.Request.Context()); err != nil {
		middleware.RequestLogger(c).WithError(err).Warn("Database ping failed")
		database = "offline"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   "online",
		"version":  Version,
		"database": database,
	})
}

// databaseStatus checks database connectivity and lists the tables
func databaseStatus(c *gin.Context) {
	if err := pingDatabase(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := config.GetDB().Migrator().GetTables()
	if err != nil {
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

func pingDatabase(ctx context.Context) error {
	db := config.GetDB()
	if db == nil {
		return errDatabaseNotConnected
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var errDatabaseNotConnected = errors.New("database not connected")
