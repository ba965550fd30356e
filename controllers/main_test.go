package controllers

import (
	"fmt"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/instalacoes-api/middleware"
	"github.com/kendall-kelly/instalacoes-api/tests/testutil"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutil.GuardTestEnvironment()
	testutil.QuietLogger()
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register validators: %v\n", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// setupTestDB creates a migrated in-memory database and installs it as config.DB
func setupTestDB(t *testing.T) *gorm.DB {
	return testutil.NewTestDB(t)
}

// setupTestRouter registers every handler without the auth gate
func setupTestRouter() *gin.Engine {
	router := gin.New()
	api := router.Group("/api")

	cidades := api.Group("/cidades")
	cidades.GET("", ListCities)
	cidades.GET("/ufs", ListUFs)
	cidades.GET("/regioes", ListRegions)
	cidades.GET("/:id", GetCity)
	cidades.POST("", CreateCity)
	cidades.PUT("/:id", UpdateCity)
	cidades.DELETE("/:id", DeleteCity)

	clientes := api.Group("/clientes")
	clientes.GET("", ListClients)
	clientes.GET("/busca", SearchClients)
	clientes.GET("/:id", GetClient)
	clientes.POST("", CreateClient)
	clientes.PUT("/:id", UpdateClient)
	clientes.DELETE("/:id", DeleteClient)

	tecnicos := api.Group("/tecnicos")
	tecnicos.GET("", ListTechnicians)
	tecnicos.GET("/:id", GetTechnician)
	tecnicos.GET("/:id/desempenho", GetTechnicianPerformance)
	tecnicos.POST("", CreateTechnician)
	tecnicos.PUT("/:id", UpdateTechnician)
	tecnicos.DELETE("/:id", DeleteTechnician)

	fornecedores := api.Group("/fornecedores")
	fornecedores.GET("", ListSuppliers)
	fornecedores.GET("/:id", GetSupplier)
	fornecedores.POST("", CreateSupplier)
	fornecedores.PUT("/:id", UpdateSupplier)
	fornecedores.DELETE("/:id", DeleteSupplier)

	kits := api.Group("/kits")
	kits.GET("", ListKits)
	kits.GET("/:id", GetKit)
	kits.POST("", CreateKit)
	kits.PUT("/:id", UpdateKit)
	kits.DELETE("/:id", DeleteKit)
	kits.POST("/:id/componentes", AddKitComponent)
	kits.DELETE("/:id/componentes/:componente_id", DeleteKitComponent)

	ordens := api.Group("/ordens")
	ordens.GET("", ListOrders)
	ordens.GET("/proximas-vencimento", ListUpcomingOrders)
	ordens.GET("/metricas", GetOrderMetrics)
	ordens.GET("/:id", GetOrder)
	ordens.POST("", CreateOrder)
	ordens.PUT("/:id", UpdateOrder)
	ordens.DELETE("/:id", DeleteOrder)

	relatorios := api.Group("/relatorios")
	relatorios.GET("/tecnicos/pdf", GetPendingOrdersReport)
	relatorios.GET("/admin/csv", ExportAdminReport)
	relatorios.GET("/admin/pdf", GetAdminPDFReport)
	relatorios.GET("/desempenho/tecnicos", GetTechnicianPerformanceReport)
	relatorios.GET("/desempenho/cidades", GetCityPerformanceReport)

	api.POST("/auth/login", Login)
	return router
}
