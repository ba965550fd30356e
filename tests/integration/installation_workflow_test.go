package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/instalacoes-api/config"
	"github.com/kendall-kelly/instalacoes-api/controllers"
	"github.com/kendall-kelly/instalacoes-api/middleware"
	"github.com/kendall-kelly/instalacoes-api/models"
	"github.com/kendall-kelly/instalacoes-api/services"
	"github.com/kendall-kelly/instalacoes-api/tests/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const testToken = "integration-token"

// InstallationWorkflowTestSuite drives a service order from registration to
// installation through the HTTP handlers
type InstallationWorkflowTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

// SetupSuite runs once before all tests
func (suite *InstallationWorkflowTestSuite) SetupSuite() {
	testutil.GuardTestEnvironment()
	testutil.QuietLogger()
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(middleware.RegisterValidators())

	suite.cfg = &config.Config{GoEnv: "test", AuthToken: testToken, LoginRateLimit: 10}
}

// SetupTest runs before each test
func (suite *InstallationWorkflowTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())

	mockS3 := services.NewMockS3Service()
	mockS3.SetAsMockForTesting()

	auth := middleware.RequireToken(suite.cfg)
	suite.router = gin.New()
	suite.router.Use(middleware.Logger())
	api := suite.router.Group("/api")
	{
		api.POST("/cidades", auth, controllers.CreateCity)
		api.DELETE("/cidades/:id", auth, controllers.DeleteCity)
		api.POST("/clientes", auth, controllers.CreateClient)
		api.GET("/clientes/busca", controllers.SearchClients)
		api.POST("/tecnicos", auth, controllers.CreateTechnician)
		api.GET("/tecnicos/:id/desempenho", controllers.GetTechnicianPerformance)
		api.POST("/fornecedores", auth, controllers.CreateSupplier)
		api.POST("/kits", auth, controllers.CreateKit)
		api.PUT("/kits/:id", auth, controllers.UpdateKit)
		api.GET("/kits/:id", controllers.GetKit)
		api.POST("/ordens", auth, controllers.CreateOrder)
		api.PUT("/ordens/:id", auth, controllers.UpdateOrder)
		api.DELETE("/ordens/:id", auth, controllers.DeleteOrder)
		api.GET("/ordens/metricas", controllers.GetOrderMetrics)
		api.GET("/ordens/proximas-vencimento", controllers.ListUpcomingOrders)
		api.GET("/relatorios/tecnicos/pdf", controllers.GetPendingOrdersReport)
		api.GET("/relatorios/admin/csv", controllers.ExportAdminReport)
	}
}

// TearDownTest runs after each test
func (suite *InstallationWorkflowTestSuite) TearDownTest() {
	services.SetS3Service(nil)
}

func (suite *InstallationWorkflowTestSuite) post(path string, body interface{}, out interface{}) {
	w := testutil.PerformRequest(suite.T(), suite.router, http.MethodPost, path, body, testToken)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	testutil.DecodeEnvelope(suite.T(), w, out)
}

func (suite *InstallationWorkflowTestSuite) put(path string, body interface{}, out interface{}) {
	w := testutil.PerformRequest(suite.T(), suite.router, http.MethodPut, path, body, testToken)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	testutil.DecodeEnvelope(suite.T(), w, out)
}

// TestOrderLifecycle registers every entity, installs the order and checks
// that metrics and reports follow
func (suite *InstallationWorkflowTestSuite) TestOrderLifecycle() {
	var city models.City
	suite.post("/api/cidades", map[string]interface{}{"nome": "Mossoró", "uf": "RN", "regiao": "Oeste"}, &city)

	var client controllers.ClientResponse
	suite.post("/api/clientes", map[string]interface{}{
		"nome_completo": "Francisca Oliveira",
		"endereco":      "Av. Rio Branco, 500",
		"bairro":        "Centro",
		"cidade_id":     city.ID,
		"uf":            "RN",
		"contatos":      []map[string]interface{}{{"tipo": "whatsapp", "valor": "84987654321", "principal": true}},
	}, &client)

	var tech controllers.TechnicianResponse
	suite.post("/api/tecnicos", map[string]interface{}{"nome": "Raimundo", "identificacao_campo": "T-15"}, &tech)

	var supplier controllers.SupplierResponse
	suite.post("/api/fornecedores", map[string]interface{}{"nome": "Sat Distribuidora", "tipo": "distribuidor"}, &supplier)

	var order models.ServiceOrder
	suite.post("/api/ordens", map[string]interface{}{
		"numero_os":        "2024-0001",
		"status":           "PENDENTE",
		"data_criacao":     "2024-05-02T08:00:00",
		"data_vencimento":  "2024-05-09",
		"cliente_id":       client.ID,
		"tecnico_campo_id": tech.ID,
		"cidade_id":        city.ID,
	}, &order)

	var kit models.Kit
	suite.post("/api/kits", map[string]interface{}{
		"fornecedor_id":    supplier.ID,
		"serial":           "KIT-9001",
		"status":           "alocado",
		"tecnico_id":       tech.ID,
		"ordem_servico_id": order.ID,
		"data_alocacao":    "2024-05-03",
		"componentes":      []map[string]interface{}{{"tipo": "antena"}, {"tipo": "lnb"}, {"tipo": "cabo", "quantidade": 15}},
	}, &kit)
	suite.Len(kit.Componentes, 3)

	// the pending report lists the order until it is installed
	w := testutil.PerformRequest(suite.T(), suite.router, http.MethodGet,
		fmt.Sprintf("/api/relatorios/tecnicos/pdf?formato=html&tecnico_id=%d", tech.ID), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "2024-0001")
	suite.Contains(w.Body.String(), "84987654321", "the primary contact is shown")

	var installed models.ServiceOrder
	suite.put(fmt.Sprintf("/api/ordens/%d", order.ID), map[string]interface{}{
		"status": "INSTALADA", "data_instalacao": "2024-05-06T15:30:00", "fez_na_rua": true,
	}, &installed)
	suite.Equal(models.StatusInstalled, installed.Status)
	suite.False(installed.MissingInstallationDate())

	suite.put(fmt.Sprintf("/api/kits/%d", kit.ID), map[string]interface{}{
		"status": "instalado", "data_instalacao": "2024-05-06T15:30:00",
	}, &kit)
	suite.Equal(models.KitInstalled, kit.Status)

	w = testutil.PerformRequest(suite.T(), suite.router, http.MethodGet,
		fmt.Sprintf("/api/relatorios/tecnicos/pdf?formato=html&tecnico_id=%d", tech.ID), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), "2024-0001")

	var metrics services.StatusBreakdown
	w = testutil.PerformRequest(suite.T(), suite.router, http.MethodGet, "/api/ordens/metricas", nil, "")
	testutil.DecodeEnvelope(suite.T(), w, &metrics)
	suite.Equal(int64(1), metrics.Total)
	suite.Equal(100.0, metrics.CompletionRate)

	var perf struct {
		TotalInstaladas int64   `json:"total_instaladas"`
		TaxaConclusao   float64 `json:"taxa_conclusao"`
	}
	w = testutil.PerformRequest(suite.T(), suite.router, http.MethodGet, fmt.Sprintf("/api/tecnicos/%d/desempenho", tech.ID), nil, "")
	testutil.DecodeEnvelope(suite.T(), w, &perf)
	suite.Equal(int64(1), perf.TotalInstaladas)
	suite.Equal(100.0, perf.TaxaConclusao)

	w = testutil.PerformRequest(suite.T(), suite.router, http.MethodGet, "/api/relatorios/admin/csv", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "2024-0001;INSTALADA;02/05/2024;06/05/2024;09/05/2024;Francisca Oliveira")
	suite.NotEmpty(w.Header().Get(controllers.ArchiveKeyHeader), "reports are archived when storage is configured")
}

// TestReferentialIntegrity checks that deletes respect dependents and detach kits
func (suite *InstallationWorkflowTestSuite) TestReferentialIntegrity() {
	city := testutil.CreateCity(suite.T(), suite.db, "Caicó", "RN")
	client := testutil.CreateClient(suite.T(), suite.db, "Josefa", city)
	tech := testutil.CreateTechnician(suite.T(), suite.db, "Severino")
	order := testutil.CreateOrder(suite.T(), suite.db, "2024-0100", client, tech)
	supplier := testutil.CreateSupplier(suite.T(), suite.db, "Sat Distribuidora")
	kit := models.Kit{FornecedorID: supplier.ID, Serial: "KIT-1", Status: models.KitAllocated, OrdemServicoID: &order.ID}
	suite.Require().NoError(suite.db.Create(&kit).Error)

	w := testutil.PerformRequest(suite.T(), suite.router, http.MethodDelete, fmt.Sprintf("/api/cidades/%d", city.ID), nil, testToken)
	suite.Equal(http.StatusBadRequest, w.Code)
	env := testutil.DecodeEnvelope(suite.T(), w, nil)
	suite.Equal("HAS_DEPENDENTS", env.Error.Code)
	suite.Equal(map[string]interface{}{"clientes": float64(1), "ordens_servico": float64(1)}, env.Error.Details)

	w = testutil.PerformRequest(suite.T(), suite.router, http.MethodDelete, fmt.Sprintf("/api/ordens/%d", order.ID), nil, testToken)
	suite.Require().Equal(http.StatusOK, w.Code)

	var fetched models.Kit
	w = testutil.PerformRequest(suite.T(), suite.router, http.MethodGet, fmt.Sprintf("/api/kits/%d", kit.ID), nil, "")
	testutil.DecodeEnvelope(suite.T(), w, &fetched)
	suite.Nil(fetched.OrdemServicoID, "the kit survives its order")
}

// TestWritesNeedToken checks the auth gate on every write used above
func (suite *InstallationWorkflowTestSuite) TestWritesNeedToken() {
	for _, path := range []string{"/api/cidades", "/api/clientes", "/api/tecnicos", "/api/fornecedores", "/api/kits", "/api/ordens"} {
		w := testutil.PerformRequest(suite.T(), suite.router, http.MethodPost, path, map[string]interface{}{}, "")
		suite.Equal(http.StatusUnauthorized, w.Code, path)
	}

	var n int64
	suite.Require().NoError(suite.db.Model(&models.City{}).Count(&n).Error)
	suite.Zero(n)
}

// TestClientSearchByContact finds a client through its phone number
func (suite *InstallationWorkflowTestSuite) TestClientSearchByContact() {
	city := testutil.CreateCity(suite.T(), suite.db, "Natal", "RN")
	client := testutil.CreateClient(suite.T(), suite.db, "Antônia", city)
	testutil.AddContact(suite.T(), suite.db, client.Owner(), models.ContactMobile, "(84) 99876-5432", true)

	w := testutil.PerformRequest(suite.T(), suite.router, http.MethodGet, "/api/clientes/busca?termo=99876", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	var found []models.Client
	testutil.DecodeEnvelope(suite.T(), w, &found)
	suite.Require().Len(found, 1)
	suite.True(strings.HasPrefix(found[0].NomeCompleto, "Antônia"))
}

func TestInstallationWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(InstallationWorkflowTestSuite))
}
