package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/kendall-kelly/instalacoes-api/models"
	"github.com/kendall-kelly/instalacoes-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplierLifecycle(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter()

	w := testutil.PerformRequest(t, router, http.MethodPost, "/api/fornecedores", map[string]interface{}{
		"nome": "Antenas Brasil", "tipo": "Fabricante",
		"contatos": []map[string]interface{}{{"tipo": "email", "valor": "vendas@antenas.example", "principal": true}},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created SupplierResponse
	testutil.DecodeEnvelope(t, w, &created)
	assert.Equal(t, "Antenas Brasil", created.Nome)
	require.Len(t, created.Contatos, 1)
	path := fmt.Sprintf("/api/fornecedores/%d", created.ID)

	w = testutil.PerformRequest(t, router, http.MethodGet, "/api/fornecedores?tipo=fabricante", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var suppliers []models.Supplier
	testutil.DecodeEnvelope(t, w, &suppliers)
	assert.Len(t, suppliers, 1)

	w = testutil.PerformRequest(t, router, http.MethodPut, path, map[string]interface{}{"tipo": "Distribuidor"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var updated SupplierResponse
	testutil.DecodeEnvelope(t, w, &updated)
	assert.Equal(t, "Distribuidor", updated.Tipo)
	assert.Len(t, updated.Contatos, 1)

	w = testutil.PerformRequest(t, router, http.MethodPut, path, map[string]interface{}{"nome": "  "}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	kit := models.Kit{FornecedorID: created.ID, Serial: "SN-1", Status: models.KitAvailable}
	require.NoError(t, db.Create(&kit).Error)

	w = testutil.PerformRequest(t, router, http.MethodDelete, path, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := testutil.DecodeEnvelope(t, w, nil)
	assert.Equal(t, "HAS_DEPENDENTS", env.Error.Code)
	assert.Equal(t, map[string]interface{}{"kits": float64(1)}, env.Error.Details)

	require.NoError(t, db.Delete(&kit).Error)
	w = testutil.PerformRequest(t, router, http.MethodDelete, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var contacts int64
	require.NoError(t, db.Model(&models.Contact{}).Count(&contacts).Error)
	assert.Zero(t, contacts)

	w = testutil.PerformRequest(t, router, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SUPPLIER_NOT_FOUND", testutil.DecodeEnvelope(t, w, nil).Error.Code)
}

func TestCreateSupplierValidation(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	w := testutil.PerformRequest(t, router, http.MethodPost, "/api/fornecedores", map[string]interface{}{"nome": "Sem tipo"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", testutil.DecodeEnvelope(t, w, nil).Error.Code)
}
