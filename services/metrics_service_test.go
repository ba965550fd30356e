package services

import (
	"testing"
	"time"

	"github.com/kendall-kelly/instalacoes-api/models"
	"github.com/kendall-kelly/instalacoes-api/tests/testutil"
	"github.com/kendall-kelly/instalacoes-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0.0, CompletionRate(0, 0))
	assert.Equal(t, 50.0, CompletionRate(1, 2))
	assert.Equal(t, 66.67, CompletionRate(2, 3))
	assert.Equal(t, 100.0, CompletionRate(5, 5))
}

func TestStatusBreakdown(t *testing.T) {
	db := testutil.NewTestDB(t)
	city := testutil.CreateCity(t, db, "Natal", "RN")
	client := testutil.CreateClient(t, db, "Cliente", city)
	field := testutil.CreateTechnician(t, db, "Carlos")
	app := testutil.CreateTechnician(t, db, "Diana")

	testutil.CreateOrder(t, db, "OS-1", client, field, testutil.WithStatus(models.StatusInstalled))
	testutil.CreateOrder(t, db, "OS-2", client, field)
	testutil.CreateOrder(t, db, "OS-3", client, field, testutil.WithStatus(models.StatusInstalled), testutil.WithAppTechnician(app))

	svc := NewMetricsService(db)

	t.Run("all orders", func(t *testing.T) {
		b, err := svc.StatusBreakdown(OrderFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), b.Total)
		assert.Equal(t, int64(2), b.Installed)
		assert.Equal(t, 66.67, b.CompletionRate)
		assert.Equal(t, map[string]int64{
			models.StatusPending:   1,
			models.StatusInstalled: 2,
			models.StatusCanceled:  0,
		}, b.ByStatus)
	})

	t.Run("field technician only", func(t *testing.T) {
		b, err := svc.StatusBreakdown(OrderFilter{TechnicianID: &app.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(0), b.Total)
		assert.Equal(t, 0.0, b.CompletionRate)
	})

	t.Run("any role", func(t *testing.T) {
		b, err := svc.StatusBreakdown(OrderFilter{TechnicianID: &app.ID, AnyRole: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), b.Total)
		assert.Equal(t, 100.0, b.CompletionRate)
	})

	t.Run("status filter", func(t *testing.T) {
		b, err := svc.StatusBreakdown(OrderFilter{Status: models.StatusPending})
		require.NoError(t, err)
		assert.Equal(t, int64(1), b.Total)
	})
}

func TestUpcomingDue(t *testing.T) {
	db := testutil.NewTestDB(t)
	city := testutil.CreateCity(t, db, "Recife", "PE")
	client := testutil.CreateClient(t, db, "Cliente", city)
	tech := testutil.CreateTechnician(t, db, "Bruno")

	// A: pending, due in 3 days; B: installed, due in 2 days; C: pending, due in 10 days
	testutil.CreateOrder(t, db, "A", client, tech, testutil.DueIn(3*24*time.Hour))
	testutil.CreateOrder(t, db, "B", client, tech, testutil.DueIn(2*24*time.Hour), testutil.WithStatus(models.StatusInstalled))
	testutil.CreateOrder(t, db, "C", client, tech, testutil.DueIn(10*24*time.Hour))

	svc := NewMetricsService(db)

	orders, err := svc.UpcomingDue(DefaultUpcomingDays, time.Now())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "A", orders[0].NumeroOS)
	require.NotNil(t, orders[0].Cliente)
	require.NotNil(t, orders[0].TecnicoCampo)
	require.NotNil(t, orders[0].Cidade)
	assert.Equal(t, "Bruno", orders[0].TecnicoCampo.Nome)

	orders, err = svc.UpcomingDue(15, time.Now())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "A", orders[0].NumeroOS, "soonest due first")
	assert.Equal(t, "C", orders[1].NumeroOS)
}

func TestUpcomingDueIncludesOverdue(t *testing.T) {
	db := testutil.NewTestDB(t)
	city := testutil.CreateCity(t, db, "Recife", "PE")
	client := testutil.CreateClient(t, db, "Cliente", city)
	tech := testutil.CreateTechnician(t, db, "Bruno")

	testutil.CreateOrder(t, db, "ATRASADA", client, tech, testutil.DueIn(-5*24*time.Hour))
	testutil.CreateOrder(t, db, "CANCELADA", client, tech, testutil.DueIn(24*time.Hour), testutil.WithStatus(models.StatusCanceled))

	orders, err := NewMetricsService(db).UpcomingDue(0, time.Now())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ATRASADA", orders[0].NumeroOS)
}

func TestTechnicianPerformance(t *testing.T) {
	db := testutil.NewTestDB(t)
	city := testutil.CreateCity(t, db, "Recife", "PE")
	client := testutil.CreateClient(t, db, "Cliente", city)
	ana := testutil.CreateTechnician(t, db, "Ana")
	beto := testutil.CreateTechnician(t, db, "Beto")
	testutil.CreateTechnician(t, db, "Ocioso")

	testutil.CreateOrder(t, db, "OS-1", client, ana, testutil.WithStatus(models.StatusInstalled))
	testutil.CreateOrder(t, db, "OS-2", client, beto, testutil.WithStatus(models.StatusInstalled))
	testutil.CreateOrder(t, db, "OS-3", client, beto)
	testutil.CreateOrder(t, db, "OS-4", client, beto)

	rows, err := NewMetricsService(db).TechnicianPerformance(utils.DateRange{})
	require.NoError(t, err)
	require.Len(t, rows, 2, "technicians without orders are omitted")

	assert.Equal(t, "Beto", rows[0].Nome)
	assert.Equal(t, beto.ID, rows[0].TecnicoID)
	assert.Equal(t, int64(3), rows[0].TotalOS)
	assert.Equal(t, int64(1), rows[0].TotalInstaladas)
	assert.Equal(t, 33.33, rows[0].TaxaConclusao)

	assert.Equal(t, "Ana", rows[1].Nome)
	assert.Equal(t, 100.0, rows[1].TaxaConclusao)
}

func TestPerformanceRespectsCreationRange(t *testing.T) {
	db := testutil.NewTestDB(t)
	natal := testutil.CreateCity(t, db, "Natal", "RN")
	recife := testutil.CreateCity(t, db, "Recife", "PE")
	tech := testutil.CreateTechnician(t, db, "Ana")

	jan := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	testutil.CreateOrder(t, db, "OS-JAN", testutil.CreateClient(t, db, "A", natal), tech, testutil.CreatedAt(jan))
	testutil.CreateOrder(t, db, "OS-MAR", testutil.CreateClient(t, db, "B", recife), tech, testutil.CreatedAt(mar))

	r, err := utils.ParseDateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)

	cities, err := NewMetricsService(db).CityPerformance(r)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Natal", cities[0].Nome)
	assert.Equal(t, "RN", cities[0].UF)
	assert.Equal(t, int64(1), cities[0].TotalOS)
	assert.Equal(t, 0.0, cities[0].TaxaConclusao)
}
