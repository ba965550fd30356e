package services

import (
	"fmt"
	"time"

	"github.com/kendall-kelly/instalacoes-api/models"
	"github.com/kendall-kelly/instalacoes-api/utils"
	"gorm.io/gorm"
)

// DefaultUpcomingDays is the look-ahead window of the upcoming-due listing
const DefaultUpcomingDays = 7

// OrderFilter narrows service order queries. Zero values mean "no filter".
type OrderFilter struct {
	TechnicianID *uint
	// AnyRole matches TechnicianID as field or app technician,
	// otherwise only as field technician
	AnyRole bool
	CityID  *uint
	Status  string
	Created utils.DateRange
}

// Scope applies the filter to a query rooted at ordens_servico
func (f OrderFilter) Scope(db *gorm.DB) *gorm.DB {
	if f.TechnicianID != nil {
		if f.AnyRole {
			db = db.Where("(ordens_servico.tecnico_campo_id = ? OR ordens_servico.tecnico_app_id = ?)", *f.TechnicianID, *f.TechnicianID)
		} else {
			db = db.Where("ordens_servico.tecnico_campo_id = ?", *f.TechnicianID)
		}
	}
	if f.CityID != nil {
		db = db.Where("ordens_servico.cidade_id = ?", *f.CityID)
	}
	if f.Status != "" {
		db = db.Where("ordens_servico.status = ?", f.Status)
	}
	return CreatedWithin(f.Created)(db)
}

// CreatedWithin restricts ordens_servico.data_criacao to r (inclusive)
func CreatedWithin(r utils.DateRange) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r.Start != nil {
			db = db.Where("ordens_servico.data_criacao >= ?", *r.Start)
		}
		if r.End != nil {
			db = db.Where("ordens_servico.data_criacao <= ?", *r.End)
		}
		return db
	}
}

// StatusBreakdown is the per-status count of a set of orders
type StatusBreakdown struct {
	Total          int64            `json:"total_geral"`
	Installed      int64            `json:"total_instaladas"`
	CompletionRate float64          `json:"taxa_conclusao"`
	ByStatus       map[string]int64 `json:"por_status"`
}

// TechnicianPerformance is one row of the technician performance report
type TechnicianPerformance struct {
	TecnicoID          uint    `json:"tecnico_id"`
	Nome               string  `json:"nome"`
	IdentificacaoCampo *string `json:"identificacao_campo"`
	IdentificacaoApp   *string `json:"identificacao_app"`
	TotalOS            int64   `json:"total_os"`
	TotalInstaladas    int64   `json:"total_instaladas"`
	TaxaConclusao      float64 `json:"taxa_conclusao"`
}

// CityPerformance is one row of the city performance report
type CityPerformance struct {
	CidadeID        uint    `json:"cidade_id"`
	Nome            string  `json:"nome"`
	UF              string  `json:"uf"`
	Regiao          *string `json:"regiao"`
	TotalOS         int64   `json:"total_os"`
	TotalInstaladas int64   `json:"total_instaladas"`
	TaxaConclusao   float64 `json:"taxa_conclusao"`
}

// CompletionRate returns installed/total*100 rounded to two decimals, 0 for an empty set
func CompletionRate(installed, total int64) float64 {
	return utils.Percentage(installed, total)
}

// MetricsService aggregates service orders
type MetricsService struct {
	db *gorm.DB
}

// NewMetricsService creates a metrics service over db
func NewMetricsService(db *gorm.DB) *MetricsService {
	return &MetricsService{db: db}
}

// StatusBreakdown counts the orders matching f grouped by status.
// Every known status is present in ByStatus, with zero when absent.
func (s *MetricsService) StatusBreakdown(f OrderFilter) (*StatusBreakdown, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := s.db.Model(&models.ServiceOrder{}).
		Scopes(f.Scope).
		Select("ordens_servico.status AS status, COUNT(*) AS total").
		Group("ordens_servico.status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}

	out := &StatusBreakdown{ByStatus: make(map[string]int64, len(models.OrderStatuses))}
	for _, status := range models.OrderStatuses {
		out.ByStatus[status] = 0
	}
	for _, row := range rows {
		out.ByStatus[row.Status] = row.Total
		out.Total += row.Total
	}
	out.Installed = out.ByStatus[models.StatusInstalled]
	out.CompletionRate = CompletionRate(out.Installed, out.Total)
	return out, nil
}

// UpcomingDue lists orders not yet installed whose due date is at most
// days after now, soonest first. Overdue orders are included.
func (s *MetricsService) UpcomingDue(days int, now time.Time) ([]models.ServiceOrder, error) {
	limit := now.UTC().AddDate(0, 0, days)

	orders := []models.ServiceOrder{}
	err := s.db.Preload("Cliente").Preload("TecnicoCampo").Preload("Cidade").
		Where("status <> ?", models.StatusInstalled).
		Where("data_vencimento <= ?", limit).
		Order("data_vencimento ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming orders: %w", err)
	}
	return orders, nil
}

// orderTotals builds the derived table (key, total_os, total_instaladas)
// grouping orders created within r by keyColumn
func (s *MetricsService) orderTotals(keyColumn string, r utils.DateRange) *gorm.DB {
	return s.db.Model(&models.ServiceOrder{}).
		Select("ordens_servico."+keyColumn+" AS ref_id, COUNT(*) AS total_os, "+
			"SUM(CASE WHEN ordens_servico.status = ? THEN 1 ELSE 0 END) AS total_instaladas", models.StatusInstalled).
		Scopes(CreatedWithin(r)).
		Group("ordens_servico." + keyColumn)
}

// TechnicianPerformance aggregates orders per field technician. Technicians
// without orders in the range are omitted. Rows are sorted by volume.
func (s *MetricsService) TechnicianPerformance(r utils.DateRange) ([]TechnicianPerformance, error) {
	rows := []TechnicianPerformance{}
	err := s.db.Table("tecnicos").
		Select("tecnicos.id AS tecnico_id, tecnicos.nome, tecnicos.identificacao_campo, tecnicos.identificacao_app, t.total_os, t.total_instaladas").
		Joins("JOIN (?) AS t ON t.ref_id = tecnicos.id", s.orderTotals("tecnico_campo_id", r)).
		Order("t.total_os DESC, tecnicos.nome ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate technician performance: %w", err)
	}
	for i := range rows {
		rows[i].TaxaConclusao = CompletionRate(rows[i].TotalInstaladas, rows[i].TotalOS)
	}
	return rows, nil
}

// CityPerformance aggregates orders per city, omitting cities without orders
func (s *MetricsService) CityPerformance(r utils.DateRange) ([]CityPerformance, error) {
	rows := []CityPerformance{}
	err := s.db.Table("cidades").
		Select("cidades.id AS cidade_id, cidades.nome, cidades.uf, cidades.regiao, t.total_os, t.total_instaladas").
		Joins("JOIN (?) AS t ON t.ref_id = cidades.id", s.orderTotals("cidade_id", r)).
		Order("t.total_os DESC, cidades.nome ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate city performance: %w", err)
	}
	for i := range rows {
		rows[i].TaxaConclusao = CompletionRate(rows[i].TotalInstaladas, rows[i].TotalOS)
	}
	return rows, nil
}
