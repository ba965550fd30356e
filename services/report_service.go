package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kendall-kelly/instalacoes-api/models"
	"github.com/kendall-kelly/instalacoes-api/utils"
	"gorm.io/gorm"
)

// ExportType selects the dataset of the admin spreadsheet export
type ExportType string

const (
	ExportOrders      ExportType = "os"
	ExportTechnicians ExportType = "tecnicos"
	ExportCities      ExportType = "cidades"
)

// ParseExportType validates the "tipo" of an admin export; empty means os
func ParseExportType(v string) (ExportType, error) {
	switch ExportType(v) {
	case "":
		return ExportOrders, nil
	case ExportOrders, ExportTechnicians, ExportCities:
		return ExportType(v), nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidReportType, v)
}

// FilenamePrefix is the leading part of the generated file name
func (t ExportType) FilenamePrefix() string {
	switch t {
	case ExportTechnicians:
		return "relatorio_desempenho_tecnicos"
	case ExportCities:
		return "relatorio_desempenho_cidades"
	}
	return "relatorio_ordens_servico"
}

// SummaryType selects the content of the admin PDF report
type SummaryType string

const (
	SummaryOverview    SummaryType = "resumo"
	SummaryTechnicians SummaryType = "tecnicos"
	SummaryCities      SummaryType = "cidades"
)

// ParseSummaryType validates the "tipo" of the admin PDF; empty means resumo
func ParseSummaryType(v string) (SummaryType, error) {
	switch SummaryType(v) {
	case "":
		return SummaryOverview, nil
	case SummaryOverview, SummaryTechnicians, SummaryCities:
		return SummaryType(v), nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidReportType, v)
}

// Placeholders used in the pending orders report
const (
	NoReferencePlaceholder = "Sem referência"
	NoDatePlaceholder      = "Sem data"
)

// PendingOrderRow is one line of the pending orders report
type PendingOrderRow struct {
	NumeroOS       string `json:"numero_os"`
	Cliente        string `json:"cliente"`
	Contato        string `json:"contato"`
	Endereco       string `json:"endereco"`
	Referencia     string `json:"referencia"`
	Tecnico        string `json:"tecnico"`
	DataVencimento string `json:"data_vencimento"`
	Status         string `json:"status"`
}

// PendingOrdersFilter scopes the pending orders report
type PendingOrdersFilter struct {
	TechnicianID *uint
	CityID       *uint
}

// PendingOrdersReport is the dataset behind the technicians' pending orders PDF
type PendingOrdersReport struct {
	Title string
	Rows  []PendingOrderRow
}

// StatusShare is a status count with its share of the total
type StatusShare struct {
	Status     string
	Total      int64
	Percentual float64
}

// RankEntry is one position of a top-N ranking by order count
type RankEntry struct {
	Nome  string
	UF    string
	Total int64
}

// AdminSummary is the dataset behind the "resumo" admin PDF
type AdminSummary struct {
	Period         string
	Total          int64
	Statuses       []StatusShare
	TopTechnicians []RankEntry
	TopCities      []RankEntry
}

// TopN is the size of the rankings in the admin summary
const TopN = 5

// ReportService builds report datasets from the store
type ReportService struct {
	db       *gorm.DB
	metrics  *MetricsService
	contacts *ContactService
}

// NewReportService creates a report service over db
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{
		db:       db,
		metrics:  NewMetricsService(db),
		contacts: NewContactService(db),
	}
}

// PendingOrders lists every order not yet installed, soonest due first,
// resolving client, technician, city and the client's primary contact.
func (s *ReportService) PendingOrders(f PendingOrdersFilter) (*PendingOrdersReport, error) {
	title := "Relatório de Ordens de Serviço Pendentes"

	query := s.db.Preload("Cliente").Preload("TecnicoCampo").Preload("Cidade").
		Where("status <> ?", models.StatusInstalled)

	if f.TechnicianID != nil {
		var tech models.Technician
		if err := s.db.First(&tech, *f.TechnicianID).Error; err != nil {
			return nil, lookupError(err, "technician", *f.TechnicianID)
		}
		title += " - Técnico: " + tech.Nome
		query = query.Where("tecnico_campo_id = ?", tech.ID)
	}
	if f.CityID != nil {
		var city models.City
		if err := s.db.First(&city, *f.CityID).Error; err != nil {
			return nil, lookupError(err, "city", *f.CityID)
		}
		title += " - Cidade: " + city.Label()
		query = query.Where("cidade_id = ?", city.ID)
	}

	var orders []models.ServiceOrder
	if err := query.Order("data_vencimento ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load pending orders: %w", err)
	}

	report := &PendingOrdersReport{Title: title, Rows: make([]PendingOrderRow, 0, len(orders))}
	for _, o := range orders {
		row := PendingOrderRow{
			NumeroOS:       o.NumeroOS,
			Referencia:     NoReferencePlaceholder,
			DataVencimento: NoDatePlaceholder,
			Status:         o.Status,
		}
		if !o.DataVencimento.IsZero() {
			row.DataVencimento = o.DataVencimento.Format(utils.BRDateLayout)
		}
		if o.TecnicoCampo != nil {
			row.Tecnico = o.TecnicoCampo.Nome
		}

		var address []string
		if o.Cliente != nil {
			row.Cliente = o.Cliente.NomeCompleto
			if o.Cliente.PontoReferencia != nil && *o.Cliente.PontoReferencia != "" {
				row.Referencia = *o.Cliente.PontoReferencia
			}
			address = append(address, o.Cliente.Endereco, o.Cliente.Bairro)

			contact, err := s.contacts.PrimaryValue(o.Cliente.Owner())
			if err != nil {
				return nil, err
			}
			row.Contato = contact
		} else {
			row.Contato = models.NoContactPlaceholder
		}
		if o.Cidade != nil {
			address = append(address, o.Cidade.Label())
		}
		row.Endereco = strings.Join(address, ", ")

		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

// orderExportRow is the flat join scanned for the orders export
type orderExportRow struct {
	NumeroOS       string
	Status         string
	DataCriacao    time.Time
	DataInstalacao *time.Time
	DataVencimento time.Time
	Cliente        string
	Endereco       string
	Bairro         string
	Cidade         string
	UF             string
	Tecnico        string
}

// ExportTable builds the spreadsheet dataset for t over orders created within r
func (s *ReportService) ExportTable(t ExportType, r utils.DateRange) (*Table, error) {
	switch t {
	case ExportOrders:
		return s.OrdersTable(r)
	case ExportTechnicians:
		rows, err := s.metrics.TechnicianPerformance(r)
		if err != nil {
			return nil, err
		}
		return TechnicianTable(rows), nil
	case ExportCities:
		rows, err := s.metrics.CityPerformance(r)
		if err != nil {
			return nil, err
		}
		return CityTable(rows), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidReportType, t)
}

// OrdersTable lists every order created within r with its client, city and field technician
func (s *ReportService) OrdersTable(r utils.DateRange) (*Table, error) {
	var rows []orderExportRow
	err := s.db.Model(&models.ServiceOrder{}).
		Select("ordens_servico.numero_os, ordens_servico.status, ordens_servico.data_criacao, " +
			"ordens_servico.data_instalacao, ordens_servico.data_vencimento, " +
			"clientes.nome_completo AS cliente, clientes.endereco, clientes.bairro, " +
			"cidades.nome AS cidade, cidades.uf, tecnicos.nome AS tecnico").
		Joins("JOIN clientes ON clientes.id = ordens_servico.cliente_id").
		Joins("JOIN cidades ON cidades.id = ordens_servico.cidade_id").
		Joins("JOIN tecnicos ON tecnicos.id = ordens_servico.tecnico_campo_id").
		Scopes(CreatedWithin(r)).
		Order("ordens_servico.data_criacao ASC, ordens_servico.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load orders export: %w", err)
	}

	table := &Table{
		Name: "Ordens de Serviço",
		Headers: []string{
			"Número OS", "Status", "Data Criação", "Data Instalação", "Data Vencimento",
			"Cliente", "Endereço", "Bairro", "Cidade", "UF", "Técnico",
		},
		Widths: []float64{1.2, 1.1, 1.1, 1.1, 1.1, 2, 2.2, 1.4, 1.4, 0.5, 1.6},
		Rows:   make([][]interface{}, 0, len(rows)),
	}
	for _, o := range rows {
		created, due := o.DataCriacao, o.DataVencimento
		table.Rows = append(table.Rows, []interface{}{
			o.NumeroOS, o.Status,
			utils.FormatBRDate(&created), utils.FormatBRDate(o.DataInstalacao), utils.FormatBRDate(&due),
			o.Cliente, o.Endereco, o.Bairro, o.Cidade, o.UF, o.Tecnico,
		})
	}
	return table, nil
}

// TechnicianTable renders technician performance rows as a table
func TechnicianTable(rows []TechnicianPerformance) *Table {
	table := &Table{
		Name: "Desempenho Técnicos",
		Headers: []string{
			"Nome", "Identificação Campo", "Identificação App",
			"Total OS", "Total Instaladas", "Taxa Conclusão (%)",
		},
		Widths: []float64{2.5, 1.5, 1.5, 1, 1, 1.2},
		Rows:   make([][]interface{}, 0, len(rows)),
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []interface{}{
			r.Nome, deref(r.IdentificacaoCampo), deref(r.IdentificacaoApp),
			r.TotalOS, r.TotalInstaladas, r.TaxaConclusao,
		})
	}
	return table
}

// CityTable renders city performance rows as a table
func CityTable(rows []CityPerformance) *Table {
	table := &Table{
		Name:    "Desempenho Cidades",
		Headers: []string{"Cidade", "UF", "Região", "Total OS", "Total Instaladas", "Taxa Conclusão (%)"},
		Widths:  []float64{2.5, 0.6, 1.5, 1, 1, 1.2},
		Rows:    make([][]interface{}, 0, len(rows)),
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []interface{}{
			r.Nome, r.UF, deref(r.Regiao), r.TotalOS, r.TotalInstaladas, r.TaxaConclusao,
		})
	}
	return table
}

// AdminSummary gathers totals, status shares and top-5 rankings for orders created within r
func (s *ReportService) AdminSummary(r utils.DateRange) (*AdminSummary, error) {
	breakdown, err := s.metrics.StatusBreakdown(OrderFilter{Created: r})
	if err != nil {
		return nil, err
	}

	summary := &AdminSummary{Period: utils.PeriodLabel(r), Total: breakdown.Total}
	for _, status := range models.OrderStatuses {
		count := breakdown.ByStatus[status]
		if count == 0 {
			continue
		}
		summary.Statuses = append(summary.Statuses, StatusShare{
			Status:     status,
			Total:      count,
			Percentual: utils.Percentage(count, breakdown.Total),
		})
	}

	techs, err := s.metrics.TechnicianPerformance(r)
	if err != nil {
		return nil, err
	}
	for i, t := range techs {
		if i == TopN {
			break
		}
		summary.TopTechnicians = append(summary.TopTechnicians, RankEntry{Nome: t.Nome, Total: t.TotalOS})
	}

	cities, err := s.metrics.CityPerformance(r)
	if err != nil {
		return nil, err
	}
	for i, c := range cities {
		if i == TopN {
			break
		}
		summary.TopCities = append(summary.TopCities, RankEntry{Nome: c.Nome, UF: c.UF, Total: c.TotalOS})
	}
	return summary, nil
}

// PerformanceTable returns the technicians or cities table of the admin PDF
func (s *ReportService) PerformanceTable(t SummaryType, r utils.DateRange) (*Table, error) {
	switch t {
	case SummaryTechnicians:
		return s.ExportTable(ExportTechnicians, r)
	case SummaryCities:
		return s.ExportTable(ExportCities, r)
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidReportType, t)
}

// ReportFilename builds "<prefix>_YYYYMMDD_HHMMSS.<ext>"
func ReportFilename(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format(utils.FilenameTimestampLayout), ext)
}

func lookupError(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return fmt.Errorf("failed to load %s %d: %w", entity, id, err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
