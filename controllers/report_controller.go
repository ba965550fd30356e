package controllers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/instalacoes-api/config"
	"github.com/kendall-kelly/instalacoes-api/middleware"
	"github.com/kendall-kelly/instalacoes-api/services"
	"github.com/kendall-kelly/instalacoes-api/utils"
)

// Response headers describing the archived copy of a report
const (
	ArchiveKeyHeader = "X-Report-Archive-Key"
	ArchiveURLHeader = "X-Report-Archive-URL"
)

const (
	pdfContentType  = "application/pdf"
	csvContentType  = "text/csv; charset=utf-8"
	htmlContentType = "text/html; charset=utf-8"
)

// GetPendingOrdersReport handles GET /api/relatorios/tecnicos/pdf - every
// order not yet installed, optionally for one technician and/or city.
// formato=html returns the printable HTML instead of the PDF.
func GetPendingOrdersReport(c *gin.Context) {
	format := c.DefaultQuery("formato", "pdf")
	if format != "pdf" && format != "html" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "formato must be pdf or html")
		return
	}

	var filter services.PendingOrdersFilter
	var ok bool
	if filter.TechnicianID, ok = parseOptionalUintQuery(c, "tecnico_id"); !ok {
		return
	}
	if filter.CityID, ok = parseOptionalUintQuery(c, "cidade_id"); !ok {
		return
	}

	report, err := services.NewReportService(config.GetDB()).PendingOrders(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	now := time.Now()
	sendDocument(c, "os_pendentes", format, "relatorio_os_pendentes", report.Document(now), now)
}

// ExportAdminReport handles GET /api/relatorios/admin/csv - tipo os (default),
// tecnicos or cidades over an optional creation-date range. formato=xlsx
// returns the same dataset as an Excel workbook.
func ExportAdminReport(c *gin.Context) {
	tipo := c.Query("tipo")
	exportType, err := services.ParseExportType(tipo)
	if err != nil {
		respondInvalidReportType(c, tipo)
		return
	}
	format := c.DefaultQuery("formato", "csv")
	if format != "csv" && format != "xlsx" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "formato must be csv or xlsx")
		return
	}
	created, ok := parseDateRangeQuery(c)
	if !ok {
		return
	}

	table, err := services.NewReportService(config.GetDB()).ExportTable(exportType, created)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	contentType := csvContentType
	if format == "xlsx" {
		contentType = services.XLSXContentType
		err = services.WriteXLSX(&buf, table)
	} else {
		err = services.WriteCSV(&buf, table)
	}
	if err != nil {
		middleware.RequestLogger(c).WithError(err).Error("Failed to render export")
		respondError(c, http.StatusInternalServerError, "REPORT_ERROR", "Failed to generate report")
		return
	}

	now := time.Now()
	filename := services.ReportFilename(exportType.FilenamePrefix(), format, now)
	sendAttachment(c, "admin_"+string(exportType), format, filename, contentType, buf.Bytes(), now)
}

// GetAdminPDFReport handles GET /api/relatorios/admin/pdf - tipo resumo
// (default), tecnicos or cidades over an optional creation-date range
func GetAdminPDFReport(c *gin.Context) {
	tipo := c.Query("tipo")
	summaryType, err := services.ParseSummaryType(tipo)
	if err != nil {
		respondInvalidReportType(c, tipo)
		return
	}
	format := c.DefaultQuery("formato", "pdf")
	if format != "pdf" && format != "html" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "formato must be pdf or html")
		return
	}
	created, ok := parseDateRangeQuery(c)
	if !ok {
		return
	}

	reports := services.NewReportService(config.GetDB())
	now := time.Now()

	var doc *services.Document
	if summaryType == services.SummaryOverview {
		summary, err := reports.AdminSummary(created)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		doc = summary.Document(now)
	} else {
		table, err := reports.PerformanceTable(summaryType, created)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		doc = services.PerformanceDocument(summaryType, utils.PeriodLabel(created), table, now)
	}

	sendDocument(c, "admin_"+string(summaryType), format, "relatorio_administrativo_"+string(summaryType), doc, now)
}

// GetTechnicianPerformanceReport handles GET /api/relatorios/desempenho/tecnicos
func GetTechnicianPerformanceReport(c *gin.Context) {
	created, ok := parseDateRangeQuery(c)
	if !ok {
		return
	}
	rows, err := services.NewMetricsService(config.GetDB()).TechnicianPerformance(created)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute technician performance")
		return
	}
	respondData(c, http.StatusOK, rows)
}

// GetCityPerformanceReport handles GET /api/relatorios/desempenho/cidades
func GetCityPerformanceReport(c *gin.Context) {
	created, ok := parseDateRangeQuery(c)
	if !ok {
		return
	}
	rows, err := services.NewMetricsService(config.GetDB()).CityPerformance(created)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute city performance")
		return
	}
	respondData(c, http.StatusOK, rows)
}

func respondInvalidReportType(c *gin.Context, tipo string) {
	respondError(c, http.StatusBadRequest, "INVALID_REPORT_TYPE", "Tipo de relatório inválido: "+tipo)
}

// sendDocument renders doc as PDF or HTML and sends it as an attachment
func sendDocument(c *gin.Context, report, format, prefix string, doc *services.Document, now time.Time) {
	var buf bytes.Buffer
	var err error
	contentType := pdfContentType
	if format == "html" {
		contentType = htmlContentType
		err = services.WriteHTML(&buf, doc)
	} else {
		err = services.WritePDF(&buf, doc)
	}
	if err != nil {
		middleware.RequestLogger(c).WithError(err).Error("Failed to render report")
		respondError(c, http.StatusInternalServerError, "REPORT_ERROR", "Failed to generate report")
		return
	}

	sendAttachment(c, report, format, services.ReportFilename(prefix, format, now), contentType, buf.Bytes(), now)
}

// sendAttachment writes body as a download, archiving a copy when object
// storage is configured. Archive failures are logged and do not fail the request.
func sendAttachment(c *gin.Context, report, format, filename, contentType string, body []byte, now time.Time) {
	archived, err := services.ArchiveReport(c.Request.Context(), filename, contentType, body, now)
	if err != nil {
		middleware.RequestLogger(c).WithError(err).WithField("filename", filename).Warn("Report archive failed")
	}
	if archived != nil {
		c.Header(ArchiveKeyHeader, archived.Key)
		if archived.URL != "" {
			c.Header(ArchiveURLHeader, archived.URL)
		}
	}

	middleware.ReportsGenerated.WithLabelValues(report, format).Inc()
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, body)
}
