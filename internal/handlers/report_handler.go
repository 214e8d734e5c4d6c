package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"fintrack/internal/export"
	"fintrack/internal/services"
)

// ReportHandler serves the summary and dashboard reports.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// summary parses the year/month query and builds the report.
func (h *ReportHandler) summary(c *gin.Context) (*services.SummaryReport, error) {
	userID, err := getUserID(c)
	if err != nil {
		return nil, err
	}
	year, err := queryInt(c, "year")
	if err != nil {
		return nil, err
	}
	month, err := queryInt(c, "month")
	if err != nil {
		return nil, err
	}
	return h.reportService.Summary(userID, year, month)
}

// GetSummary handles the income/expense summary for a year or month.
// @Summary     Get summary
// @Description Totals, per-category breakdown and budget utilization for a year, or one month of it
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       year  query int false "Year (default current year)"
// @Param       month query int false "Month 1-12"
// @Success     200 {object} services.SummaryReport "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary/ [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	report, err := h.summary(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportSummary handles downloading the summary as a spreadsheet.
// @Summary     Export summary
// @Description The summary report as an .xlsx workbook
// @Tags        reports
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       year  query int false "Year (default current year)"
// @Param       month query int false "Month 1-12"
// @Success     200 {file} file "Workbook"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary/export [get]
func (h *ReportHandler) ExportSummary(c *gin.Context) {
	report, err := h.summary(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	f, err := export.SummaryWorkbook(report)
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer f.Close()

	filename := export.SummaryFilename(report.Period)
	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", "attachment; filename="+filename+"; filename*=UTF-8''"+url.PathEscape(filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		c.Error(err) //nolint:errcheck // headers are already sent
	}
}

// GetDashboard handles the snapshot of the current month.
// @Summary     Get dashboard
// @Description Income, expense, balance and transaction count for the current calendar month
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardReport "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/ [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.Dashboard(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
