package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/export"
	"fintrack/internal/money"
	"fintrack/internal/services"
)

// --- mock report service ---

type mockReportService struct {
	summaryFn   func(userID string, year, month *int) (*services.SummaryReport, error)
	dashboardFn func(userID string) (*services.DashboardReport, error)
}

func (m *mockReportService) Summary(userID string, year, month *int) (*services.SummaryReport, error) {
	if m.summaryFn != nil {
		return m.summaryFn(userID, year, month)
	}
	y := 2025
	if year != nil {
		y = *year
	}
	return &services.SummaryReport{
		Period:     services.SummaryPeriod{Year: y, Month: month},
		ByCategory: []services.CategoryTotal{},
		Budgets:    []services.BudgetSummaryItem{},
	}, nil
}

func (m *mockReportService) Dashboard(userID string) (*services.DashboardReport, error) {
	if m.dashboardFn != nil {
		return m.dashboardFn(userID)
	}
	return &services.DashboardReport{}, nil
}

func setupReportRouter(handler *ReportHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("", injectUserID(testUserID))
	g.GET("/summary/", handler.GetSummary)
	g.GET("/summary/export", handler.ExportSummary)
	g.GET("/dashboard/", handler.GetDashboard)
	return r
}

func TestReportHandler_GetSummary(t *testing.T) {
	t.Run("passes year and month", func(t *testing.T) {
		var gotYear, gotMonth *int
		svc := &mockReportService{
			summaryFn: func(_ string, year, month *int) (*services.SummaryReport, error) {
				gotYear, gotMonth = year, month
				return &services.SummaryReport{
					Period: services.SummaryPeriod{Year: *year, Month: month},
					Totals: services.Totals{
						Income:  money.MustParse("3000"),
						Expense: money.MustParse("950"),
						Balance: money.MustParse("2050"),
					},
				}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "GET", "/summary/?year=2025&month=8", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotYear == nil || *gotYear != 2025 || gotMonth == nil || *gotMonth != 8 {
			t.Errorf("unexpected year/month: %v %v", gotYear, gotMonth)
		}
		result := parseJSON(t, rec)
		totals := result["totals"].(map[string]interface{})
		if totals["balance"] != "2050.00" {
			t.Errorf("expected balance \"2050.00\", got %v", totals["balance"])
		}
		period := result["period"].(map[string]interface{})
		if period["month"] != float64(8) {
			t.Errorf("expected month 8, got %v", period["month"])
		}
	})

	t.Run("leaves year and month unset when absent", func(t *testing.T) {
		called := false
		svc := &mockReportService{
			summaryFn: func(_ string, year, month *int) (*services.SummaryReport, error) {
				called = true
				if year != nil || month != nil {
					t.Errorf("expected nil year and month, got %v %v", year, month)
				}
				return &services.SummaryReport{}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "GET", "/summary/", "")

		if rec.Code != http.StatusOK || !called {
			t.Fatalf("expected 200 and a service call, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on a non-numeric month", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))

		rec := doRequest(r, "GET", "/summary/?month=august", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorField(t, parseJSON(t, rec), "month")
	})

	t.Run("returns service validation errors", func(t *testing.T) {
		svc := &mockReportService{
			summaryFn: func(string, *int, *int) (*services.SummaryReport, error) {
				return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"month": "Month must be between 1 and 12."})
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "GET", "/summary/?month=13", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_FAILED")
	})
}

func TestReportHandler_ExportSummary(t *testing.T) {
	t.Run("returns an xlsx attachment", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))

		rec := doRequest(r, "GET", "/summary/export?year=2025&month=8", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != export.ContentType {
			t.Errorf("unexpected content type %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "summary-2025-08.xlsx") {
			t.Errorf("unexpected content disposition %q", cd)
		}

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		if err != nil {
			t.Fatalf("response is not a workbook: %v", err)
		}
		defer f.Close()
		if sheets := f.GetSheetList(); len(sheets) != 3 || sheets[0] != export.SheetSummary {
			t.Errorf("unexpected sheets %v", sheets)
		}
	})

	t.Run("returns JSON errors before writing the file", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))

		rec := doRequest(r, "GET", "/summary/export?year=soon", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorField(t, parseJSON(t, rec), "year")
	})
}

func TestReportHandler_GetDashboard(t *testing.T) {
	t.Run("returns the current month snapshot", func(t *testing.T) {
		var gotUser string
		svc := &mockReportService{
			dashboardFn: func(userID string) (*services.DashboardReport, error) {
				gotUser = userID
				return &services.DashboardReport{
					Period:            services.DashboardPeriod{Start: "2024-02-01", End: "2024-02-29"},
					Income:            money.MustParse("100"),
					Expense:           money.MustParse("40.5"),
					Balance:           money.MustParse("59.5"),
					TransactionsCount: 3,
				}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "GET", "/dashboard/", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUser != testUserID {
			t.Errorf("expected user %s, got %s", testUserID, gotUser)
		}
		result := parseJSON(t, rec)
		period := result["period"].(map[string]interface{})
		if period["end"] != "2024-02-29" {
			t.Errorf("expected end 2024-02-29, got %v", period["end"])
		}
		if result["balance"] != "59.50" || result["transactions_count"] != float64(3) {
			t.Errorf("unexpected dashboard: %v", result)
		}
	})

	t.Run("returns 500 without leaking the cause", func(t *testing.T) {
		svc := &mockReportService{
			dashboardFn: func(string) (*services.DashboardReport, error) {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, errors.New("sum failed"))
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "GET", "/dashboard/", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "sum failed") {
			t.Error("internal error detail leaked to the client")
		}
	})
}
