package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// BudgetRequest represents the payload for creating or replacing a budget.
// A missing category means the budget covers every expense category; a
// missing period means MONTH.
type BudgetRequest struct {
	Category *string       `json:"category" binding:"omitempty,uuid"`
	Period   string        `json:"period" binding:"omitempty,budget_period"`
	Year     int           `json:"year" binding:"required,min=1,max=9999"`
	Month    *int          `json:"month" binding:"omitempty,min=1,max=12"`
	Limit    *money.Amount `json:"limit" binding:"required" swaggertype:"string" example:"200.00"`
}

func (BudgetRequest) moneyField() string { return "limit" }

// PatchBudgetRequest represents the payload for partially updating a budget.
// Category and month may be set to null explicitly.
type PatchBudgetRequest struct {
	Category Optional[string] `json:"category" swaggertype:"string"`
	Period   *string          `json:"period" binding:"omitempty,budget_period"`
	Year     *int             `json:"year" binding:"omitempty,min=1,max=9999"`
	Month    Optional[int]    `json:"month" swaggertype:"integer"`
	Limit    *money.Amount    `json:"limit" swaggertype:"string" example:"200.00"`
}

func (PatchBudgetRequest) moneyField() string { return "limit" }

// BudgetListQuery holds pagination and the list filters for budgets.
type BudgetListQuery struct {
	pagination.PageRequest
	Period string `form:"period" binding:"omitempty,budget_period"`
	Year   *int   `form:"year" binding:"omitempty,min=1,max=9999"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a monthly or yearly spending limit, optionally scoped to one category
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BudgetRequest true "Budget details"
// @Success     201 {object} services.BudgetView "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate budget"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/ [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.CreateBudget(userID, services.BudgetInput{
		CategoryID: req.Category,
		Period:     models.BudgetPeriod(req.Period),
		Year:       req.Year,
		Month:      req.Month,
		Limit:      *req.Limit,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"limit": budget.Limit.String(), "period": budget.Period, "year": budget.Year})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles listing budgets for the authenticated user.
// @Summary     Get budgets
// @Description Get a paginated list of budgets with their utilization, most recent period first
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       period    query string false "Filter by period (MONTH/YEAR)"
// @Param       year      query int    false "Filter by year"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[services.BudgetView] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/ [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query BudgetListQuery
	if err := bindQuery(c, &query); err != nil {
		respondWithError(c, err)
		return
	}

	filter := services.BudgetFilter{Year: query.Year}
	if query.Period != "" {
		p := models.BudgetPeriod(query.Period)
		filter.Period = &p
	}

	result, err := h.budgetService.GetUserBudgets(userID, filter, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Description Get a budget with its utilized and remaining amounts
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} services.BudgetView "Budget"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     403 {object} ErrorResponse "Not your budget"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/ [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// ReplaceBudget handles a full update of a budget.
// @Summary     Replace budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "Budget ID"
// @Param       request body BudgetRequest true "Budget details"
// @Success     200 {object} services.BudgetView "Budget updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not your budget"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Duplicate budget"
// @Router      /budgets/{id}/ [put]
func (h *BudgetHandler) ReplaceBudget(c *gin.Context) {
	var req BudgetRequest
	h.update(c, &req, func() services.BudgetPatch {
		period := models.BudgetPeriod(req.Period)
		if period == "" {
			period = models.BudgetPeriodMonth
		}
		return services.BudgetPatch{
			SetCategory: true,
			CategoryID:  req.Category,
			Period:      &period,
			Year:        &req.Year,
			SetMonth:    true,
			Month:       req.Month,
			Limit:       req.Limit,
		}
	})
}

// UpdateBudget handles a partial update of a budget.
// @Summary     Update budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Budget ID"
// @Param       request body PatchBudgetRequest true "Fields to change"
// @Success     200 {object} services.BudgetView "Budget updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not your budget"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Duplicate budget"
// @Router      /budgets/{id}/ [patch]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	var req PatchBudgetRequest
	h.update(c, &req, func() services.BudgetPatch {
		patch := services.BudgetPatch{
			SetCategory: req.Category.Set,
			CategoryID:  req.Category.Value,
			Year:        req.Year,
			SetMonth:    req.Month.Set,
			Month:       req.Month.Value,
			Limit:       req.Limit,
		}
		if req.Period != nil {
			p := models.BudgetPeriod(*req.Period)
			patch.Period = &p
		}
		return patch
	})
}

func (h *BudgetHandler) update(c *gin.Context, req interface{}, toPatch func() services.BudgetPatch) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := bindJSON(c, req); err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.UpdateBudget(userID, budgetID, toPatch())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"limit": budget.Limit.String(), "period": budget.Period, "year": budget.Year})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Tags        budgets
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     204 "Budget deleted"
// @Failure     403 {object} ErrorResponse "Not your budget"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/ [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
