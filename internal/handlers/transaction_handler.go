package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles transaction-related requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// TransactionRequest represents the payload for creating or replacing a transaction
type TransactionRequest struct {
	Category    string        `json:"category" binding:"required,uuid"`
	Type        string        `json:"choice_type" binding:"required,entry_type"`
	Amount      *money.Amount `json:"amount" binding:"required" swaggertype:"string" example:"50.00"`
	Date        string        `json:"date" binding:"required,datetime=2006-01-02" example:"2025-08-10"`
	Description string        `json:"description" binding:"max=255"`
}

func (TransactionRequest) moneyField() string { return "amount" }

// PatchTransactionRequest represents the payload for partially updating a transaction
type PatchTransactionRequest struct {
	Category    *string       `json:"category" binding:"omitempty,uuid"`
	Type        *string       `json:"choice_type" binding:"omitempty,entry_type"`
	Amount      *money.Amount `json:"amount" swaggertype:"string" example:"50.00"`
	Date        *string       `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Description *string       `json:"description" binding:"omitempty,max=255"`
}

func (PatchTransactionRequest) moneyField() string { return "amount" }

// TransactionResponse is a transaction as returned to clients. Date is a
// calendar date without a time component.
type TransactionResponse struct {
	ID          string           `json:"id"`
	Category    string           `json:"category"`
	Type        models.EntryType `json:"choice_type"`
	Amount      money.Amount     `json:"amount" swaggertype:"string" example:"50.00"`
	Date        string           `json:"date" example:"2025-08-10"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func newTransactionResponse(t models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Category:    t.CategoryID,
		Type:        t.Type,
		Amount:      t.Amount,
		Date:        t.Date.UTC().Format(services.DateLayout),
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TransactionListQuery holds pagination and the scalar list filters
type TransactionListQuery struct {
	pagination.PageRequest
	Type     string `form:"choice_type" binding:"omitempty,entry_type"`
	Category string `form:"category" binding:"omitempty,uuid"`
	Search   string `form:"search" binding:"max=255"`
	Ordering string `form:"ordering"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record an income or expense. The type must match the category's type.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} TransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/ [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	date, _ := parseDate(req.Date)

	transaction, err := h.transactionService.CreateTransaction(userID, services.TransactionInput{
		CategoryID:  req.Category,
		Type:        models.EntryType(req.Type),
		Amount:      *req.Amount,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"amount": transaction.Amount.String(), "choice_type": transaction.Type})

	c.JSON(http.StatusCreated, gin.H{"transaction": newTransactionResponse(*transaction)})
}

// GetUserTransactions handles listing the authenticated user's transactions
// @Summary     List transactions
// @Description Get a paginated, filtered list of transactions, newest first by default
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       date_from   query string false "Earliest date (YYYY-MM-DD, inclusive)"
// @Param       date_to     query string false "Latest date (YYYY-MM-DD, inclusive)"
// @Param       min_amount  query string false "Minimum amount"
// @Param       max_amount  query string false "Maximum amount"
// @Param       choice_type query string false "Filter by type (INCOME/EXPENSE)"
// @Param       category    query string false "Filter by category ID"
// @Param       search      query string false "Case-insensitive description search"
// @Param       ordering    query string false "Comma separated: date, amount, created_at; prefix - for descending"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[TransactionResponse] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/ [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query TransactionListQuery
	if err := bindQuery(c, &query); err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := transactionFilter(c, query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.MapPage(result, newTransactionResponse))
}

func transactionFilter(c *gin.Context, q TransactionListQuery) (services.TransactionFilter, error) {
	filter := services.TransactionFilter{Search: q.Search, Ordering: q.Ordering}
	if q.Type != "" {
		t := models.EntryType(q.Type)
		filter.Type = &t
	}
	if q.Category != "" {
		filter.CategoryID = &q.Category
	}

	var err error
	if filter.FromDate, err = queryDate(c, "date_from"); err != nil {
		return filter, err
	}
	if filter.ToDate, err = queryDate(c, "date_to"); err != nil {
		return filter, err
	}
	if filter.MinAmount, err = queryAmount(c, "min_amount"); err != nil {
		return filter, err
	}
	if filter.MaxAmount, err = queryAmount(c, "max_amount"); err != nil {
		return filter, err
	}
	if filter.FromDate != nil && filter.ToDate != nil && filter.ToDate.Before(*filter.FromDate) {
		return filter, apperrors.WithFields(apperrors.ErrInvalidInput, map[string]string{
			"date_to": "date_to must not be before date_from.",
		})
	}
	return filter, nil
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     403 {object} ErrorResponse "Not your transaction"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id}/ [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": newTransactionResponse(*transaction)})
}

// ReplaceTransaction handles a full update of a transaction
// @Summary     Replace transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Transaction ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {object} TransactionResponse "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not your transaction"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id}/ [put]
func (h *TransactionHandler) ReplaceTransaction(c *gin.Context) {
	var req TransactionRequest
	h.update(c, &req, func() services.TransactionPatch {
		t := models.EntryType(req.Type)
		date, _ := parseDate(req.Date)
		return services.TransactionPatch{
			CategoryID:  &req.Category,
			Type:        &t,
			Amount:      req.Amount,
			Date:        &date,
			Description: &req.Description,
		}
	})
}

// UpdateTransaction handles a partial update of a transaction
// @Summary     Update transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Transaction ID"
// @Param       request body PatchTransactionRequest true "Fields to change"
// @Success     200 {object} TransactionResponse "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not your transaction"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id}/ [patch]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	var req PatchTransactionRequest
	h.update(c, &req, func() services.TransactionPatch {
		patch := services.TransactionPatch{
			CategoryID:  req.Category,
			Amount:      req.Amount,
			Description: req.Description,
		}
		if req.Type != nil {
			t := models.EntryType(*req.Type)
			patch.Type = &t
		}
		if req.Date != nil {
			date, _ := parseDate(*req.Date)
			patch.Date = &date
		}
		return patch
	})
}

func (h *TransactionHandler) update(c *gin.Context, req interface{}, toPatch func() services.TransactionPatch) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := bindJSON(c, req); err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, toPatch())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"amount": transaction.Amount.String(), "choice_type": transaction.Type})

	c.JSON(http.StatusOK, gin.H{"transaction": newTransactionResponse(*transaction)})
}

// DeleteTransaction handles deleting a transaction
// @Summary     Delete transaction
// @Tags        transactions
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     403 {object} ErrorResponse "Not your transaction"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id}/ [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
