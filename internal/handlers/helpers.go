package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/money"
	"fintrack/internal/services"
	"fintrack/internal/uuid"
	"fintrack/internal/validator"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString("userID")
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// moneyFielder is implemented by request bodies carrying an amount, so a
// malformed amount can be reported against the right field.
type moneyFielder interface {
	moneyField() string
}

// bindJSON decodes and validates a JSON body. Validation failures become a
// VALIDATION_FAILED error with one message per field.
func bindJSON(c *gin.Context, obj interface{}) error {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}
	if fields, ok := validator.FieldErrors(err); ok {
		return apperrors.WithFields(apperrors.ErrValidation, fields)
	}
	if isMoneyError(err) {
		field := "amount"
		if mf, ok := obj.(moneyFielder); ok {
			field = mf.moneyField()
		}
		return apperrors.WithFields(apperrors.ErrValidation, map[string]string{field: err.Error()})
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.WithFields(apperrors.ErrValidation, map[string]string{
			typeErr.Field: "Expected " + typeErr.Type.String() + ".",
		})
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// bindQuery binds query parameters the same way bindJSON binds bodies.
func bindQuery(c *gin.Context, obj interface{}) error {
	err := c.ShouldBindQuery(obj)
	if err == nil {
		return nil
	}
	if fields, ok := validator.FieldErrors(err); ok {
		return apperrors.WithFields(apperrors.ErrInvalidInput, fields)
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

func isMoneyError(err error) bool {
	return errors.Is(err, money.ErrInvalidAmount) ||
		errors.Is(err, money.ErrTooPrecise) ||
		errors.Is(err, money.ErrOutOfRange)
}

// parseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func parseDate(s string) (time.Time, error) {
	return time.Parse(services.DateLayout, s)
}

// queryDate parses an optional date query parameter. Bad input is reported
// under the parameter name.
func queryDate(c *gin.Context, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	d, err := parseDate(v)
	if err != nil {
		return nil, apperrors.WithFields(apperrors.ErrInvalidInput, map[string]string{
			name: "Date has wrong format. Use YYYY-MM-DD.",
		})
	}
	return &d, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(c *gin.Context, name string) (*int, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, apperrors.WithFields(apperrors.ErrInvalidInput, map[string]string{
			name: "A valid integer is required.",
		})
	}
	return &n, nil
}

// queryAmount parses an optional money query parameter.
func queryAmount(c *gin.Context, name string) (*money.Amount, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	a, err := money.Parse(v)
	if err != nil {
		return nil, apperrors.WithFields(apperrors.ErrInvalidInput, map[string]string{name: err.Error()})
	}
	return &a, nil
}

// Optional is a JSON field that tells an explicit null apart from an
// absent key. Set is true whenever the key was present.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON records presence and decodes the value unless it is null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, message and field details.
// Otherwise it logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{"error": appErr})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{"error": apperrors.ErrInternalServer})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
