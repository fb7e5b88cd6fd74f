package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
)

// HandleBindError reports a request that could not be decoded. Malformed
// numbers in form fields are reported per field like any validation failure.
func HandleBindError(c *gin.Context, err error) {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		verr := apperrors.NewValidationError("request", "The "+numErr.Num+" value is not a valid number.")
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(dto.FieldErrorsDetail(verr.Fields)))
		return
	}

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format").
		WithDetails(err.Error())
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// ParseIDParam reads a positive integer path parameter. It writes a 404 and
// returns false when the parameter is not a valid id.
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")))
		return 0, false
	}
	return id, true
}
