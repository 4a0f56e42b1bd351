package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/yumpooma/services"
	"github.com/yeremiapane/yumpooma/utils"
)

var (
	errInternal            = errors.New("internal server error")
	errReservationNotFound = errors.New("reservation not found")
	errBillNotFound        = errors.New("bill not found")
	errInvalidLimit        = errors.New("limit must be a non-negative number")
)

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps service errors to status codes. Anything unknown
// is logged and reported as a 500 without its details.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrReservationConflict):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrMenuNotFound),
		errors.Is(err, services.ErrItemNotInCart),
		errors.Is(err, services.ErrNoSalesData):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrEmptyCart):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondError(c, http.StatusUnauthorized, err)
	default:
		utils.ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		utils.RespondError(c, http.StatusInternalServerError, errInternal)
	}
}
