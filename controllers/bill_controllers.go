package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/yumpooma/database"
	"github.com/yeremiapane/yumpooma/utils"
)

const defaultBillLimit = 50

type BillController struct {
	Gateway *database.Gateway
}

func NewBillController(gateway *database.Gateway) *BillController {
	return &BillController{Gateway: gateway}
}

func (bc *BillController) GetBill(c *gin.Context) {
	id, ok := parseIDParam(c, "bill_id")
	if !ok {
		return
	}
	bill, err := bc.Gateway.GetBill(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if bill == nil {
		utils.RespondError(c, http.StatusNotFound, errBillNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill detail", bill)
}

// GetAllBills -> newest first, ?limit= (default 50, 0 for all)
func (bc *BillController) GetAllBills(c *gin.Context) {
	limit := defaultBillLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.RespondError(c, http.StatusBadRequest, errInvalidLimit)
			return
		}
		limit = n
	}

	bills, err := bc.Gateway.ListBills(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bills", bills)
}
