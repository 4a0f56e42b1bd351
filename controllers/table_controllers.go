package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/yumpooma/services"
	"github.com/yeremiapane/yumpooma/utils"
)

type TableController struct {
	QR *services.TableQRCode
}

func NewTableController(qr *services.TableQRCode) *TableController {
	return &TableController{QR: qr}
}

// GetTableQRCode -> PNG that opens the menu for the table
func (tc *TableController) GetTableQRCode(c *gin.Context) {
	tableNo, err := strconv.Atoi(c.Param("table_no"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, &services.ValidationError{Field: "table_no", Message: "must be a number"})
		return
	}
	png, err := tc.QR.Generate(tableNo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}
