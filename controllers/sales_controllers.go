package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/yumpooma/services"
	"github.com/yeremiapane/yumpooma/utils"
)

type SalesController struct {
	Sales *services.SalesService
	Now   func() time.Time
}

func NewSalesController(sales *services.SalesService) *SalesController {
	return &SalesController{Sales: sales, Now: time.Now}
}

// reportDay reads ?date=, defaulting to today.
func (sc *SalesController) reportDay(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return sc.Now(), true
	}
	day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, &services.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return day, true
}

func (sc *SalesController) GetReport(c *gin.Context) {
	day, ok := sc.reportDay(c)
	if !ok {
		return
	}
	report, err := sc.Sales.Report(c.Request.Context(), day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sales report", report)
}

func (sc *SalesController) GetDailySales(c *gin.Context) {
	day, ok := sc.reportDay(c)
	if !ok {
		return
	}
	daily, err := sc.Sales.Daily(c.Request.Context(), day.Format("2006-01-02"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Daily sales", daily)
}

func (sc *SalesController) GetMonthlySales(c *gin.Context) {
	months, err := sc.Sales.Monthly(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Monthly sales", months)
}

func (sc *SalesController) GetTopMenus(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		utils.RespondError(c, http.StatusBadRequest, errInvalidLimit)
		return
	}
	top, err := sc.Sales.TopMenus(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Best selling menus", top)
}

func (sc *SalesController) DownloadReportPDF(c *gin.Context) {
	day, ok := sc.reportDay(c)
	if !ok {
		return
	}
	report, err := sc.Sales.Report(c.Request.Context(), day)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := sc.Sales.ExportPDF(&buf, report); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="sales-report-%s.pdf"`, day.Format("2006-01-02")))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (sc *SalesController) MonthlyChart(c *gin.Context) {
	months, err := sc.Sales.Monthly(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := sc.Sales.MonthlyChartPNG(&buf, months); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
