package router

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/yumpooma/controllers"
	"github.com/yeremiapane/yumpooma/database"
	"github.com/yeremiapane/yumpooma/kds"
	"github.com/yeremiapane/yumpooma/middlewares"
	"github.com/yeremiapane/yumpooma/services"
	"github.com/yeremiapane/yumpooma/utils"
)

// Dependencies is everything the HTTP layer needs, built once in main.
type Dependencies struct {
	Gateway      *database.Gateway
	Reservations *services.ReservationService
	Carts        *services.CartService
	Sales        *services.SalesService
	Auth         *services.AuthService
	Images       *services.ImageStore
	QR           *services.TableQRCode
	Hub          *kds.Hub
	Tokens       *utils.TokenManager

	UploadDir          string
	CORSOrigins        []string
	CartTTL            time.Duration
	TokenTTL           time.Duration
	SecureCookies      bool
	LoginRatePerMinute int
}

var imageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// imagesOnly keeps /uploads from serving anything but pictures.
func imagesOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") &&
			!imageExt[strings.ToLower(filepath.Ext(c.Request.URL.Path))] {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(deps.SecureCookies))
	r.Use(imagesOnly())

	if deps.UploadDir != "" {
		r.Static("/uploads", deps.UploadDir)
	}

	menuCtrl := controllers.NewMenuController(deps.Gateway, deps.Images, deps.Hub)
	reservationCtrl := controllers.NewReservationController(deps.Reservations)
	cartCtrl := controllers.NewCartController(deps.Carts, deps.CartTTL, deps.SecureCookies)
	billCtrl := controllers.NewBillController(deps.Gateway)
	adminCtrl := controllers.NewAdminController(deps.Auth, deps.TokenTTL, deps.SecureCookies)
	salesCtrl := controllers.NewSalesController(deps.Sales)
	tableCtrl := controllers.NewTableController(deps.QR)
	kdsCtrl := controllers.NewKDSController(deps.Hub, deps.CORSOrigins)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/categories", menuCtrl.GetCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/:menu_id", menuCtrl.GetMenuByID)

	r.POST("/reservations", reservationCtrl.CreateReservation)
	r.GET("/reservations/availability", reservationCtrl.CheckAvailability)

	r.GET("/cart", cartCtrl.GetCart)
	r.POST("/cart/items/:menu_id", cartCtrl.AddItem)
	r.PATCH("/cart/items/:menu_id", cartCtrl.UpdateItem)
	r.DELETE("/cart/items/:menu_id", cartCtrl.RemoveItem)
	r.POST("/cart/confirm", cartCtrl.ConfirmOrder)

	r.GET("/bills/:bill_id", billCtrl.GetBill)
	r.GET("/tables/:table_no/qrcode", tableCtrl.GetTableQRCode)

	loginLimiter := middlewares.NewRateLimiter(deps.LoginRatePerMinute)
	r.POST("/admin/login", loginLimiter.RateLimit(), adminCtrl.Login)

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware(deps.Tokens))

	auth.POST("/logout", adminCtrl.Logout)
	auth.GET("/profile", adminCtrl.Profile)

	// MENUS
	auth.GET("/menus", menuCtrl.GetAllMenus)
	auth.POST("/menus", menuCtrl.CreateMenu)
	auth.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	auth.PUT("/menus/:menu_id", menuCtrl.UpdateMenu)
	auth.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

	// RESERVATIONS
	auth.GET("/reservations", reservationCtrl.GetAllReservations)
	auth.PATCH("/reservations/:reservation_id", reservationCtrl.UpdateReservationStatus)
	auth.DELETE("/reservations/:reservation_id", reservationCtrl.DeleteReservation)

	// BILLS & SALES
	auth.GET("/bills", billCtrl.GetAllBills)
	auth.GET("/bills/:bill_id", billCtrl.GetBill)
	auth.GET("/sales/report", salesCtrl.GetReport)
	auth.GET("/sales/report.pdf", salesCtrl.DownloadReportPDF)
	auth.GET("/sales/daily", salesCtrl.GetDailySales)
	auth.GET("/sales/monthly", salesCtrl.GetMonthlySales)
	auth.GET("/sales/monthly.png", salesCtrl.MonthlyChart)
	auth.GET("/sales/top-menus", salesCtrl.GetTopMenus)

	// Kitchen display
	auth.GET("/kds/ws", kdsCtrl.KDSHandler)

	return r
}
