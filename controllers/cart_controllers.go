package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/yumpooma/models"
	"github.com/yeremiapane/yumpooma/services"
	"github.com/yeremiapane/yumpooma/utils"
)

const cartCookie = "cart_session"

type CartController struct {
	Carts        *services.CartService
	TTL          time.Duration
	SecureCookie bool
}

func NewCartController(carts *services.CartService, ttl time.Duration, secure bool) *CartController {
	return &CartController{Carts: carts, TTL: ttl, SecureCookie: secure}
}

// sessionID returns the caller's cart session, issuing a new one when the
// cookie is missing or malformed.
func (cc *CartController) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(cartCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cartCookie, id, int(cc.TTL.Seconds()), "/", "", cc.SecureCookie, true)
	return id
}

func (cc *CartController) GetCart(c *gin.Context) {
	cart, err := cc.Carts.Get(c.Request.Context(), cc.sessionID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart", cart)
}

func (cc *CartController) AddItem(c *gin.Context) {
	menuID, ok := parseIDParam(c, "menu_id")
	if !ok {
		return
	}
	cart, err := cc.Carts.Add(c.Request.Context(), cc.sessionID(c), menuID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item added to cart", cart)
}

// UpdateItem -> action=increase|decrease, from the JSON body or the query
func (cc *CartController) UpdateItem(c *gin.Context) {
	menuID, ok := parseIDParam(c, "menu_id")
	if !ok {
		return
	}
	var body struct {
		Action string `json:"action" form:"action"`
	}
	if err := c.ShouldBind(&body); err != nil || body.Action == "" {
		body.Action = c.Query("action")
	}

	ctx := c.Request.Context()
	sessionID := cc.sessionID(c)
	var (
		cart models.Cart
		err  error
	)
	switch body.Action {
	case "increase":
		cart, err = cc.Carts.Increase(ctx, sessionID, menuID)
	case "decrease":
		cart, err = cc.Carts.Decrease(ctx, sessionID, menuID)
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("action must be increase or decrease"))
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart updated", cart)
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	menuID, ok := parseIDParam(c, "menu_id")
	if !ok {
		return
	}
	cart, err := cc.Carts.Remove(c.Request.Context(), cc.sessionID(c), menuID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed from cart", cart)
}

// ConfirmOrder records the cart as a bill for the table and empties it.
func (cc *CartController) ConfirmOrder(c *gin.Context) {
	var body struct {
		TableNo int `json:"table_no" form:"table_no" binding:"required"`
	}
	if err := c.ShouldBind(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table_no is required"))
		return
	}

	bill, err := cc.Carts.Checkout(c.Request.Context(), cc.sessionID(c), body.TableNo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order confirmed", bill)
}
