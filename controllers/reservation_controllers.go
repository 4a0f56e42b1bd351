package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/yumpooma/services"
	"github.com/yeremiapane/yumpooma/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: reservations}
}

// CreateReservation -> public booking form
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req services.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Reservations.Book(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation received", reservation)
}

// CheckAvailability -> ?date=YYYY-MM-DD&time=HH:MM&table_no=N
func (rc *ReservationController) CheckAvailability(c *gin.Context) {
	var tableNo *int
	if raw := c.Query("table_no"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("table_no must be a number"))
			return
		}
		tableNo = &n
	}

	conflict, err := rc.Reservations.HasConflict(c.Request.Context(), c.Query("date"), tableNo, c.Query("time"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation availability", gin.H{
		"date":      c.Query("date"),
		"time":      c.Query("time"),
		"table_no":  tableNo,
		"available": !conflict,
		"policy":    rc.Reservations.Policy(),
	})
}

// GetAllReservations -> optional ?date=YYYY-MM-DD
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	reservations, err := rc.Reservations.List(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "reservation_id")
	if !ok {
		return
	}
	deleted, err := rc.Reservations.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !deleted {
		utils.RespondError(c, http.StatusNotFound, errReservationNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation deleted successfully", nil)
}

func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "reservation_id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Reservations.UpdateStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if reservation == nil {
		utils.RespondError(c, http.StatusNotFound, errReservationNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation status updated", reservation)
}
