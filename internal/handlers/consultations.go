package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"sehat-sathi-server/internal/booking"
	"sehat-sathi-server/internal/middleware"
	"sehat-sathi-server/internal/models"
	"sehat-sathi-server/internal/repository"
	"sehat-sathi-server/internal/utils"
)

// ConsultationHandler handles consultation booking requests.
type ConsultationHandler struct {
	Booking        *booking.Service
	SuccessDisplay time.Duration
}

// NewConsultationHandler creates a new ConsultationHandler.
func NewConsultationHandler(svc *booking.Service, successDisplay time.Duration) *ConsultationHandler {
	return &ConsultationHandler{Booking: svc, SuccessDisplay: successDisplay}
}

// BookConsultationRequest represents the booking form.
type BookConsultationRequest struct {
	Date             string `json:"date" binding:"required"`
	Time             string `json:"time" binding:"required"`
	Type             string `json:"type" binding:"required,oneof=video audio chat"`
	Symptoms         string `json:"symptoms" binding:"required"`
	DoctorPreference string `json:"doctorPreference"`
	IsEmergency      bool   `json:"isEmergency"`
}

// BookConsultationResponse acknowledges a booking.
type BookConsultationResponse struct {
	Consultation     *models.Consultation `json:"consultation"`
	SuccessDisplayMs int64                `json:"successDisplayMs"`
}

// BookConsultation books a consultation for the current user.
func (h *ConsultationHandler) BookConsultation(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return
	}

	var req BookConsultationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	consultation, err := h.Booking.Book(c.Request.Context(), userID, booking.BookingRequest{
		Date:             req.Date,
		Time:             req.Time,
		Type:             models.ConsultationType(req.Type),
		Symptoms:         req.Symptoms,
		DoctorPreference: req.DoctorPreference,
		IsEmergency:      req.IsEmergency,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	utils.Created(c, "Consultation booked successfully", BookConsultationResponse{
		Consultation:     consultation,
		SuccessDisplayMs: h.SuccessDisplay.Milliseconds(),
	})
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidBooking):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, booking.ErrSlotUnavailable):
		utils.Conflict(c, "This time slot is already booked. Please choose another slot.")
	case errors.Is(err, booking.ErrNotConfirmed):
		utils.ServiceUnavailable(c, "Booking could not be confirmed. Please try again.")
	case errors.Is(err, booking.ErrInvalidTransition):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		utils.NotFound(c, "Consultation not found")
	default:
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to process consultation: "+err.Error())
	}
}

// GetConsultations lists the current user's consultations.
func (h *ConsultationHandler) GetConsultations(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return
	}
	consultations, err := h.Booking.List(c.Request.Context(), userID)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	utils.Success(c, "Consultations retrieved successfully", consultations)
}

// GetAvailability returns the slot grid for the date query parameter.
func (h *ConsultationHandler) GetAvailability(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return
	}
	grid, err := h.Booking.Availability(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	utils.Success(c, "Availability retrieved successfully", grid)
}

// GetHistory returns the consultation history, filtered by the search query.
func (h *ConsultationHandler) GetHistory(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return
	}
	entries, err := h.Booking.History(c.Request.Context(), userID, c.Query("search"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	utils.Success(c, "Consultation history retrieved successfully", entries)
}

// GetConsultationByID returns one consultation of the current user.
func (h *ConsultationHandler) GetConsultationByID(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return
	}
	consultation, err := h.Booking.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	utils.Success(c, "Consultation retrieved successfully", consultation)
}

// UpdateStatusRequest represents the request body for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=cancelled completed"`
}

// UpdateConsultationStatus cancels or completes a scheduled consultation.
func (h *ConsultationHandler) UpdateConsultationStatus(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return
	}
	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	consultation, err := h.Booking.UpdateStatus(c.Request.Context(), userID, c.Param("id"), models.ConsultationStatus(req.Status))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	utils.Success(c, "Consultation status updated successfully", consultation)
}

// ClearConsultations removes all of the current user's consultations.
func (h *ConsultationHandler) ClearConsultations(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return
	}
	if err := h.Booking.Clear(c.Request.Context(), userID); err != nil {
		writeBookingError(c, err)
		return
	}
	utils.Success(c, "Consultations cleared", nil)
}
