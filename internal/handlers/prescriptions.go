package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"sehat-sathi-server/internal/identity"
	"sehat-sathi-server/internal/middleware"
	"sehat-sathi-server/internal/models"
	"sehat-sathi-server/internal/records"
	"sehat-sathi-server/internal/repository"
	"sehat-sathi-server/internal/utils"
)

// PrescriptionHandler handles prescription requests.
type PrescriptionHandler struct {
	Prescriptions *records.PrescriptionService
	Users         identity.UserStore
}

// NewPrescriptionHandler creates a new PrescriptionHandler.
func NewPrescriptionHandler(svc *records.PrescriptionService, users identity.UserStore) *PrescriptionHandler {
	return &PrescriptionHandler{Prescriptions: svc, Users: users}
}

// GetPrescriptions lists the current user's prescriptions.
func (h *PrescriptionHandler) GetPrescriptions(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return
	}
	items, err := h.Prescriptions.List(c.Request.Context(), userID, c.Query("search"))
	if err != nil {
		utils.InternalServerError(c, "Failed to load prescriptions: "+err.Error())
		return
	}
	utils.Success(c, "Prescriptions retrieved successfully", items)
}

func (h *PrescriptionHandler) lookup(c *gin.Context) (*models.Prescription, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return nil, false
	}
	p, err := h.Prescriptions.Get(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		utils.NotFound(c, "Prescription not found")
		return nil, false
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to load prescription: "+err.Error())
		return nil, false
	}
	return p, true
}

// GetPrescriptionByID returns one prescription.
func (h *PrescriptionHandler) GetPrescriptionByID(c *gin.Context) {
	p, ok := h.lookup(c)
	if !ok {
		return
	}
	utils.Success(c, "Prescription retrieved successfully", p)
}

// DownloadPrescription serves the plain-text rendering as an attachment.
func (h *PrescriptionHandler) DownloadPrescription(c *gin.Context) {
	p, ok := h.lookup(c)
	if !ok {
		return
	}
	c.Writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", records.FileName(p)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(records.RenderText(p)))
}

// MedicineRequest is one medicine line of a new prescription.
type MedicineRequest struct {
	Name         string `json:"name" binding:"required"`
	Dosage       string `json:"dosage" binding:"required"`
	Frequency    string `json:"frequency" binding:"required"`
	Duration     string `json:"duration" binding:"required"`
	Instructions string `json:"instructions"`
}

// IssuePrescriptionRequest represents the request body for issuing a prescription.
type IssuePrescriptionRequest struct {
	PatientID  string            `json:"patientId" binding:"required"`
	Hospital   string            `json:"hospital" binding:"required"`
	Diagnosis  string            `json:"diagnosis" binding:"required"`
	Notes      string            `json:"notes"`
	ValidUntil string            `json:"validUntil" binding:"omitempty,datetime=2006-01-02"`
	Medicines  []MedicineRequest `json:"medicines" binding:"required,min=1,dive"`
}

// IssuePrescription lets a doctor write a prescription for a patient.
func (h *PrescriptionHandler) IssuePrescription(c *gin.Context) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		utils.Unauthorized(c, "not authenticated")
		return
	}
	var req IssuePrescriptionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	patient, err := h.Users.FindByID(ctx, req.PatientID)
	if errors.Is(err, identity.ErrUserNotFound) || (err == nil && patient.UserType != models.UserPatient) {
		utils.NotFound(c, "Patient not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		return
	}

	medicines := make([]models.Medicine, 0, len(req.Medicines))
	for _, m := range req.Medicines {
		medicines = append(medicines, models.Medicine{
			Name:         m.Name,
			Dosage:       m.Dosage,
			Frequency:    m.Frequency,
			Duration:     m.Duration,
			Instructions: m.Instructions,
		})
	}

	p, err := h.Prescriptions.Issue(ctx, patient.ID, s.User.Name, records.IssueRequest{
		Hospital:   req.Hospital,
		Diagnosis:  req.Diagnosis,
		Notes:      req.Notes,
		ValidUntil: req.ValidUntil,
		Medicines:  medicines,
	})
	if errors.Is(err, records.ErrNoMedicines) {
		utils.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to issue prescription: "+err.Error())
		return
	}
	utils.Created(c, "Prescription issued successfully", p)
}
