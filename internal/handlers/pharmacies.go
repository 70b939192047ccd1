package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sehat-sathi-server/internal/middleware"
	"sehat-sathi-server/internal/models"
	"sehat-sathi-server/internal/pharmacy"
	"sehat-sathi-server/internal/utils"
)

// PharmacyHandler handles pharmacy lookup requests.
type PharmacyHandler struct {
	Pharmacies *pharmacy.Service
}

// NewPharmacyHandler creates a new PharmacyHandler.
func NewPharmacyHandler(svc *pharmacy.Service) *PharmacyHandler {
	return &PharmacyHandler{Pharmacies: svc}
}

// NearbyQuery holds the optional position and sort mode.
type NearbyQuery struct {
	Lat    *float64 `form:"lat" binding:"required_with=Lng"`
	Lng    *float64 `form:"lng" binding:"required_with=Lat"`
	SortBy string   `form:"sortBy" binding:"omitempty,oneof=distance rating"`
}

// PharmacyView is a pharmacy with its directions link.
type PharmacyView struct {
	models.Pharmacy
	DirectionsURL string `json:"directionsUrl"`
}

func views(ps []models.Pharmacy) []PharmacyView {
	out := make([]PharmacyView, 0, len(ps))
	for _, p := range ps {
		out = append(out, PharmacyView{Pharmacy: p, DirectionsURL: pharmacy.DirectionsURL(p)})
	}
	return out
}

func listingResponse(l *pharmacy.Listing) gin.H {
	return gin.H{
		"pharmacies": views(l.Pharmacies),
		"sortBy":     l.SortBy,
		"origin":     l.Origin,
		"location":   l.Location,
	}
}

// GetNearby lists pharmacies, measuring from lat/lng when supplied.
func (h *PharmacyHandler) GetNearby(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return
	}
	var q NearbyQuery
	if !utils.BindQueryAndValidate(c, &q) {
		return
	}
	mode, err := pharmacy.ParseSortMode(q.SortBy)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var pos *pharmacy.Position
	if q.Lat != nil && q.Lng != nil {
		pos = &pharmacy.Position{Lat: *q.Lat, Lng: *q.Lng}
	}
	listing, err := h.Pharmacies.Nearby(c.Request.Context(), userID, pos, mode)
	if errors.Is(err, pharmacy.ErrInvalidPosition) {
		utils.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to list pharmacies: "+err.Error())
		return
	}
	utils.Success(c, "Pharmacies retrieved successfully", listingResponse(listing))
}

// SearchQuery is a manual location search.
type SearchQuery struct {
	Location string `form:"location"`
	SortBy   string `form:"sortBy" binding:"omitempty,oneof=distance rating"`
}

// Search lists pharmacies for a manually entered location.
func (h *PharmacyHandler) Search(c *gin.Context) {
	var q SearchQuery
	if !utils.BindQueryAndValidate(c, &q) {
		return
	}
	mode, err := pharmacy.ParseSortMode(q.SortBy)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	listing, err := h.Pharmacies.Search(c.Request.Context(), q.Location, mode)
	if errors.Is(err, pharmacy.ErrLocationRequired) {
		utils.BadRequest(c, "Please enter a location to search for nearby pharmacies.")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to search pharmacies: "+err.Error())
		return
	}
	utils.Success(c, "Pharmacies retrieved successfully", listingResponse(listing))
}

// LocationErrorRequest reports a failed device location request.
type LocationErrorRequest struct {
	Code int `json:"code"`
}

// ExplainLocationError turns a device location error code into guidance.
func (h *PharmacyHandler) ExplainLocationError(c *gin.Context) {
	var req LocationErrorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	utils.Success(c, "Location error explained", pharmacy.ExplainFailure(req.Code))
}

// GetLocationOptions returns the options for the device location API.
func (h *PharmacyHandler) GetLocationOptions(c *gin.Context) {
	utils.Success(c, "Location options retrieved successfully", h.Pharmacies.Options())
}
