package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/dto"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/services"
	"TRAVBUD_BACK-END/internal/utils"
)

// TripsHandler handles trip publishing and participation requests.
type TripsHandler struct {
	trips     *services.TripService
	assets    services.AssetStore
	maxUpload int64
}

// NewTripsHandler creates a new TripsHandler instance
func NewTripsHandler(trips *services.TripService, assets services.AssetStore, maxUpload int64) *TripsHandler {
	return &TripsHandler{trips: trips, assets: assets, maxUpload: maxUpload}
}

func (h *TripsHandler) uploadTripPhotos(r *http.Request, files []*multipart.FileHeader) ([]string, error) {
	if len(files) > maxTripPhotos {
		return nil, apperr.Validation("Too many photos", apperr.FieldError{
			Field:   tripPhotoField,
			Message: fmt.Sprintf("at most %d photos are allowed", maxTripPhotos),
		})
	}
	return uploadPhotos(r.Context(), h.assets, files)
}

// CreateTrip publishes a trip owned by the caller
// @Summary Create trip
// @Description Multipart form with a JSON "data" field and up to 10 "photos", or a plain JSON body
// @Tags trips
// @Accept multipart/form-data,json
// @Produce json
// @Security BearerAuth
// @Param data formData string true "dto.CreateTripRequest as JSON"
// @Param photos formData file false "Trip photos"
// @Success 201 {object} utils.Envelope{data=models.Trip} "Trip created"
// @Failure 400 {object} utils.ErrorEnvelope "Invalid request data"
// @Failure 422 {object} utils.ErrorEnvelope "Account blocked or trip quota exceeded"
// @Router /api/v1/trips/register [post]
func (h *TripsHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripRequest
	files, err := readBody(w, r, h.maxUpload, &req, tripPhotoField, false)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	input, err := req.Input()
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	photos, err := h.uploadTripPhotos(r, files)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	trip, err := h.trips.CreateTrip(r.Context(), callerOf(r).ID, input, photos)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Trip created successfully", trip)
}

// tripFilter reads the listing filters from the query string.
func tripFilter(r *http.Request) (models.TripFilter, error) {
	q := r.URL.Query()
	page, err := pageFromQuery(r)
	if err != nil {
		return models.TripFilter{}, err
	}
	f := models.TripFilter{
		SearchTerm:  strings.TrimSpace(q.Get("searchTerm")),
		Status:      models.TripStatus(q.Get("status")),
		TravelTypes: utils.QueryList(r, "travelType"),
		Page:        page,
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, apperr.Validation("Invalid status", apperr.FieldError{Field: "status", Message: "must be Open, Full, Completed or Cancelled"})
	}
	if f.MinBudget, err = utils.QueryFloat(r, "minBudget"); err != nil {
		return f, err
	}
	if f.MaxBudget, err = utils.QueryFloat(r, "maxBudget"); err != nil {
		return f, err
	}
	if raw := q.Get("startDate"); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			return f, dateQueryError("startDate")
		}
		f.StartFrom = &t
	}
	if raw := q.Get("endDate"); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			return f, dateQueryError("endDate")
		}
		f.EndBy = &t
	}
	return f, nil
}

func dateQueryError(field string) error {
	return apperr.Validation("Invalid date", apperr.FieldError{Field: field, Message: "must be YYYY-MM-DD or RFC3339"})
}

// ListTrips lists trips
// @Summary List trips
// @Tags trips
// @Produce json
// @Param searchTerm query string false "Matches destination or description"
// @Param status query string false "Open, Full, Completed or Cancelled"
// @Param minBudget query number false "Minimum budget"
// @Param maxBudget query number false "Maximum budget"
// @Param travelType query string false "Comma separated travel types, any of"
// @Param startDate query string false "Trips starting on or after"
// @Param endDate query string false "Trips ending on or before"
// @Param page query int false "Page, 1-indexed"
// @Param limit query int false "Page size (default 3)"
// @Param sortBy query string false "createdAt, updatedAt, startDate, endDate, budget, destination, maxGroupSize or status"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} utils.Envelope{data=services.Paged[models.Trip]}
// @Failure 400 {object} utils.ErrorEnvelope "Invalid filter"
// @Router /api/v1/trips [get]
func (h *TripsHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	f, err := tripFilter(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	result, err := h.trips.ListTrips(r.Context(), f)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Trips retrieved successfully", result)
}

// ListMyTrips lists the caller's own trips with participant profiles
// @Summary List my trips
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, 1-indexed"
// @Param limit query int false "Page size"
// @Success 200 {object} utils.Envelope{data=services.Paged[models.TripWithParticipants]}
// @Router /api/v1/trips/all-my-trips [get]
func (h *TripsHandler) ListMyTrips(w http.ResponseWriter, r *http.Request) {
	f, err := tripFilter(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	result, err := h.trips.ListMyTrips(r.Context(), callerOf(r).ID, f)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "My trips retrieved successfully", result)
}

// JoinRequests lists the trips the caller asked to join
// @Summary List my join requests
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope{data=[]models.Trip}
// @Router /api/v1/trips/all-my-join-requests [get]
func (h *TripsHandler) JoinRequests(w http.ResponseWriter, r *http.Request) {
	trips, err := h.trips.GetAllJoinRequests(r.Context(), callerOf(r).ID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Join requests retrieved successfully", trips)
}

// TripDetail returns one trip
// @Summary Get trip
// @Tags trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.Envelope{data=models.Trip}
// @Failure 404 {object} utils.ErrorEnvelope "Trip not found"
// @Router /api/v1/trips/{id} [get]
func (h *TripsHandler) TripDetail(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	trip, err := h.trips.GetTrip(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Trip retrieved successfully", trip)
}

// UpdateTrip updates a trip owned by the caller, or any trip for admins
// @Summary Update trip
// @Description Uploaded "photos" replace the current photo set
// @Tags trips
// @Accept multipart/form-data,json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param data formData string false "dto.UpdateTripRequest as JSON"
// @Param photos formData file false "Replacement photos"
// @Success 200 {object} utils.Envelope{data=models.Trip}
// @Failure 400 {object} utils.ErrorEnvelope "Invalid request data"
// @Failure 403 {object} utils.ErrorEnvelope "Not the owner"
// @Failure 404 {object} utils.ErrorEnvelope "Trip not found"
// @Router /api/v1/trips/update/{id} [patch]
func (h *TripsHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	var req dto.UpdateTripRequest
	files, err := readBody(w, r, h.maxUpload, &req, tripPhotoField, true)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	patch, err := req.Patch()
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if len(files) > 0 {
		if patch.Photos, err = h.uploadTripPhotos(r, files); err != nil {
			utils.WriteError(w, r, err)
			return
		}
	}

	trip, err := h.trips.UpdateTrip(r.Context(), id, patch, callerOf(r))
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Trip updated successfully", trip)
}

// DeleteTrip deletes a trip
// @Summary Delete trip
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.Envelope{data=models.Trip}
// @Failure 403 {object} utils.ErrorEnvelope "Not the owner"
// @Failure 404 {object} utils.ErrorEnvelope "Trip not found"
// @Router /api/v1/trips/{id} [delete]
func (h *TripsHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	trip, err := h.trips.DeleteTrip(r.Context(), id, callerOf(r))
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Trip deleted successfully", trip)
}

// RequestToJoin asks to join a trip
// @Summary Request to join
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param tripId path string true "Trip ID"
// @Success 200 {object} utils.Envelope{data=models.Trip}
// @Failure 404 {object} utils.ErrorEnvelope "Trip not found"
// @Failure 409 {object} utils.ErrorEnvelope "Already requested"
// @Failure 422 {object} utils.ErrorEnvelope "Owner, blocked account or closed trip"
// @Router /api/v1/trips/request/{tripId} [post]
func (h *TripsHandler) RequestToJoin(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "tripId")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	trip, err := h.trips.RequestToJoin(r.Context(), id, callerOf(r).ID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Join request sent successfully", trip)
}

// CancelJoinRequest withdraws the caller's pending request
// @Summary Cancel join request
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.Envelope{data=models.Trip}
// @Failure 404 {object} utils.ErrorEnvelope "No pending request"
// @Router /api/v1/trips/cancel/{id} [patch]
func (h *TripsHandler) CancelJoinRequest(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	trip, err := h.trips.CancelJoinRequest(r.Context(), id, callerOf(r).ID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Join request cancelled successfully", trip)
}

// ApproveJoinRequest approves a pending participant
// @Summary Approve join request
// @Tags participation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ApproveRequest true "Trip and participant"
// @Success 200 {object} utils.Envelope{data=models.Trip}
// @Failure 403 {object} utils.ErrorEnvelope "Not the owner"
// @Failure 404 {object} utils.ErrorEnvelope "No pending request"
// @Failure 422 {object} utils.ErrorEnvelope "Trip closed or full"
// @Router /api/v1/trips/approve [post]
func (h *TripsHandler) ApproveJoinRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.ApproveRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	trip, err := h.trips.ApproveJoinRequest(r.Context(), req.TripID, callerOf(r), req.ParticipantID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "User join request approved", trip)
}

// CancelTrip cancels a trip
// @Summary Cancel trip
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.Envelope{data=models.Trip}
// @Failure 403 {object} utils.ErrorEnvelope "Not the owner"
// @Failure 422 {object} utils.ErrorEnvelope "Trip already completed"
// @Router /api/v1/trips/cancel-trip/{id} [patch]
func (h *TripsHandler) CancelTrip(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	trip, err := h.trips.CancelTrip(r.Context(), id, callerOf(r))
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Trip cancelled successfully", trip)
}
