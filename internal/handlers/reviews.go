package handlers

import (
	"net/http"

	"TRAVBUD_BACK-END/internal/dto"
	"TRAVBUD_BACK-END/internal/services"
	"TRAVBUD_BACK-END/internal/utils"
)

// ReviewsHandler serves website reviews.
type ReviewsHandler struct {
	reviews *services.ReviewService
}

func NewReviewsHandler(reviews *services.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviews}
}

// CreateReview
// @Summary Create website review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateReviewRequest true "Review"
// @Success 201 {object} utils.Envelope{data=models.WebReview}
// @Failure 400 {object} utils.ErrorEnvelope
// @Router /api/v1/website-reviews [post]
func (h *ReviewsHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReviewRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	review, err := h.reviews.Create(r.Context(), callerOf(r).ID, req.Rating, req.Comment)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Web review created successfully", review)
}

// ListReviews
// @Summary List website reviews
// @Tags reviews
// @Produce json
// @Param limit query int false "default 10"
// @Success 200 {object} utils.Envelope{data=[]models.WebReview}
// @Router /api/v1/website-reviews [get]
func (h *ReviewsHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	limit, err := utils.QueryInt(r, "limit")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	reviews, err := h.reviews.List(r.Context(), limit)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Web reviews retrieved successfully", reviews)
}

// GetReview
// @Summary Get website review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} utils.Envelope{data=models.WebReview}
// @Failure 404 {object} utils.ErrorEnvelope
// @Router /api/v1/website-reviews/{id} [get]
func (h *ReviewsHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	review, err := h.reviews.Get(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Web review retrieved successfully", review)
}

// UpdateReview
// @Summary Update website review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body dto.UpdateReviewRequest true "Changes"
// @Success 200 {object} utils.Envelope{data=models.WebReview}
// @Failure 403 {object} utils.ErrorEnvelope "Not the author"
// @Router /api/v1/website-reviews/{id} [patch]
func (h *ReviewsHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	var req dto.UpdateReviewRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	review, err := h.reviews.Update(r.Context(), id, req.Patch(), callerOf(r))
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Web review updated successfully", review)
}

// DeleteReview
// @Summary Delete website review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} utils.Envelope
// @Failure 403 {object} utils.ErrorEnvelope "Not the author"
// @Router /api/v1/website-reviews/{id} [delete]
func (h *ReviewsHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if err := h.reviews.Delete(r.Context(), id, callerOf(r)); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Web review deleted successfully", nil)
}
