package handlers

import (
	"net/http"

	"TRAVBUD_BACK-END/internal/dto"
	"TRAVBUD_BACK-END/internal/services"
	"TRAVBUD_BACK-END/internal/utils"
)

// ExplorerHandler serves the landing page feed and the newsletter.
type ExplorerHandler struct {
	explorer *services.ExplorerService
}

func NewExplorerHandler(explorer *services.ExplorerService) *ExplorerHandler {
	return &ExplorerHandler{explorer: explorer}
}

// Home
// @Summary Landing page feed
// @Description Latest trips and website reviews
// @Tags explorer
// @Produce json
// @Success 200 {object} utils.Envelope{data=services.HomeFeed}
// @Router /api/v1/explorer/home [get]
func (h *ExplorerHandler) Home(w http.ResponseWriter, r *http.Request) {
	feed, err := h.explorer.Home(r.Context())
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Home fetched successfully", feed)
}

// Subscribe
// @Summary Subscribe to the newsletter
// @Tags explorer
// @Accept json
// @Produce json
// @Param request body dto.SubscribeRequest true "Email"
// @Success 201 {object} utils.Envelope{data=models.Subscriber}
// @Failure 409 {object} utils.ErrorEnvelope "Already subscribed"
// @Router /api/v1/explorer/subscribe [post]
func (h *ExplorerHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscribeRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	sub, err := h.explorer.Subscribe(r.Context(), req.Email)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Subscribed successfully", sub)
}

// Unsubscribe
// @Summary Unsubscribe from the newsletter
// @Tags explorer
// @Accept json
// @Produce json
// @Param request body dto.SubscribeRequest true "Email"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.ErrorEnvelope "Not subscribed"
// @Router /api/v1/explorer/subscribe [delete]
func (h *ExplorerHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscribeRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if err := h.explorer.Unsubscribe(r.Context(), req.Email); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Unsubscribed successfully", nil)
}

// Subscribers
// @Summary List newsletter subscribers
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, 1-indexed"
// @Param limit query int false "default 20"
// @Success 200 {object} utils.Envelope{data=services.Paged[models.Subscriber]}
// @Router /api/v1/explorer/subscribers [get]
func (h *ExplorerHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	result, err := h.explorer.Subscribers(r.Context(), page)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Subscribers retrieved successfully", result)
}
