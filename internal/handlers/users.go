package handlers

import (
	"net/http"
	"strings"

	"TRAVBUD_BACK-END/internal/dto"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/services"
	"TRAVBUD_BACK-END/internal/utils"
)

// UserHandler serves registration, profiles and admin user moderation.
type UserHandler struct {
	users     *services.UserService
	assets    services.AssetStore
	auth      *AuthHandler
	maxUpload int64
}

func NewUserHandler(users *services.UserService, assets services.AssetStore, auth *AuthHandler, maxUpload int64) *UserHandler {
	return &UserHandler{users: users, assets: assets, auth: auth, maxUpload: maxUpload}
}

// Register handles user registration
// @Summary Register a new user
// @Description Multipart form with a JSON "data" field and an optional "file" photo, or a plain JSON body
// @Tags users
// @Accept multipart/form-data,json
// @Produce json
// @Param data formData string true "dto.RegisterRequest as JSON"
// @Param file formData file false "Profile photo"
// @Success 201 {object} utils.Envelope{data=models.User} "User created"
// @Failure 400 {object} utils.ErrorEnvelope "Invalid request data"
// @Failure 409 {object} utils.ErrorEnvelope "Email or contact number already registered"
// @Router /api/v1/users/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	files, err := readBody(w, r, h.maxUpload, &req, userPhotoField, false)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	photo, err := firstPhoto(r.Context(), h.assets, files)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), req.Input(), photo)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "User created successfully", user)
}

// Me returns the caller's profile with a trip overview
// @Summary Get my profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope{data=services.Profile}
// @Failure 401 {object} utils.ErrorEnvelope "Unauthorized"
// @Router /api/v1/users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.Profile(r.Context(), callerOf(r).ID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Profile overview retrieved successfully", profile)
}

// UpdateMe updates the caller's own profile
// @Summary Update my profile
// @Description Multipart form with an optional JSON "data" field and an optional "file" photo, or a plain JSON body
// @Tags users
// @Accept multipart/form-data,json
// @Produce json
// @Security BearerAuth
// @Param data formData string false "dto.UpdateMeRequest as JSON"
// @Param file formData file false "New profile photo"
// @Success 200 {object} utils.Envelope{data=models.User}
// @Failure 400 {object} utils.ErrorEnvelope "Invalid request data"
// @Failure 409 {object} utils.ErrorEnvelope "Contact number already registered"
// @Router /api/v1/users/update/me [patch]
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateMeRequest
	files, err := readBody(w, r, h.maxUpload, &req, userPhotoField, true)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	photo, err := firstPhoto(r.Context(), h.assets, files)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	user, err := h.users.UpdateMe(r.Context(), callerOf(r).ID, req.Patch(), photo)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "User updated successfully", user)
}

// ChangePassword replaces the caller's password
// @Summary Change my password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "New password"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.ErrorEnvelope "Invalid request data"
// @Router /api/v1/users/update/password [patch]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if err := h.users.ChangePassword(r.Context(), callerOf(r).ID, req.Password); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Password updated successfully", nil)
}

// DeleteMe deletes the caller's account and ends the session
// @Summary Delete my account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope{data=models.User}
// @Router /api/v1/users/me [delete]
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Delete(r.Context(), callerOf(r).ID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	h.auth.clearSessionCookies(w)
	utils.WriteSuccess(w, http.StatusOK, "User deleted successfully", user)
}

// GetUser returns a user's public profile
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} utils.Envelope{data=services.Profile}
// @Failure 404 {object} utils.ErrorEnvelope "User not found"
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	profile, err := h.users.Profile(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "User retrieved successfully", profile)
}

// ListUsers lists users for admins
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param searchTerm query string false "Matches name or email"
// @Param role query string false "user, guide or admin"
// @Param status query string false "active or blocked"
// @Param isVerified query bool false "Verification flag"
// @Param page query int false "Page, 1-indexed"
// @Param limit query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} utils.Envelope{data=services.Paged[models.User]}
// @Failure 403 {object} utils.ErrorEnvelope "Admin only"
// @Router /api/v1/users/admin/all-users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	verified, err := utils.QueryBool(r, "isVerified")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	q := r.URL.Query()
	result, err := h.users.List(r.Context(), models.UserFilter{
		SearchTerm: strings.TrimSpace(q.Get("searchTerm")),
		Role:       models.Role(q.Get("role")),
		Status:     models.UserStatus(q.Get("status")),
		IsVerified: verified,
		Page:       page,
	})
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Users retrieved successfully", result)
}

// AdminUpdate changes a user's role, status or verification
// @Summary Moderate user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body dto.AdminUserUpdateRequest true "Moderation changes"
// @Success 200 {object} utils.Envelope{data=models.User}
// @Failure 403 {object} utils.ErrorEnvelope "Admin only, or self demotion"
// @Failure 404 {object} utils.ErrorEnvelope "User not found"
// @Router /api/v1/users/admin/{id} [patch]
func (h *UserHandler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	var req dto.AdminUserUpdateRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	user, err := h.users.Moderate(r.Context(), id, req.Patch(), callerOf(r))
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "User updated successfully", user)
}

// AdminDelete deletes any user
// @Summary Delete user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} utils.Envelope{data=models.User}
// @Failure 404 {object} utils.ErrorEnvelope "User not found"
// @Router /api/v1/users/admin/{id} [delete]
func (h *UserHandler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	user, err := h.users.Delete(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "User deleted successfully", user)
}
