// Package admin provides HTTP handlers for administrative operations.
package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/application/admin/usecases"
	userdto "github.com/csc-helpdesk/csc/internal/application/user/dto"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/common"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/utils"
)

// UserHandler handles user administration and system statistics.
type UserHandler struct {
	service userAdminService
	logger  logger.Interface
}

func NewUserHandler(service userAdminService, logger logger.Interface) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

// UpdateUserRequest is the body of PUT /api/admin/users/:id. Omitted fields
// stay unchanged.
type UpdateUserRequest struct {
	Role       *string `json:"role" binding:"omitempty,oneof=SUPER_ADMIN ADMIN MANAGER USER VIEWER"`
	Department *string `json:"department" binding:"omitempty,max=100"`
	Position   *string `json:"position" binding:"omitempty,max=100"`
	IsActive   *bool   `json:"is_active"`
}

// ListUsers godoc
// @Summary List users
// @Security Bearer
// @Tags admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(20)
// @Param role query string false "Role" Enums(SUPER_ADMIN, ADMIN, MANAGER, USER, VIEWER)
// @Param department query string false "Department"
// @Param search query string false "Matches name or e-mail"
// @Param is_active query bool false "Active flag"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse} "Users"
// @Failure 400 {object} utils.APIResponse "Invalid role"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	pg := utils.ParsePagination(c)
	result, err := h.service.ListUsers(c.Request.Context(), p, userdto.ListUsersRequest{
		Page:       pg.Page,
		PageSize:   pg.PageSize,
		Role:       c.Query("role"),
		Department: c.Query("department"),
		Search:     c.Query("search"),
		IsActive:   common.OptionalBool(c, "is_active"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateUser godoc
// @Summary Update a user
// @Description Changes role, department, position or active flag. Only a SUPER_ADMIN may grant or revoke SUPER_ADMIN.
// @Security Bearer
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse{data=userdto.UserResponse} "User updated"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "User not found"
// @Router /api/admin/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	userID := c.Param("id")
	if userID == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid user ID"))
		return
	}

	var req UpdateUserRequest
	if !common.BindJSON(c, &req) {
		return
	}
	if req.Role == nil && req.Department == nil && req.Position == nil && req.IsActive == nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("no fields to update"))
		return
	}

	result, err := h.service.UpdateUser(c.Request.Context(), usecases.UpdateUserCommand{
		Principal: p,
		UserID:    userID,
		UpdateUserRequest: userdto.UpdateUserRequest{
			Role:       req.Role,
			Department: req.Department,
			Position:   req.Position,
			IsActive:   req.IsActive,
		},
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User updated successfully", result)
}

// GetStats godoc
// @Summary System statistics
// @Description User and ticket counters.
// @Security Bearer
// @Tags admin
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.SystemStatsResponse} "Statistics"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/admin/stats [get]
func (h *UserHandler) GetStats(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	result, err := h.service.Stats(c.Request.Context(), p)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
