package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/application/admin/dto"
	"github.com/csc-helpdesk/csc/internal/application/admin/usecases"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/common"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/utils"
)

// SettingHandler handles runtime settings.
type SettingHandler struct {
	service settingService
	logger  logger.Interface
}

func NewSettingHandler(service settingService, logger logger.Interface) *SettingHandler {
	return &SettingHandler{service: service, logger: logger}
}

// ListSettings godoc
// @Summary List settings
// @Security Bearer
// @Tags admin
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]dto.SettingResponse} "Settings"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/admin/settings [get]
func (h *SettingHandler) ListSettings(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	result, err := h.service.ListSettings(c.Request.Context(), p)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateSetting godoc
// @Summary Update a setting
// @Description The value is given as a string and must parse as the setting's type.
// @Security Bearer
// @Tags admin
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param request body dto.UpdateSettingRequest true "New value"
// @Success 200 {object} utils.APIResponse{data=dto.SettingResponse} "Setting updated"
// @Failure 400 {object} utils.APIResponse "Value missing or of the wrong type"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Unknown setting"
// @Router /api/admin/settings/{key} [put]
func (h *SettingHandler) UpdateSetting(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateSettingRequest
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.service.UpdateSetting(c.Request.Context(), usecases.UpdateSettingCommand{
		Principal: p,
		Key:       c.Param("key"),
		Value:     req.Value,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Setting updated successfully", result)
}
