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

// CategoryHandler handles ticket categories.
type CategoryHandler struct {
	service categoryService
	logger  logger.Interface
}

func NewCategoryHandler(service categoryService, logger logger.Interface) *CategoryHandler {
	return &CategoryHandler{service: service, logger: logger}
}

// ListCategories godoc
// @Summary List categories
// @Security Bearer
// @Tags admin
// @Produce json
// @Param area query string false "Area"
// @Param include_inactive query bool false "Include inactive categories"
// @Success 200 {object} utils.APIResponse{data=[]dto.CategoryResponse} "Categories"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/admin/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	var req dto.ListCategoriesRequest
	if !common.BindQuery(c, &req) {
		return
	}

	result, err := h.service.ListCategories(c.Request.Context(), p, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CreateCategory godoc
// @Summary Create a category
// @Security Bearer
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} utils.APIResponse{data=dto.CategoryResponse} "Category created"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 409 {object} utils.APIResponse "Category already exists in the area"
// @Router /api/admin/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.service.CreateCategory(c.Request.Context(), usecases.CreateCategoryCommand{
		Principal:             p,
		CreateCategoryRequest: req,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Category created successfully")
}
