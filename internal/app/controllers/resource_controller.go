package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/app/services"
	"github.com/yigit/semesterhub/internal/middleware"
)

// ResourceController handles study resource operations
type ResourceController struct {
	resourceService services.ResourceService
	logger          zerolog.Logger
}

// NewResourceController creates a new ResourceController
func NewResourceController(resourceService services.ResourceService, logger zerolog.Logger) *ResourceController {
	return &ResourceController{
		resourceService: resourceService,
		logger:          logger,
	}
}

// List godoc
// @Summary List study resources
// @Description Returns resources, newest first
// @Tags resources
// @Produce json
// @Param semester_id query int false "Semester ID"
// @Param search query string false "Case-insensitive match on title or description"
// @Success 200 {object} dto.APIResponse{data=[]dto.ResourceResponse}
// @Router /resources [get]
func (c *ResourceController) List(ctx *gin.Context) {
	var query dto.CatalogQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	items, err := c.resourceService.List(ctx.Request.Context(), query.Filter())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewResourceListResponse(items, APIBasePath), ""))
}

// Get godoc
// @Summary Get a study resource
// @Tags resources
// @Produce json
// @Param id path int true "Resource ID"
// @Success 200 {object} dto.APIResponse{data=dto.ResourceResponse}
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Router /resources/{id} [get]
func (c *ResourceController) Get(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	res, err := c.resourceService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewResourceResponse(res, APIBasePath), ""))
}

// Create godoc
// @Summary Upload a study resource
// @Description Accepts PDF, JPEG, PNG, GIF or WEBP files. Admin only.
// @Tags resources
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param semester_id formData int true "Semester ID"
// @Param description formData string false "Description"
// @Param file formData file true "Resource file, at most 20MB"
// @Success 201 {object} dto.APIResponse{data=dto.ResourceResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Router /resources [post]
func (c *ResourceController) Create(ctx *gin.Context) {
	var input dto.ResourceInput
	if err := ctx.ShouldBind(&input); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	upload, closeUpload, err := readUpload(ctx)
	if err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	defer closeUpload()

	res, err := c.resourceService.Create(ctx.Request.Context(), middleware.GetPrincipal(ctx), input, upload)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewResourceResponse(res, APIBasePath), "Resource uploaded successfully"))
}

// Update godoc
// @Summary Update a study resource
// @Tags resources
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Param title formData string true "Title"
// @Param semester_id formData int true "Semester ID"
// @Param description formData string false "Description"
// @Param file formData file false "Replacement file, at most 20MB"
// @Success 200 {object} dto.APIResponse{data=dto.ResourceResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Router /resources/{id} [put]
func (c *ResourceController) Update(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var input dto.ResourceInput
	if err := ctx.ShouldBind(&input); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	upload, closeUpload, err := readUpload(ctx)
	if err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	defer closeUpload()

	res, err := c.resourceService.Update(ctx.Request.Context(), middleware.GetPrincipal(ctx), id, input, upload)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewResourceResponse(res, APIBasePath), "Resource updated successfully"))
}

// Delete godoc
// @Summary Delete a study resource
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Router /resources/{id} [delete]
func (c *ResourceController) Delete(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.resourceService.Delete(ctx.Request.Context(), middleware.GetPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Resource deleted successfully"))
}

// Download godoc
// @Summary Download a study resource
// @Tags resources
// @Produce octet-stream
// @Param id path int true "Resource ID"
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse "Resource or file not found"
// @Router /resources/{id}/download [get]
func (c *ResourceController) Download(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	download, err := c.resourceService.Download(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	serveDownload(ctx, download)
}
