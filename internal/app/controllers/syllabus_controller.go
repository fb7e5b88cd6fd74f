package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/app/services"
	"github.com/yigit/semesterhub/internal/middleware"
)

// SyllabusController handles syllabus operations
type SyllabusController struct {
	syllabusService services.SyllabusService
	logger          zerolog.Logger
}

// NewSyllabusController creates a new SyllabusController
func NewSyllabusController(syllabusService services.SyllabusService, logger zerolog.Logger) *SyllabusController {
	return &SyllabusController{
		syllabusService: syllabusService,
		logger:          logger,
	}
}

// List godoc
// @Summary List syllabi
// @Description Returns syllabi ordered by course, optionally narrowed to one semester and a search term
// @Tags syllabi
// @Produce json
// @Param semester_id query int false "Semester ID"
// @Param search query string false "Case-insensitive match on course or description"
// @Success 200 {object} dto.APIResponse{data=[]dto.SyllabusResponse}
// @Failure 422 {object} dto.ErrorResponse "Invalid filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /syllabi [get]
func (c *SyllabusController) List(ctx *gin.Context) {
	var query dto.CatalogQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	items, err := c.syllabusService.List(ctx.Request.Context(), query.Filter())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewSyllabusListResponse(items, APIBasePath), ""))
}

// Get godoc
// @Summary Get a syllabus
// @Tags syllabi
// @Produce json
// @Param id path int true "Syllabus ID"
// @Success 200 {object} dto.APIResponse{data=dto.SyllabusResponse}
// @Failure 404 {object} dto.ErrorResponse "Syllabus not found"
// @Router /syllabi/{id} [get]
func (c *SyllabusController) Get(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	sy, err := c.syllabusService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewSyllabusResponse(sy, APIBasePath), ""))
}

// Create godoc
// @Summary Upload a syllabus
// @Description Stores the PDF and creates the syllabus record. Admin only.
// @Tags syllabi
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param semester_id formData int true "Semester ID"
// @Param course formData string true "Course name"
// @Param description formData string false "Description"
// @Param file_name formData string true "Display name used for downloads"
// @Param file formData file true "Syllabus PDF, at most 10MB"
// @Success 201 {object} dto.APIResponse{data=dto.SyllabusResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /syllabi [post]
func (c *SyllabusController) Create(ctx *gin.Context) {
	var input dto.SyllabusInput
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

	sy, err := c.syllabusService.Create(ctx.Request.Context(), middleware.GetPrincipal(ctx), input, upload)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewSyllabusResponse(sy, APIBasePath), "Syllabus uploaded successfully"))
}

// Update godoc
// @Summary Update a syllabus
// @Description Updates the syllabus fields. A new file replaces the stored PDF; without one the file is kept. Admin only.
// @Tags syllabi
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Syllabus ID"
// @Param semester_id formData int true "Semester ID"
// @Param course formData string true "Course name"
// @Param description formData string false "Description"
// @Param file_name formData string true "Display name used for downloads"
// @Param file formData file false "Replacement PDF, at most 10MB"
// @Success 200 {object} dto.APIResponse{data=dto.SyllabusResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Syllabus not found"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Router /syllabi/{id} [put]
func (c *SyllabusController) Update(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var input dto.SyllabusInput
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

	sy, err := c.syllabusService.Update(ctx.Request.Context(), middleware.GetPrincipal(ctx), id, input, upload)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewSyllabusResponse(sy, APIBasePath), "Syllabus updated successfully"))
}

// Delete godoc
// @Summary Delete a syllabus
// @Description Deletes the record and then its file. Admin only.
// @Tags syllabi
// @Produce json
// @Security BearerAuth
// @Param id path int true "Syllabus ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Syllabus not found"
// @Router /syllabi/{id} [delete]
func (c *SyllabusController) Delete(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.syllabusService.Delete(ctx.Request.Context(), middleware.GetPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Syllabus deleted successfully"))
}

// Download godoc
// @Summary Download a syllabus PDF
// @Tags syllabi
// @Produce application/pdf
// @Param id path int true "Syllabus ID"
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse "Syllabus or file not found"
// @Router /syllabi/{id}/download [get]
func (c *SyllabusController) Download(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	download, err := c.syllabusService.Download(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	serveDownload(ctx, download)
}
