package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/app/services"
	"github.com/yigit/semesterhub/internal/middleware"
)

// QuestionPaperController handles question paper operations
type QuestionPaperController struct {
	paperService services.QuestionPaperService
	logger       zerolog.Logger
}

// NewQuestionPaperController creates a new QuestionPaperController
func NewQuestionPaperController(paperService services.QuestionPaperService, logger zerolog.Logger) *QuestionPaperController {
	return &QuestionPaperController{
		paperService: paperService,
		logger:       logger,
	}
}

// List godoc
// @Summary List question papers
// @Description Returns question papers, newest year first and then by course
// @Tags question-papers
// @Produce json
// @Param semester_id query int false "Semester ID"
// @Param search query string false "Case-insensitive match on course, year or file name"
// @Success 200 {object} dto.APIResponse{data=[]dto.QuestionPaperResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /question-papers [get]
func (c *QuestionPaperController) List(ctx *gin.Context) {
	var query dto.CatalogQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	items, err := c.paperService.List(ctx.Request.Context(), query.Filter())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewQuestionPaperListResponse(items, APIBasePath), ""))
}

// Get godoc
// @Summary Get a question paper
// @Tags question-papers
// @Produce json
// @Param id path int true "Question paper ID"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionPaperResponse}
// @Failure 404 {object} dto.ErrorResponse "Question paper not found"
// @Router /question-papers/{id} [get]
func (c *QuestionPaperController) Get(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	qp, err := c.paperService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewQuestionPaperResponse(qp, APIBasePath), ""))
}

// Create godoc
// @Summary Upload a question paper
// @Tags question-papers
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param semester_id formData int true "Semester ID"
// @Param course formData string true "Course name"
// @Param year formData int true "Exam year (1900-2100)"
// @Param file_name formData string false "Display name used for downloads"
// @Param file formData file true "Question paper PDF, at most 10MB"
// @Success 201 {object} dto.APIResponse{data=dto.QuestionPaperResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Router /question-papers [post]
func (c *QuestionPaperController) Create(ctx *gin.Context) {
	var input dto.QuestionPaperInput
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

	qp, err := c.paperService.Create(ctx.Request.Context(), middleware.GetPrincipal(ctx), input, upload)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewQuestionPaperResponse(qp, APIBasePath), "Question paper uploaded successfully"))
}

// Update godoc
// @Summary Update a question paper
// @Description Without a file the stored PDF is kept
// @Tags question-papers
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question paper ID"
// @Param semester_id formData int true "Semester ID"
// @Param course formData string true "Course name"
// @Param year formData int true "Exam year (1900-2100)"
// @Param file_name formData string false "Display name used for downloads"
// @Param file formData file false "Replacement PDF, at most 10MB"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionPaperResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Question paper not found"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Router /question-papers/{id} [put]
func (c *QuestionPaperController) Update(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var input dto.QuestionPaperInput
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

	qp, err := c.paperService.Update(ctx.Request.Context(), middleware.GetPrincipal(ctx), id, input, upload)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewQuestionPaperResponse(qp, APIBasePath), "Question paper updated successfully"))
}

// Delete godoc
// @Summary Delete a question paper
// @Tags question-papers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question paper ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Question paper not found"
// @Router /question-papers/{id} [delete]
func (c *QuestionPaperController) Delete(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.paperService.Delete(ctx.Request.Context(), middleware.GetPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Question paper deleted successfully"))
}

// Download godoc
// @Summary Download a question paper PDF
// @Tags question-papers
// @Produce application/pdf
// @Param id path int true "Question paper ID"
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse "Question paper or file not found"
// @Router /question-papers/{id}/download [get]
func (c *QuestionPaperController) Download(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	download, err := c.paperService.Download(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	serveDownload(ctx, download)
}
