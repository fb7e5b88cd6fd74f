package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/app/services"
	"github.com/yigit/semesterhub/internal/middleware"
)

// SemesterController serves semesters and the per-semester catalog pages
type SemesterController struct {
	semesterService services.SemesterService
	syllabusService services.SyllabusService
	paperService    services.QuestionPaperService
	resourceService services.ResourceService
}

// NewSemesterController creates a new SemesterController
func NewSemesterController(
	semesterService services.SemesterService,
	syllabusService services.SyllabusService,
	paperService services.QuestionPaperService,
	resourceService services.ResourceService,
) *SemesterController {
	return &SemesterController{
		semesterService: semesterService,
		syllabusService: syllabusService,
		paperService:    paperService,
		resourceService: resourceService,
	}
}

// List godoc
// @Summary List semesters
// @Description Returns every semester in id order with the number of syllabi, question papers and resources it holds
// @Tags semesters
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.SemesterWithCounts}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /semesters [get]
func (c *SemesterController) List(ctx *gin.Context) {
	semesters, err := c.semesterService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(semesters, ""))
}

// Get godoc
// @Summary Get a semester
// @Tags semesters
// @Produce json
// @Param id path int true "Semester ID"
// @Success 200 {object} dto.APIResponse{data=models.Semester}
// @Failure 404 {object} dto.ErrorResponse "Semester not found"
// @Router /semesters/{id} [get]
func (c *SemesterController) Get(ctx *gin.Context) {
	semester, ok := c.semesterFromPath(ctx, "id")
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(semester, ""))
}

// Syllabi godoc
// @Summary Syllabi of a semester
// @Tags semesters
// @Produce json
// @Param semesterId path int true "Semester ID"
// @Param search query string false "Case-insensitive match on course or description"
// @Success 200 {object} dto.APIResponse{data=dto.SemesterListingResponse{items=[]dto.SyllabusResponse}}
// @Failure 404 {object} dto.ErrorResponse "Semester not found"
// @Router /syllabus/{semesterId} [get]
func (c *SemesterController) Syllabi(ctx *gin.Context) {
	semester, ok := c.semesterFromPath(ctx, "semesterId")
	if !ok {
		return
	}

	items, err := c.syllabusService.List(ctx.Request.Context(), semesterFilter(ctx, semester))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SemesterListingResponse{
		Semester: dto.NewSemesterRef(semester),
		Items:    dto.NewSyllabusListResponse(items, APIBasePath),
	}, ""))
}

// Papers godoc
// @Summary Question papers of a semester
// @Description Papers are returned both as a flat list and grouped by course
// @Tags semesters
// @Produce json
// @Param semesterId path int true "Semester ID"
// @Param search query string false "Case-insensitive match on course, year or file name"
// @Success 200 {object} dto.APIResponse{data=dto.SemesterPapersResponse}
// @Failure 404 {object} dto.ErrorResponse "Semester not found"
// @Router /papers/{semesterId} [get]
func (c *SemesterController) Papers(ctx *gin.Context) {
	semester, ok := c.semesterFromPath(ctx, "semesterId")
	if !ok {
		return
	}

	items, err := c.paperService.List(ctx.Request.Context(), semesterFilter(ctx, semester))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	papers := dto.NewQuestionPaperListResponse(items, APIBasePath)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SemesterPapersResponse{
		Semester: dto.NewSemesterRef(semester),
		Papers:   papers,
		ByCourse: dto.GroupPapersByCourse(papers),
	}, ""))
}

// Resources godoc
// @Summary Study resources of a semester
// @Tags semesters
// @Produce json
// @Param id path int true "Semester ID"
// @Param search query string false "Case-insensitive match on title or description"
// @Success 200 {object} dto.APIResponse{data=dto.SemesterListingResponse{items=[]dto.ResourceResponse}}
// @Failure 404 {object} dto.ErrorResponse "Semester not found"
// @Router /semesters/{id}/resources [get]
func (c *SemesterController) Resources(ctx *gin.Context) {
	semester, ok := c.semesterFromPath(ctx, "id")
	if !ok {
		return
	}

	items, err := c.resourceService.List(ctx.Request.Context(), semesterFilter(ctx, semester))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SemesterListingResponse{
		Semester: dto.NewSemesterRef(semester),
		Items:    dto.NewResourceListResponse(items, APIBasePath),
	}, ""))
}

func (c *SemesterController) semesterFromPath(ctx *gin.Context, param string) (*models.Semester, bool) {
	id, ok := middleware.ParseIDParam(ctx, param)
	if !ok {
		return nil, false
	}

	semester, err := c.semesterService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, false
	}
	return semester, true
}

func semesterFilter(ctx *gin.Context, semester *models.Semester) models.ContentFilter {
	id := semester.ID
	return models.ContentFilter{SemesterID: &id, Search: ctx.Query("search")}
}
