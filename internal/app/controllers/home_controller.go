package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/app/services"
	"github.com/yigit/semesterhub/internal/middleware"
)

// HomeController serves the landing feed and the admin dashboard
type HomeController struct {
	overviewService services.OverviewService
}

// NewHomeController creates a new HomeController
func NewHomeController(overviewService services.OverviewService) *HomeController {
	return &HomeController{overviewService: overviewService}
}

// Home godoc
// @Summary Home feed
// @Description Returns the 24 newest syllabi, question papers and resources
// @Tags home
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HomeFeedResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /home [get]
func (c *HomeController) Home(ctx *gin.Context) {
	feed, err := c.overviewService.HomeFeed(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.HomeFeedResponse{
		Syllabi:        dto.NewSyllabusListResponse(feed.Syllabi, APIBasePath),
		QuestionPapers: dto.NewQuestionPaperListResponse(feed.QuestionPapers, APIBasePath),
		Resources:      dto.NewResourceListResponse(feed.Resources, APIBasePath),
	}, ""))
}

// Dashboard godoc
// @Summary Admin dashboard counters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStats}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /admin/dashboard [get]
func (c *HomeController) Dashboard(ctx *gin.Context) {
	stats, err := c.overviewService.Dashboard(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}
