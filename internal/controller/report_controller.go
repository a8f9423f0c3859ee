package controller

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService       *service.ReportService
	AnnouncementService *service.AnnouncementService
	UserService         *service.UserService
}

func NewReportController(report *service.ReportService, announcements *service.AnnouncementService, users *service.UserService) *ReportController {
	return &ReportController{
		ReportService:       report,
		AnnouncementService: announcements,
		UserService:         users,
	}
}

// Overview godoc
// @Summary 班级学习概况
// @Description 课程完成率、按时提交率以及需要关注的学生
// @Tags 报表
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Overview}
// @Router /api/teacher/reports/overview [get]
func (c *ReportController) Overview(ctx *gin.Context) {
	overview, err := c.ReportService.Overview(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// Dashboard godoc
// @Summary 教师首页
// @Tags 报表
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Router /api/teacher/dashboard [get]
func (c *ReportController) Dashboard(ctx *gin.Context) {
	dashboard, err := c.ReportService.Dashboard(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// Announcements godoc
// @Summary 公告列表
// @Description 学生只能看到面向学生或所有人、且属于自己班级的公告
// @Tags 公告
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/announcements [get]
func (c *ReportController) Announcements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var (
		audience model.Audience
		classID  string
	)
	if claims.Role == model.Student {
		user, err := c.UserService.GetUser(ctx.Request.Context(), claims.UserID)
		if err != nil {
			respondError(ctx, err)
			return
		}
		audience = model.AudienceStudent
		classID = user.ClassID
	} else {
		audience = model.Audience(ctx.Query("audience"))
		classID = ctx.Query("classId")
	}

	items, err := c.AnnouncementService.ListForAudience(ctx.Request.Context(), audience, classID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.List(ctx, items)
}

// Publish godoc
// @Summary 发布公告
// @Tags 公告
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body model.Announcement true "公告"
// @Success 201 {object} util.Response{data=model.Announcement}
// @Router /api/teacher/announcements [post]
func (c *ReportController) Publish(ctx *gin.Context) {
	var a model.Announcement
	if err := ctx.ShouldBindJSON(&a); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	created, err := c.AnnouncementService.Publish(ctx.Request.Context(), util.GetUserFromContext(ctx).UserID, a)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, created)
}
