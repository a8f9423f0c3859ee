package controller

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CurriculumController struct {
	CurriculumService *service.CurriculumService
}

func NewCurriculumController(curriculumService *service.CurriculumService) *CurriculumController {
	return &CurriculumController{CurriculumService: curriculumService}
}

// LessonStatusRequest swagger:model LessonStatusRequest
type LessonStatusRequest struct {
	Status model.LessonStatus `json:"status" binding:"required,oneof=draft published"`
}

// ListTopics godoc
// @Summary 主题列表
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/topics [get]
func (c *CurriculumController) ListTopics(ctx *gin.Context) {
	topics, err := c.CurriculumService.ListTopics(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.List(ctx, topics)
}

// DeleteTopic godoc
// @Summary 删除主题
// @Description 同时删除该主题下的所有课程
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "主题ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "主题不存在"
// @Router /api/teacher/topics/{id} [delete]
func (c *CurriculumController) DeleteTopic(ctx *gin.Context) {
	removed, err := c.CurriculumService.DeleteTopic(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"lessonsRemoved": removed})
}

// ListLessons godoc
// @Summary 课程列表
// @Description 学生只能看到已发布的课程
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   topicId query string false "主题ID"
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/lessons [get]
func (c *CurriculumController) ListLessons(ctx *gin.Context) {
	publishedOnly := util.GetUserFromContext(ctx).Role != model.Teacher
	lessons, err := c.CurriculumService.ListLessons(ctx.Request.Context(), ctx.Query("topicId"), publishedOnly)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.List(ctx, lessons)
}

func (c *CurriculumController) SetLessonStatus(ctx *gin.Context) {
	var req LessonStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.CurriculumService.SetLessonStatus(ctx.Request.Context(), ctx.Param("id"), req.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// AttachMedia godoc
// @Summary 上传课程附件
// @Description 支持视频、演示文稿和文档
// @Tags 课程
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Param   file formData file true "附件"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 415 {object} util.Response "不支持的文件类型"
// @Router /api/teacher/lessons/{id}/media [post]
func (c *CurriculumController) AttachMedia(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "请选择要上传的文件")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	lesson, err := c.CurriculumService.AttachLessonMedia(ctx.Request.Context(), ctx.Param("id"), fileHeader.Filename, file)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// CompleteLesson 学生标记课程已学完
func (c *CurriculumController) CompleteLesson(ctx *gin.Context) {
	progress, err := c.CurriculumService.MarkLessonComplete(ctx.Request.Context(), util.GetUserFromContext(ctx).UserID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
