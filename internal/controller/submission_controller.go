package controller

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
}

func NewSubmissionController(submissionService *service.SubmissionService) *SubmissionController {
	return &SubmissionController{SubmissionService: submissionService}
}

// GradeRequest swagger:model GradeRequest
type GradeRequest struct {
	Grade    *float64 `json:"grade" binding:"required"`
	Feedback string   `json:"feedback"`
}

// Submit godoc
// @Summary 提交作业
// @Description 学生提交时 studentId 取自登录用户且忽略 status；教师可以代学生提交
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.SubmitInput true "提交内容"
// @Success 201 {object} util.Response{data=model.Submission}
// @Router /api/submissions [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	var in service.SubmitInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	claims := util.GetUserFromContext(ctx)
	if claims.Role == model.Student {
		// 学生只能以自己的身份提交，状态只能由评分改为 graded
		in.StudentID = claims.UserID
		in.Status = ""
	}
	if in.StudentID == "" {
		in.StudentID = claims.UserID
	}

	submission, err := c.SubmissionService.SubmitAssignment(ctx.Request.Context(), in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, submission)
}

// Grade godoc
// @Summary 评分
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "提交ID"
// @Param   body body GradeRequest true "分数和评语"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 404 {object} util.Response "提交不存在"
// @Router /api/teacher/submissions/{id}/grade [put]
func (c *SubmissionController) Grade(ctx *gin.Context) {
	var req GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	submission, err := c.SubmissionService.GradeSubmission(ctx.Request.Context(), ctx.Param("id"), *req.Grade, req.Feedback)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// ListByAssignment 评分队列，未评分的排在前面
func (c *SubmissionController) ListByAssignment(ctx *gin.Context) {
	items, err := c.SubmissionService.ListByAssignment(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.List(ctx, items)
}

// MyReport 当前学生自己的提交和学习进度
func (c *SubmissionController) MyReport(ctx *gin.Context) {
	c.report(ctx, util.GetUserFromContext(ctx).UserID)
}

// StudentReport godoc
// @Summary 学生学习报告
// @Tags 报表
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "学生ID"
// @Success 200 {object} util.Response{data=model.StudentReport}
// @Router /api/teacher/students/{id}/report [get]
func (c *SubmissionController) StudentReport(ctx *gin.Context) {
	c.report(ctx, ctx.Param("id"))
}

func (c *SubmissionController) report(ctx *gin.Context, studentID string) {
	report, err := c.SubmissionService.GetReport(ctx.Request.Context(), studentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
