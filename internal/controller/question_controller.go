package controller

import (
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// Search godoc
// @Summary 题库筛选
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   type query string false "题型"
// @Param   difficulty query string false "难度"
// @Param   topicId query string false "主题ID"
// @Param   q query string false "题干关键字"
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/teacher/questions/search [get]
func (c *QuestionController) Search(ctx *gin.Context) {
	var f service.QuestionFilter
	if err := ctx.ShouldBindQuery(&f); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	items, err := c.QuestionService.Filter(ctx.Request.Context(), f)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.List(ctx, items)
}
