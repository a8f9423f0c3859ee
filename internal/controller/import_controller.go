package controller

import (
	"bytes"
	"fmt"
	"net/http"

	"classroom_backend/internal/service"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ImportController 题目批量导入：下载模板、上传解析、确认写入
type ImportController struct {
	ImportService *service.QuestionImportService
}

func NewImportController(importService *service.QuestionImportService) *ImportController {
	return &ImportController{ImportService: importService}
}

// Template godoc
// @Summary 下载导入模板
// @Tags 题库导入
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Success 200 {file} file
// @Router /api/teacher/questions/import/template [get]
func (c *ImportController) Template(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := c.ImportService.WriteTemplate(&buf); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, util.ImportTemplateFileName))
	ctx.Data(http.StatusOK, util.MimeXLSX, buf.Bytes())
}

// Parse godoc
// @Summary 上传并校验题目文件
// @Description 支持 xlsx 和 csv，返回导入会话（通过的题目和逐行错误），需要再调用 commit 才会写入题库
// @Tags 题库导入
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "题目文件"
// @Success 201 {object} util.Response{data=service.ImportSession}
// @Failure 413 {object} util.Response "文件过大"
// @Router /api/teacher/questions/import [post]
func (c *ImportController) Parse(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "请选择要导入的文件")
		return
	}
	if fileHeader.Size > c.ImportService.MaxFileSize() {
		respondError(ctx, util.ErrImportFileTooLarge)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	session, err := c.ImportService.Parse(ctx.Request.Context(), fileHeader.Filename, file, util.GetUserFromContext(ctx).UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

func (c *ImportController) Get(ctx *gin.Context) {
	session, err := c.ImportService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// Commit godoc
// @Summary 确认导入
// @Description 逐条写入通过校验的题目，中途失败时已写入的题目保留，会话随之失效
// @Tags 题库导入
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "导入会话ID"
// @Success 200 {object} util.Response{data=service.CommitResult}
// @Failure 404 {object} util.Response "会话不存在或已过期"
// @Failure 409 {object} util.Response "会话正在提交"
// @Router /api/teacher/questions/import/{id}/commit [post]
func (c *ImportController) Commit(ctx *gin.Context) {
	result, err := c.ImportService.Commit(ctx.Request.Context(), ctx.Param("id"))
	if err != nil && result.SessionID == "" {
		respondError(ctx, err)
		return
	}
	if err != nil {
		// 部分写入：返回已写入的数量，便于前端提示
		ctx.JSON(http.StatusInternalServerError, util.Response{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
			Data:    result,
		})
		return
	}
	util.Success(ctx, result)
}

func (c *ImportController) Discard(ctx *gin.Context) {
	if err := c.ImportService.Discard(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
