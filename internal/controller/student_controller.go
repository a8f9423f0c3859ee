package controller

import (
	"net/http"

	"classroom_backend/internal/service"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// StudentController 教师管理学生账号
type StudentController struct {
	UserService *service.UserService
}

func NewStudentController(userService *service.UserService) *StudentController {
	return &StudentController{UserService: userService}
}

// ResetPasswordRequest swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// List godoc
// @Summary 学生列表
// @Tags 学生管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   search query string false "按姓名或用户名搜索"
// @Param   classId query string false "班级"
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/teacher/students [get]
func (c *StudentController) List(ctx *gin.Context) {
	students, err := c.UserService.ListStudents(ctx.Request.Context(), ctx.Query("search"), ctx.Query("classId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.List(ctx, students)
}

// Create godoc
// @Summary 新建学生账号
// @Description 初始密码为 123
// @Tags 学生管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.StudentInput true "学生信息"
// @Success 201 {object} util.Response{data=model.User}
// @Failure 409 {object} util.Response "用户名已被使用"
// @Router /api/teacher/students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var in service.StudentInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user, err := c.UserService.CreateStudent(ctx.Request.Context(), in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, user)
}

// Update godoc
// @Summary 修改学生资料
// @Tags 学生管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "学生ID"
// @Param   body body service.StudentInput true "学生信息"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/teacher/students/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	var in service.StudentInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user, err := c.UserService.UpdateStudent(ctx.Request.Context(), ctx.Param("id"), in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// @Summary 重置学生密码
// @Tags 学生管理
// @Accept  json
// @Security ApiKeyAuth
// @Param   id path string true "学生ID"
// @Param   body body ResetPasswordRequest true "新密码"
// @Success 204
// @Router /api/teacher/students/{id}/password [put]
func (c *StudentController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.UserService.ResetPassword(ctx.Request.Context(), ctx.Param("id"), req.Password); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *StudentController) Delete(ctx *gin.Context) {
	if err := c.UserService.DeleteStudent(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
