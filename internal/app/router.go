package app

import (
	"classroom_backend/docs"
	"classroom_backend/internal/middleware"
	"classroom_backend/internal/model"
	"classroom_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.Use(middleware.ConfigMiddleware(a.Config))

	// 1. 公共路由(无需登录)
	api.GET("/health", c.health.HealthCheck)
	api.POST("/login", c.auth.Login)

	// 2. 需要登录的路由
	authGroup := api.Group("")
	authGroup.Use(middleware.AuthMiddleware())
	{
		registerStudentRoutes(authGroup, c)

		teacher := authGroup.Group("/teacher")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		registerTeacherRoutes(teacher, c)
	}
}

// registerStudentRoutes 学生和教师都可以访问的接口
func registerStudentRoutes(r *gin.RouterGroup, c *controllers) {
	r.GET("/profile", c.auth.Profile)

	r.GET("/topics", c.curriculum.ListTopics)
	r.GET("/lessons", c.curriculum.ListLessons)
	r.POST("/lessons/:id/complete", c.curriculum.CompleteLesson)

	r.GET("/assignments", c.assignments.List)
	r.GET("/assignments/:id", c.assignments.Get)
	r.POST("/submissions", c.submission.Submit)
	r.GET("/report", c.submission.MyReport)

	r.GET("/announcements", c.report.Announcements)
}

func registerTeacherRoutes(r *gin.RouterGroup, c *controllers) {
	r.GET("/dashboard", c.report.Dashboard)
	r.GET("/reports/overview", c.report.Overview)

	// 通用资源
	c.classes.Register(r.Group("/classes"))
	c.subjects.Register(r.Group("/subjects"))
	c.assignments.Register(r.Group("/assignments"))
	c.announcements.Register(r.Group("/announcements"))

	topics := r.Group("/topics")
	topics.GET("", c.topics.List)
	topics.GET("/:id", c.topics.Get)
	topics.POST("", c.topics.Create)
	topics.PUT("/:id", c.topics.Update)
	topics.DELETE("/:id", c.curriculum.DeleteTopic)

	lessons := r.Group("/lessons")
	c.lessons.Register(lessons)
	lessons.PUT("/:id/status", c.curriculum.SetLessonStatus)
	lessons.POST("/:id/media", c.curriculum.AttachMedia)

	// 公告由服务端填写作者和时间
	r.POST("/announcements/publish", c.report.Publish)

	students := r.Group("/students")
	students.GET("", c.student.List)
	students.POST("", c.student.Create)
	students.PUT("/:id", c.student.Update)
	students.PUT("/:id/password", c.student.ResetPassword)
	students.DELETE("/:id", c.student.Delete)
	students.GET("/:id/report", c.submission.StudentReport)

	r.GET("/assignments/:id/submissions", c.submission.ListByAssignment)
	r.PUT("/submissions/:id/grade", c.submission.Grade)

	questions := r.Group("/questions")
	questions.GET("/search", c.question.Search)
	questions.GET("/import/template", c.importer.Template)
	questions.POST("/import", c.importer.Parse)
	questions.GET("/import/:id", c.importer.Get)
	questions.POST("/import/:id/commit", c.importer.Commit)
	questions.DELETE("/import/:id", c.importer.Discard)
	c.questions.Register(questions)
}
