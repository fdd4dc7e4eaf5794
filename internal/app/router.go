package app

import (
	"course_progress_backend/docs"
	"course_progress_backend/internal/middleware"
	"course_progress_backend/internal/model"
	"course_progress_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.Config))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	course := group.Group("/courses/:courseId")
	{
		course.GET("/progress", c.progress.GetCourseProgress)
		course.PUT("/lessons/:lessonId/completion", c.progress.SetLessonCompletion)
		course.POST("/lessons/:lessonId/assignment", c.assignment.Submit)
		course.POST("/modules/:moduleId/quiz/attempts", c.progress.AttemptQuiz)
		course.GET("/modules/:moduleId/status", c.progress.GetModuleStatus)
	}
}

// 教师接口：角色在这里校验，是否为该课程负责人在 service 中校验
func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
	{
		course := teacher.Group("/courses/:courseId")
		course.GET("/students", c.report.ListStudents)
		course.GET("/submissions", c.report.ListSubmissions)
		course.PUT("/lessons/:lessonId/submissions/:userId/grade", c.assignment.Grade)
	}
}
