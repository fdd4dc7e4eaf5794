package controller

import (
	"course_progress_backend/internal/service"
	"course_progress_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

type LessonCompletionRequest struct {
	Completed *bool `json:"completed"`
}

type QuizAttemptRequest struct {
	Answers interface{} `json:"answers"`
}

// @Summary 设置课时完成状态
// @Description 标记课时完成或取消完成。完成需要已提交作业，且上一模块测验已通过
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param lessonId path string true "课时ID"
// @Param body body LessonCompletionRequest true "完成状态"
// @Success 200 {object} util.Response{data=service.CompletionResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /courses/{courseId}/lessons/{lessonId}/completion [put]
func (c *ProgressController) SetLessonCompletion(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	courseID, ok := idParam(ctx, "courseId")
	if !ok {
		return
	}

	var req LessonCompletionRequest
	if !decodeBody(ctx, &req) {
		return
	}
	if req.Completed == nil {
		util.RespondError(ctx, util.NewInputError("completed", "completed flag is required"))
		return
	}

	result, err := c.ProgressService.SetLessonCompletion(ctx.Request.Context(), caller.UserID, courseID, ctx.Param("lessonId"), *req.Completed)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 提交模块测验
// @Description 按题目顺序评分，返回得分与是否通过；每次提交都会计入尝试次数
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param moduleId path string true "模块ID"
// @Param body body QuizAttemptRequest true "答案列表"
// @Success 200 {object} util.Response{data=service.QuizAttemptResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /courses/{courseId}/modules/{moduleId}/quiz/attempts [post]
func (c *ProgressController) AttemptQuiz(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	courseID, ok := idParam(ctx, "courseId")
	if !ok {
		return
	}

	var req QuizAttemptRequest
	if !decodeBody(ctx, &req) {
		return
	}

	result, err := c.ProgressService.AttemptQuiz(ctx.Request.Context(), caller.UserID, courseID, ctx.Param("moduleId"), req.Answers)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 获取模块学习状态
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param moduleId path string true "模块ID"
// @Success 200 {object} util.Response{data=service.ModuleStatus}
// @Failure 404 {object} util.Response
// @Router /courses/{courseId}/modules/{moduleId}/status [get]
func (c *ProgressController) GetModuleStatus(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	courseID, ok := idParam(ctx, "courseId")
	if !ok {
		return
	}

	status, err := c.ProgressService.GetModuleStatus(ctx.Request.Context(), caller.UserID, courseID, ctx.Param("moduleId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// @Summary 获取课程总体进度
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgress}
// @Router /courses/{courseId}/progress [get]
func (c *ProgressController) GetCourseProgress(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	courseID, ok := idParam(ctx, "courseId")
	if !ok {
		return
	}

	progress, err := c.ProgressService.GetCourseProgress(ctx.Request.Context(), caller.UserID, courseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
