package controller

import (
	"course_progress_backend/internal/service"
	"course_progress_backend/internal/util"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

type AssignmentSubmitRequest struct {
	Payload json.RawMessage `json:"payload" swaggertype:"object"`
}

type GradeRequest struct {
	Grade    *float64 `json:"grade"`
	Feedback string   `json:"feedback"`
}

// @Summary 提交课时作业
// @Description 重复提交会覆盖之前的提交及其评分
// @Tags 作业
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param lessonId path string true "课时ID"
// @Param body body AssignmentSubmitRequest true "作业内容"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /courses/{courseId}/lessons/{lessonId}/assignment [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	courseID, ok := idParam(ctx, "courseId")
	if !ok {
		return
	}

	var req AssignmentSubmitRequest
	if !decodeBody(ctx, &req) {
		return
	}

	result, err := c.AssignmentService.Submit(ctx.Request.Context(), caller.UserID, courseID, ctx.Param("lessonId"), req.Payload)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 批改学生作业
// @Description 仅课程负责教师或管理员可批改；评分不影响课时完成
// @Tags 教师
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param lessonId path string true "课时ID"
// @Param userId path int true "学生ID"
// @Param body body GradeRequest true "分数(0-100)与评语"
// @Success 200 {object} util.Response{data=service.GradeResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /teacher/courses/{courseId}/lessons/{lessonId}/submissions/{userId}/grade [put]
func (c *AssignmentController) Grade(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	courseID, ok := idParam(ctx, "courseId")
	if !ok {
		return
	}
	studentID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	var req GradeRequest
	if !decodeBody(ctx, &req) {
		return
	}
	if req.Grade == nil {
		util.RespondError(ctx, util.NewInputError("grade", "grade is required"))
		return
	}

	result, err := c.AssignmentService.Grade(ctx.Request.Context(), caller, courseID, ctx.Param("lessonId"), studentID, *req.Grade, req.Feedback)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
