package controller

import (
	"course_progress_backend/internal/service"
	"course_progress_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// @Summary 获取课程学生列表
// @Description 按报名时间排序，附带学习进度
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=[]service.EnrolledStudent}
// @Failure 403 {object} util.Response
// @Router /teacher/courses/{courseId}/students [get]
func (c *ReportController) ListStudents(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	courseID, ok := idParam(ctx, "courseId")
	if !ok {
		return
	}

	rows, err := c.ReportService.ListEnrolledStudents(ctx.Request.Context(), caller, courseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary 获取课程作业提交列表
// @Description 最新提交在前
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=[]service.SubmissionRow}
// @Failure 403 {object} util.Response
// @Router /teacher/courses/{courseId}/submissions [get]
func (c *ReportController) ListSubmissions(ctx *gin.Context) {
	caller, ok := currentCaller(ctx)
	if !ok {
		return
	}
	courseID, ok := idParam(ctx, "courseId")
	if !ok {
		return
	}

	rows, err := c.ReportService.ListAssignmentSubmissions(ctx.Request.Context(), caller, courseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
