package service

import (
	"course_progress_backend/internal/model"
	"course_progress_backend/internal/util"
)

// Gate names, reported in errors and metrics.
const (
	GateAssignmentSubmitted = "assignment_submitted"
	GatePreviousQuizPassed  = "previous_quiz_passed"
)

type CompletionResult struct {
	Percent        int `json:"percent"`
	CompletedCount int `json:"completedCount"`
}

// EvaluateLessonCompletion applies a completion toggle to progress if the
// gates allow it. progress is only modified on success.
//
// Marking a lesson complete requires its assignment to be submitted (whether
// or not the lesson marks the assignment as required) and, outside the first
// module, a passed quiz in the previous module unless that quiz has no
// questions. Un-completing is always allowed and idempotent.
func EvaluateLessonCompletion(course *model.Course, progress *model.Progress, lessonID string, completed bool) (*CompletionResult, error) {
	if lessonID == "" {
		return nil, util.NewInputError("lessonId", "lesson id is required")
	}

	ref, ok := course.FindLesson(lessonID)
	if !ok {
		return nil, util.NewNotFoundError("lessonId", "lesson %s not found in course %d", lessonID, course.ID)
	}

	if !completed {
		// 取消完成不检查门槛
		progress.CompletedLessonIDs.Remove(lessonID)
	} else {
		// 1. 作业必须已提交
		if rec, _ := progress.AssignmentState.Get(lessonID); !rec.Submitted {
			return nil, util.NewGateViolationError(GateAssignmentSubmitted,
				"assignment for lesson %s must be submitted before completing it", lessonID)
		}

		// 2. 上一模块的测验必须通过，没有题目的测验跳过
		if ref.ModuleIndex > 0 {
			prev := course.Modules[ref.ModuleIndex-1]
			if len(prev.Quiz.Questions) > 0 {
				if quiz, _ := progress.QuizState.Get(prev.ID); !quiz.Passed {
					return nil, util.NewGateViolationError(GatePreviousQuizPassed,
						"quiz of module %s must be passed before completing lesson %s", prev.ID, lessonID)
				}
			}
		}

		progress.CompletedLessonIDs.Add(lessonID)
	}

	progress.RecomputePercent(course.TotalLessons())

	return &CompletionResult{
		Percent:        progress.Percent,
		CompletedCount: len(progress.CompletedLessonIDs),
	}, nil
}
