package service

import (
	"testing"

	"course_progress_backend/internal/model"
	"course_progress_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func submitted(p *model.Progress, lessonIDs ...string) {
	for _, id := range lessonIDs {
		p.AssignmentState.Put(id, model.AssignmentRecord{Submitted: true, Passed: true})
	}
}

func TestEvaluateLessonCompletionRequiresSubmission(t *testing.T) {
	course := testCourse()
	p := &model.Progress{}

	_, err := EvaluateLessonCompletion(course, p, "l1", true)
	require.ErrorIs(t, err, util.ErrGateViolation)
	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, GateAssignmentSubmitted, appErr.Field)
	assert.Empty(t, p.CompletedLessonIDs)

	submitted(p, "l1")
	res, err := EvaluateLessonCompletion(course, p, "l1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CompletedCount)
	assert.Equal(t, 20, res.Percent)
}

func TestEvaluateLessonCompletionPreviousQuizGate(t *testing.T) {
	course := testCourse()
	p := &model.Progress{}
	submitted(p, "l3")

	_, err := EvaluateLessonCompletion(course, p, "l3", true)
	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, GatePreviousQuizPassed, appErr.Field)

	p.QuizState.Put("m1", model.QuizRecord{Attempts: 1, LastScore: 60, Passed: false})
	_, err = EvaluateLessonCompletion(course, p, "l3", true)
	assert.ErrorIs(t, err, util.ErrGateViolation)

	p.QuizState.Put("m1", model.QuizRecord{Attempts: 2, LastScore: 80, Passed: true})
	res, err := EvaluateLessonCompletion(course, p, "l3", true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CompletedCount)
}

func TestEvaluateLessonCompletionSkipsEmptyPreviousQuiz(t *testing.T) {
	course := testCourse()
	course.Modules[0].Quiz.Questions = nil
	p := &model.Progress{}
	submitted(p, "l3")

	res, err := EvaluateLessonCompletion(course, p, "l3", true)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Percent)
}

func TestEvaluateLessonCompletionUncomplete(t *testing.T) {
	course := testCourse()
	p := &model.Progress{}

	// never completed, no submission: still fine
	res, err := EvaluateLessonCompletion(course, p, "l4", false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Percent)

	submitted(p, "l1", "l2")
	_, err = EvaluateLessonCompletion(course, p, "l1", true)
	require.NoError(t, err)
	_, err = EvaluateLessonCompletion(course, p, "l2", true)
	require.NoError(t, err)
	assert.Equal(t, 40, p.Percent)

	res, err = EvaluateLessonCompletion(course, p, "l1", false)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Percent)
	assert.Equal(t, model.LessonSet{"l2"}, p.CompletedLessonIDs)

	res, err = EvaluateLessonCompletion(course, p, "l1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CompletedCount)
}

func TestEvaluateLessonCompletionCompleteTwice(t *testing.T) {
	course := testCourse()
	p := &model.Progress{}
	submitted(p, "l1")

	_, err := EvaluateLessonCompletion(course, p, "l1", true)
	require.NoError(t, err)
	res, err := EvaluateLessonCompletion(course, p, "l1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CompletedCount)
	assert.Equal(t, 20, res.Percent)
}

func TestEvaluateLessonCompletionUnknownLesson(t *testing.T) {
	course := testCourse()
	p := &model.Progress{}

	_, err := EvaluateLessonCompletion(course, p, "nope", true)
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = EvaluateLessonCompletion(course, p, "", true)
	assert.ErrorIs(t, err, util.ErrInput)
}

func TestEvaluateLessonCompletionNoLessons(t *testing.T) {
	course := &model.Course{Modules: []model.Module{{ID: "m"}}}
	assert.Equal(t, 0, model.CompletionPercent(0, course.TotalLessons()))
}

func TestCompletionPercentProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(0, 200).Draw(t, "total")
		done := rapid.IntRange(0, 250).Draw(t, "done")

		got := model.CompletionPercent(done, total)
		if got < 0 || got > 100 {
			t.Fatalf("percent out of range: %d", got)
		}
		if total == 0 && got != 0 {
			t.Fatalf("empty course must report 0, got %d", got)
		}
		if done == total && total > 0 && got != 100 {
			t.Fatalf("all lessons done must report 100, got %d", got)
		}
	})
}

// Whatever sequence of toggles is applied, the stored percent matches the
// completed set and every completed lesson had a submission.
func TestEvaluateLessonCompletionSequences(t *testing.T) {
	course := testCourse()
	course.Modules[0].Quiz.Questions = nil
	course.Modules[1].Quiz.Questions = nil
	var lessons []string
	for _, m := range course.Modules {
		for _, l := range m.Lessons {
			lessons = append(lessons, l.ID)
		}
	}

	rapid.Check(t, func(t *rapid.T) {
		p := &model.Progress{}
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			id := rapid.SampledFrom(lessons).Draw(t, "lesson")
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				submitted(p, id)
			case 1:
				_, _ = EvaluateLessonCompletion(course, p, id, true)
			case 2:
				_, _ = EvaluateLessonCompletion(course, p, id, false)
			}

			seen := map[string]bool{}
			for _, done := range p.CompletedLessonIDs {
				if seen[done] {
					t.Fatalf("lesson %s completed twice", done)
				}
				seen[done] = true
				if rec, _ := p.AssignmentState.Get(done); !rec.Submitted {
					t.Fatalf("lesson %s completed without submission", done)
				}
			}
			if want := model.CompletionPercent(len(p.CompletedLessonIDs), course.TotalLessons()); p.Percent != want {
				t.Fatalf("percent %d, want %d", p.Percent, want)
			}
		}
	})
}
