package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"course_progress_backend/internal/model"
	"course_progress_backend/internal/util"
)

const DefaultPassPercent = 75.0

// Field names checked, in order, for the learner's chosen option when an
// answer is submitted as an object.
var answerIndexFields = []string{"answerIndex", "selectedIndex", "index", "choice"}

// Field names checked, in order, for a question's correct option.
var correctIndexFields = []string{"correctIndex", "correctAnswerIndex", "answerIndex", "correct", "answer"}

type QuizGrade struct {
	Passed       bool    `json:"passed"`
	ScorePercent int     `json:"scorePercent"`
	CorrectCount int     `json:"correctCount"`
	Total        int     `json:"total"`
	PassPercent  float64 `json:"passPercent"`
}

// integerValue accepts integral JSON/Go numbers only.
func integerValue(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) || x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i), true
		}
		if f, err := x.Float64(); err == nil {
			return integerValue(f)
		}
	}
	return 0, false
}

// NormalizeAnswerIndex turns one submitted answer into an option index. It
// accepts an integer, a numeric string, or an object carrying the index under
// one of answerIndexFields. Anything else is unresolved.
func NormalizeAnswerIndex(v any) (int, bool) {
	switch x := v.(type) {
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return i, true
	case map[string]any:
		for _, name := range answerIndexFields {
			if fv, ok := x[name]; ok {
				if i, ok := integerValue(fv); ok {
					return i, true
				}
			}
		}
		return 0, false
	default:
		return integerValue(v)
	}
}

// CorrectIndex returns the first integer found under correctIndexFields.
func CorrectIndex(q model.Question) (int, bool) {
	for _, name := range correctIndexFields {
		raw, ok := q.Field(name)
		if !ok {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			continue
		}
		if i, ok := integerValue(v); ok {
			return i, true
		}
	}
	return 0, false
}

// PassPercent is the module's configured bar, or DefaultPassPercent when it
// is unset or not a finite number.
func PassPercent(module *model.Module) float64 {
	p := module.Quiz.PassPercent
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return DefaultPassPercent
	}
	return *p
}

func answerList(rawAnswers any) ([]any, bool) {
	switch x := rawAnswers.(type) {
	case []any:
		return x, true
	default:
		return nil, false
	}
}

// GradeAttempt scores answers against the module quiz by position: answer i
// is compared with question i. Unresolvable answers or questions count as
// incorrect. The function has no side effects.
func GradeAttempt(module *model.Module, rawAnswers any) (*QuizGrade, error) {
	answers, ok := answerList(rawAnswers)
	if !ok {
		return nil, util.NewInputError("answers", "answers must be a list")
	}

	questions := module.Quiz.Questions
	if len(questions) == 0 {
		return nil, util.NewConfigurationError("quiz", "module %s has no quiz questions", module.ID)
	}

	// 按位置逐题比对，多余的答案忽略
	correct := 0
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		want, ok := CorrectIndex(q)
		if !ok {
			continue
		}
		got, ok := NormalizeAnswerIndex(answers[i])
		if ok && got == want {
			correct++
		}
	}

	total := len(questions)
	score := int(math.Round(100 * float64(correct) / float64(total)))
	bar := PassPercent(module)

	return &QuizGrade{
		Passed:       float64(score) >= bar,
		ScorePercent: score,
		CorrectCount: correct,
		Total:        total,
		PassPercent:  bar,
	}, nil
}
