package model

import (
	"encoding/json"
	"math"
	"time"
)

// Progress is the per (user, course) record of completion and assessment
// state. It is created lazily by the first mutation for the pair.
type Progress struct {
	UUIDBase
	UserID             uint               `gorm:"uniqueIndex:idx_progress_user_course;not null" json:"userId"`
	CourseID           uint               `gorm:"uniqueIndex:idx_progress_user_course;index;not null" json:"courseId"`
	CompletedLessonIDs LessonSet          `gorm:"serializer:json;type:text" json:"completedLessonIds"`
	Percent            int                `gorm:"not null;default:0" json:"percent"`
	AssignmentState    AssignmentStateMap `gorm:"serializer:json;type:text" json:"assignmentState"`
	QuizState          QuizStateMap       `gorm:"serializer:json;type:text" json:"quizState"`
	Version            int                `gorm:"not null;default:0" json:"-"`
}

func (Progress) TableName() string {
	return "progress"
}

// RecomputePercent applies round(100 * completed / total), bounded to [0,100].
func (p *Progress) RecomputePercent(totalLessons int) {
	p.Percent = CompletionPercent(len(p.CompletedLessonIDs), totalLessons)
}

func CompletionPercent(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(completed) / float64(total)))
	if pct > 100 {
		return 100
	}
	return pct
}

// LessonSet is an insertion-ordered set of lesson ids.
type LessonSet []string

func (s LessonSet) Has(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add reports whether id was newly inserted.
func (s *LessonSet) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	*s = append(*s, id)
	return true
}

// Remove reports whether id was present.
func (s *LessonSet) Remove(id string) bool {
	for i, v := range *s {
		if v == id {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// CountIn counts members that belong to ids.
func (s LessonSet) CountIn(ids map[string]bool) int {
	n := 0
	for _, v := range s {
		if ids[v] {
			n++
		}
	}
	return n
}

type AssignmentRecord struct {
	Submitted   bool            `json:"submitted"`
	Graded      bool            `json:"graded"`
	Passed      bool            `json:"passed"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	SubmittedAt *time.Time      `json:"submittedAt,omitempty"`
	Grade       *int            `json:"grade,omitempty"`
	Feedback    string          `json:"feedback,omitempty"`
	GradedAt    *time.Time      `json:"gradedAt,omitempty"`
	GradedBy    *uint           `json:"gradedBy,omitempty"`
}

// AssignmentStateMap holds one slot per lesson. Writers go through Put so
// that a mutation touches its own key and leaves the rest alone.
type AssignmentStateMap map[string]AssignmentRecord

func (m AssignmentStateMap) Get(lessonID string) (AssignmentRecord, bool) {
	rec, ok := m[lessonID]
	return rec, ok
}

func (m *AssignmentStateMap) Put(lessonID string, rec AssignmentRecord) {
	if *m == nil {
		*m = make(AssignmentStateMap)
	}
	(*m)[lessonID] = rec
}

type QuizRecord struct {
	Attempts       int       `json:"attempts"`
	LastScore      int       `json:"lastScore"`
	Passed         bool      `json:"passed"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectCount   int       `json:"correctCount"`
	PassPercent    float64   `json:"passPercent"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// QuizStateMap holds one record per module, keyed by module id.
type QuizStateMap map[string]QuizRecord

func (m QuizStateMap) Get(moduleID string) (QuizRecord, bool) {
	rec, ok := m[moduleID]
	return rec, ok
}

func (m *QuizStateMap) Put(moduleID string, rec QuizRecord) {
	if *m == nil {
		*m = make(QuizStateMap)
	}
	(*m)[moduleID] = rec
}
