package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type GenerationStatus string

const (
	GenerationPending GenerationStatus = "pending"
	GenerationDone    GenerationStatus = "done"
	GenerationFailed  GenerationStatus = "failed"
)

// Course is owned by the catalogue; this service only reads it. Modules are
// written once by the content generator, GenerationStatus tells whether that
// has happened yet.
type Course struct {
	BaseModel
	Title            string           `gorm:"size:255;not null" json:"title"`
	OwnerID          uint             `gorm:"index" json:"ownerId"`
	CreatedBy        uint             `json:"createdBy"`
	Instructors      []uint           `gorm:"serializer:json;type:text" json:"instructors"`
	GenerationStatus GenerationStatus `gorm:"size:20;default:'done'" json:"generationStatus"`
	Modules          []Module         `gorm:"serializer:json;type:text" json:"modules"`
}

func (Course) TableName() string {
	return "courses"
}

type Module struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Order   int      `json:"order"`
	Lessons []Lesson `json:"lessons"`
	Quiz    Quiz     `json:"quiz"`
}

// 内容生成器写入的 order 可能是字符串，解析不了时按 0 处理
func (m *Module) UnmarshalJSON(data []byte) error {
	type plain Module
	var raw struct {
		plain
		Order json.RawMessage `json:"order"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Module(raw.plain)
	m.Order = 0
	if f, ok := lenientNumber(raw.Order); ok && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
		m.Order = int(f)
	}
	return nil
}

type Lesson struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Assignment LessonAssignment `json:"assignment"`
}

type LessonAssignment struct {
	Required bool `json:"required"`
}

type Quiz struct {
	Questions   []Question `json:"questions"`
	PassPercent *float64   `json:"passPercent,omitempty"`
}

// passPercent 接受数字或数字字符串，其它值视为未设置
func (q *Quiz) UnmarshalJSON(data []byte) error {
	type plain Quiz
	var raw struct {
		plain
		PassPercent json.RawMessage `json:"passPercent"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*q = Quiz(raw.plain)
	q.PassPercent = nil
	if f, ok := lenientNumber(raw.PassPercent); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		q.PassPercent = &f
	}
	return nil
}

// lenientNumber reads a JSON number or a numeric string.
func lenientNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// Question keeps every field it was stored with. Authoring tools disagree on
// where the correct option lives, so the raw fields stay addressable by name.
type Question struct {
	Prompt  string
	Options []string
	fields  map[string]json.RawMessage
}

// NewQuestion builds a question with extra named fields, e.g.
// {"correctIndex": 2}.
func NewQuestion(prompt string, options []string, fields map[string]any) Question {
	q := Question{Prompt: prompt, Options: options, fields: make(map[string]json.RawMessage, len(fields))}
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			continue
		}
		q.fields[k] = raw
	}
	return q
}

// Field returns the raw JSON stored under name.
func (q Question) Field(name string) (json.RawMessage, bool) {
	raw, ok := q.fields[name]
	return raw, ok
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	q.fields = raw
	q.Prompt = ""
	q.Options = nil
	if p, ok := raw["prompt"]; ok {
		_ = json.Unmarshal(p, &q.Prompt)
	}
	if o, ok := raw["options"]; ok {
		_ = json.Unmarshal(o, &q.Options)
	}
	return nil
}

func (q Question) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(q.fields)+2)
	for k, v := range q.fields {
		out[k] = v
	}
	prompt, err := json.Marshal(q.Prompt)
	if err != nil {
		return nil, err
	}
	out["prompt"] = prompt
	if q.Options != nil {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return nil, err
		}
		out["options"] = options
	}
	return json.Marshal(out)
}

// LessonRef locates a lesson inside the course tree.
type LessonRef struct {
	ModuleIndex int
	LessonIndex int
	ModuleID    string
	ModuleTitle string
	LessonTitle string
}

// FindLesson resolves a lesson id to its position in the tree.
func (c *Course) FindLesson(lessonID string) (LessonRef, bool) {
	for mi, m := range c.Modules {
		for li, l := range m.Lessons {
			if l.ID == lessonID {
				return LessonRef{
					ModuleIndex: mi,
					LessonIndex: li,
					ModuleID:    m.ID,
					ModuleTitle: m.Title,
					LessonTitle: l.Title,
				}, true
			}
		}
	}
	return LessonRef{}, false
}

func (c *Course) FindModule(moduleID string) (int, bool) {
	for i, m := range c.Modules {
		if m.ID == moduleID {
			return i, true
		}
	}
	return -1, false
}

func (c *Course) TotalLessons() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Lessons)
	}
	return n
}

// LessonIndex maps every lesson id to its titles, for report rows.
func (c *Course) LessonIndex() map[string]LessonRef {
	idx := make(map[string]LessonRef, c.TotalLessons())
	for mi, m := range c.Modules {
		for li, l := range m.Lessons {
			idx[l.ID] = LessonRef{
				ModuleIndex: mi,
				LessonIndex: li,
				ModuleID:    m.ID,
				ModuleTitle: m.Title,
				LessonTitle: l.Title,
			}
		}
	}
	return idx
}

// OwnerCandidates lists every user id that may manage the course.
func (c *Course) OwnerCandidates() []uint {
	ids := make([]uint, 0, 2+len(c.Instructors))
	seen := make(map[uint]bool, cap(ids))
	add := func(id uint) {
		if id == 0 || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}
	add(c.OwnerID)
	add(c.CreatedBy)
	for _, id := range c.Instructors {
		add(id)
	}
	return ids
}
