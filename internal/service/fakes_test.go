package service

import (
	"context"
	"course_progress_backend/internal/model"
	"course_progress_backend/internal/util"
	"course_progress_backend/pkg/lock"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type fakeCourses struct {
	courses map[uint]*model.Course
}

func (f *fakeCourses) GetCourse(_ context.Context, id uint) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, util.NewNotFoundError("courseId", "course %d not found", id)
	}
	return c, nil
}

type fakeEnrollments struct {
	mu   sync.Mutex
	rows []model.Enrollment
}

func (f *fakeEnrollments) enroll(userID, courseID uint, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := model.Enrollment{UserID: userID, CourseID: courseID}
	e.ID = fmt.Sprintf("e-%d-%d", userID, courseID)
	e.CreatedAt = at
	f.rows = append(f.rows, e)
}

func (f *fakeEnrollments) Exists(_ context.Context, userID, courseID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.rows {
		if e.UserID == userID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollments) ListByCourse(_ context.Context, courseID uint) ([]model.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Enrollment
	for _, e := range f.rows {
		if e.CourseID == courseID {
			out = append(out, e)
		}
	}
	return out, nil
}

type progressKeyPair struct{ user, course uint }

// fakeProgressStore copies records in and out through JSON, the way a real
// store round-trips them. Mutate reads and writes under separate critical
// sections, so only the caller's locking keeps concurrent writers apart.
type fakeProgressStore struct {
	mu      sync.Mutex
	records map[progressKeyPair][]byte
	failing error
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{records: make(map[progressKeyPair][]byte)}
}

func (f *fakeProgressStore) load(key progressKeyPair) (*model.Progress, bool) {
	f.mu.Lock()
	raw, ok := f.records[key]
	f.mu.Unlock()
	if !ok {
		return nil, false
	}
	var p model.Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		panic(err)
	}
	return &p, true
}

func (f *fakeProgressStore) Find(_ context.Context, userID, courseID uint) (*model.Progress, error) {
	p, ok := f.load(progressKeyPair{userID, courseID})
	if !ok {
		return nil, util.NewNotFoundError("progress", "no progress")
	}
	return p, nil
}

func (f *fakeProgressStore) ListByCourse(_ context.Context, courseID uint) ([]model.Progress, error) {
	f.mu.Lock()
	keys := make([]progressKeyPair, 0)
	for k := range f.records {
		if k.course == courseID {
			keys = append(keys, k)
		}
	}
	f.mu.Unlock()

	out := make([]model.Progress, 0, len(keys))
	for _, k := range keys {
		p, _ := f.load(k)
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProgressStore) Mutate(_ context.Context, userID, courseID uint, fn func(p *model.Progress) error) (*model.Progress, error) {
	if f.failing != nil {
		return nil, f.failing
	}
	key := progressKeyPair{userID, courseID}
	p, ok := f.load(key)
	if !ok {
		p = &model.Progress{UserID: userID, CourseID: courseID}
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	time.Sleep(100 * time.Microsecond)
	f.mu.Lock()
	f.records[key] = raw
	f.mu.Unlock()
	return p, nil
}

func (f *fakeProgressStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeUsers struct {
	users map[uint]model.User
}

func (f *fakeUsers) FindByIDs(_ context.Context, ids []uint) (map[uint]model.User, error) {
	out := make(map[uint]model.User, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// question builds a one-of-four question whose correct option is stored
// under field.
func question(field string, correct any) model.Question {
	return model.NewQuestion("pick one", []string{"a", "b", "c", "d"}, map[string]any{field: correct})
}

func questions(n, correct int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = question("correctIndex", correct)
	}
	return qs
}

func pct(v float64) *float64 { return &v }

const (
	teacherID  uint = 100
	studentID  uint = 7
	outsiderID uint = 8
	courseID   uint = 1
)

// testCourse: module m1 (lessons l1, l2) with a ten question quiz at 75%,
// module m2 (lessons l3, l4) with a three question quiz, module m3 (l5)
// without quiz questions.
func testCourse() *model.Course {
	c := &model.Course{
		Title:   "Go for beginners",
		OwnerID: teacherID,
		Modules: []model.Module{
			{
				ID: "m1", Title: "Basics", Order: 1,
				Lessons: []model.Lesson{{ID: "l1", Title: "Intro"}, {ID: "l2", Title: "Setup"}},
				Quiz:    model.Quiz{Questions: questions(10, 0), PassPercent: pct(75)},
			},
			{
				ID: "m2", Title: "Types", Order: 2,
				Lessons: []model.Lesson{{ID: "l3", Title: "Structs"}, {ID: "l4", Title: "Interfaces", Assignment: model.LessonAssignment{Required: true}}},
				Quiz:    model.Quiz{Questions: questions(3, 1)},
			},
			{
				ID: "m3", Title: "Wrap up", Order: 3,
				Lessons: []model.Lesson{{ID: "l5", Title: "Review"}},
			},
		},
	}
	c.ID = courseID
	return c
}

type fixture struct {
	courses     *fakeCourses
	enrollments *fakeEnrollments
	store       *fakeProgressStore
	users       *fakeUsers
	progress    *ProgressService
	assignments *AssignmentService
	reports     *ReportService
	clock       time.Time
}

func newFixture() *fixture {
	f := &fixture{
		courses:     &fakeCourses{courses: map[uint]*model.Course{courseID: testCourse()}},
		enrollments: &fakeEnrollments{},
		store:       newFakeProgressStore(),
		users: &fakeUsers{users: map[uint]model.User{
			studentID:  {BaseModel: model.BaseModel{ID: studentID}, Name: "Ada", Email: "ada@example.com", Role: model.Student},
			outsiderID: {BaseModel: model.BaseModel{ID: outsiderID}, Name: "Bob", Email: "bob@example.com", Role: model.Student},
		}},
		clock: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	locker := lock.NewLocalLocker(5 * time.Second)
	f.progress = NewProgressService(f.courses, f.enrollments, f.store, locker)
	f.assignments = NewAssignmentService(f.courses, f.enrollments, f.store, locker)
	f.reports = NewReportService(f.courses, f.enrollments, f.store, f.users)

	now := func() time.Time { return f.clock }
	f.progress.now = now
	f.assignments.now = now

	f.enrollments.enroll(studentID, courseID, f.clock.Add(-time.Hour))
	return f
}

func (f *fixture) tick() {
	f.clock = f.clock.Add(time.Minute)
}

// answers returns n answers of which the first correct ones equal want.
func answers(n, correct, want int) []any {
	out := make([]any, n)
	for i := range out {
		if i < correct {
			out[i] = want
		} else {
			out[i] = want + 1
		}
	}
	return out
}
