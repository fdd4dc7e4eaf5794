package model

// Enrollment records that a user joined a course. It is created once by the
// enrollment flow and never updated.
type Enrollment struct {
	UUIDBase
	UserID   uint `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"userId"`
	CourseID uint `gorm:"uniqueIndex:idx_enrollment_user_course;index;not null" json:"courseId"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
