package service

import (
	"context"
	"course_progress_backend/internal/model"
	"course_progress_backend/internal/util"
	"fmt"
)

// Caller is the authenticated user behind a request.
type Caller struct {
	UserID uint
	Role   model.UserRole
}

// CanManageCourse reports whether caller may act as the course's teacher:
// admins always, everyone else only when listed among the owner candidates.
func CanManageCourse(course *model.Course, caller Caller) bool {
	if caller.Role == model.Admin {
		return true
	}
	if caller.UserID == 0 {
		return false
	}
	for _, id := range course.OwnerCandidates() {
		if id == caller.UserID {
			return true
		}
	}
	return false
}

func requireEnrollment(ctx context.Context, registry EnrollmentRegistry, userID, courseID uint) error {
	ok, err := registry.Exists(ctx, userID, courseID)
	if err != nil {
		return fmt.Errorf("check enrollment: %w", err)
	}
	if !ok {
		return util.NewForbiddenError("user %d is not enrolled in course %d", userID, courseID)
	}
	return nil
}
