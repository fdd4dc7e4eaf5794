package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// User is the identity row joined into teacher-facing reports. Accounts are
// created and authenticated elsewhere.
type User struct {
	BaseModel
	Name  string   `gorm:"size:100;not null" json:"name"`
	Email string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Role  UserRole `gorm:"size:20;default:'student'" json:"role"`
}

func (User) TableName() string {
	return "users"
}
