package user

import (
	"time"

	"github.com/trezcool/shule/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

var Roles = []Role{
	{Name: "Student", Value: RoleStudent},
	{Name: "Teacher", Value: RoleTeacher},
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"-"`
	Role     string `json:"role"`

	// CourseIDs is the user's course list in enrollment order.
	// For teachers this is the set of courses they teach; it does not
	// imply the course's teacher slot points back at them.
	CourseIDs []string `json:"course_ids"`

	CreatedAt time.Time `json:"created_at"` // UTC
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CheckPassword compares pwd against the stored password.
// Credentials are plain strings compared for equality.
func (u *User) CheckPassword(pwd string) bool {
	return u.Password == pwd
}

// IsEnrolled reports whether courseID is in the user's course list.
func (u *User) IsEnrolled(courseID string) bool {
	for _, id := range u.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// AddCourse appends courseID to the course list, keeping enrollment order.
func (u *User) AddCourse(courseID string) {
	u.CourseIDs = append(u.CourseIDs, courseID)
}

// RemoveCourse removes courseID from the course list; no-op when absent.
func (u *User) RemoveCourse(courseID string) {
	for i, id := range u.CourseIDs {
		if id == courseID {
			u.CourseIDs = append(u.CourseIDs[:i], u.CourseIDs[i+1:]...)
			return
		}
	}
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required,min=3,alphanum_"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,accountrole"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Username)
}
