package course

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// TeacherID is the course's teacher slot. It is a weak reference:
	// the slot may be empty while teachers still list the course on
	// their own side.
	TeacherID null.String `json:"teacher_id"`

	// StudentIDs is the roster in enrollment order.
	StudentIDs []string `json:"student_ids"`

	// Grades holds an entry per explicitly graded student.
	// Absence of an entry means ungraded; any int is a valid grade.
	Grades map[string]int `json:"grades"`

	CreatedAt time.Time `json:"created_at"` // UTC
}

// HasStudent reports whether studentID is on the roster.
func (c *Course) HasStudent(studentID string) bool {
	for _, id := range c.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// AddStudent appends studentID to the roster, keeping enrollment order.
func (c *Course) AddStudent(studentID string) {
	c.StudentIDs = append(c.StudentIDs, studentID)
}

// RemoveStudent removes studentID from the roster and purges its grade
// entry; no-op when absent.
func (c *Course) RemoveStudent(studentID string) {
	for i, id := range c.StudentIDs {
		if id == studentID {
			c.StudentIDs = append(c.StudentIDs[:i], c.StudentIDs[i+1:]...)
			break
		}
	}
	delete(c.Grades, studentID)
}

// Grade returns the student's grade; an invalid null.Int means ungraded.
func (c *Course) Grade(studentID string) null.Int {
	if g, ok := c.Grades[studentID]; ok {
		return null.IntFrom(g)
	}
	return null.Int{}
}

// SetGrade sets or overwrites the student's grade.
func (c *Course) SetGrade(studentID string, grade int) {
	if c.Grades == nil {
		c.Grades = make(map[string]int)
	}
	c.Grades[studentID] = grade
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name string `json:"name" validate:"required"`
}

func (nc *NewCourse) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	return core.Validate.Struct(nc)
}
