// Package roster is the enrollment engine. People and courses each keep
// their own side of the relationship as an ID list; every mutator here
// must touch both sides before returning so that the two lists, the
// course's teacher slot and its gradebook never disagree.
package roster

import (
	"errors"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/course"
	"github.com/trezcool/shule/core/user"
)

var (
	// errors
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrNotEnrolled     = errors.New("not enrolled in this course")
	ErrNotAuthorized   = errors.New("you are not enrolled in this course")
)

// CourseGrade pairs a course name with the grade a student holds in it.
// An invalid null.Int means the student has not been graded yet.
type CourseGrade struct {
	CourseName string
	Grade      null.Int
}

type Service struct {
	users   user.Repository
	courses course.Repository
}

func NewService(users user.Repository, courses course.Repository) *Service {
	return &Service{users: users, courses: courses}
}

// Enroll adds crs to usr's course list. Students are also added to the
// course roster. Teachers are not: their enrollment records teaching on
// their own side only and deliberately leaves the course's teacher slot
// untouched, so a course may report no teacher while a teacher reports
// teaching it. Authorization elsewhere keys off the teacher's own list,
// never the slot.
func (svc *Service) Enroll(usr user.User, crs course.Course) error {
	usr, crs, err := svc.refresh(usr, crs)
	if err != nil {
		return err
	}
	if usr.IsEnrolled(crs.ID) {
		return ErrAlreadyEnrolled
	}

	usr.AddCourse(crs.ID)
	if _, err := svc.users.UpdateUser(usr); err != nil {
		return err
	}
	if usr.IsStudent() {
		crs.AddStudent(usr.ID)
		if _, err := svc.courses.UpdateCourse(crs); err != nil {
			return err
		}
	}
	return nil
}

// Drop removes crs from usr's course list. Students are also removed
// from the course roster and their grade entry purged; teachers clear
// the course's teacher slot if it points at them.
func (svc *Service) Drop(usr user.User, crs course.Course) error {
	usr, crs, err := svc.refresh(usr, crs)
	if err != nil {
		return err
	}
	if !usr.IsEnrolled(crs.ID) {
		return ErrNotEnrolled
	}

	usr.RemoveCourse(crs.ID)
	if _, err := svc.users.UpdateUser(usr); err != nil {
		return err
	}

	var changed bool
	if usr.IsStudent() {
		crs.RemoveStudent(usr.ID)
		changed = true
	} else if crs.TeacherID.Valid && crs.TeacherID.String == usr.ID {
		crs.TeacherID = null.String{}
		changed = true
	}
	if changed {
		if _, err := svc.courses.UpdateCourse(crs); err != nil {
			return err
		}
	}
	return nil
}

// AssignGrade sets or overwrites std's grade in crs. Any int is accepted.
func (svc *Service) AssignGrade(tchr, std user.User, crs course.Course, grade int) error {
	tchr, crs, err := svc.refresh(tchr, crs)
	if err != nil {
		return err
	}
	if !tchr.IsEnrolled(crs.ID) {
		return ErrNotAuthorized
	}
	if !crs.HasStudent(std.ID) {
		return ErrNotEnrolled
	}

	crs.SetGrade(std.ID, grade)
	_, err = svc.courses.UpdateCourse(crs)
	return err
}

// ListCourses returns the names of usr's courses in enrollment order.
func (svc *Service) ListCourses(usr user.User) ([]string, error) {
	usr, err := svc.users.GetUserByID(usr.ID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(usr.CourseIDs))
	for _, id := range usr.CourseIDs {
		crs, err := svc.courses.GetCourseByID(id)
		if err != nil {
			return nil, err
		}
		names = append(names, crs.Name)
	}
	return names, nil
}

// ListStudents returns crs's roster in enrollment order. Only a teacher
// with crs on their own course list may view it.
func (svc *Service) ListStudents(tchr user.User, crs course.Course) ([]user.User, error) {
	tchr, crs, err := svc.refresh(tchr, crs)
	if err != nil {
		return nil, err
	}
	if !tchr.IsEnrolled(crs.ID) {
		return nil, ErrNotAuthorized
	}

	students := make([]user.User, 0, len(crs.StudentIDs))
	for _, id := range crs.StudentIDs {
		std, err := svc.users.GetUserByID(id)
		if err != nil {
			return nil, err
		}
		students = append(students, std)
	}
	return students, nil
}

// CheckGrades returns, for each course in std's enrollment order, the
// course name and the grade std holds in it.
func (svc *Service) CheckGrades(std user.User) ([]CourseGrade, error) {
	std, err := svc.users.GetUserByID(std.ID)
	if err != nil {
		return nil, err
	}
	grades := make([]CourseGrade, 0, len(std.CourseIDs))
	for _, id := range std.CourseIDs {
		crs, err := svc.courses.GetCourseByID(id)
		if err != nil {
			return nil, err
		}
		grades = append(grades, CourseGrade{CourseName: crs.Name, Grade: crs.Grade(std.ID)})
	}
	return grades, nil
}

// refresh re-reads both entities so mutations always start from current
// state, even when the caller holds stale copies.
func (svc *Service) refresh(usr user.User, crs course.Course) (user.User, course.Course, error) {
	usr, err := svc.users.GetUserByID(usr.ID)
	if err != nil {
		return user.User{}, course.Course{}, err
	}
	crs, err = svc.courses.GetCourseByID(crs.ID)
	if err != nil {
		return user.User{}, course.Course{}, err
	}
	return usr, crs, nil
}
