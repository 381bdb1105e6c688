package course

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("course not found")

type (
	Repository interface {
		CreateCourse(crs Course) (Course, error)
		// QueryAllCourses returns all courses in insertion order.
		QueryAllCourses() ([]Course, error)
		GetCourseByID(id string) (Course, error)
		// GetCourseByName does a case-insensitive exact match and returns
		// the first course in insertion order. Course names are not unique;
		// with duplicate names the first one created always wins.
		GetCourseByName(name string) (Course, error)
		UpdateCourse(crs Course) (Course, error)
		DeleteCourse(id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nc NewCourse) (Course, error) {
	if err := nc.Validate(); err != nil {
		return Course{}, err
	}
	crs := Course{
		Name:      nc.Name,
		Grades:    make(map[string]int),
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateCourse(crs)
}

func (svc *Service) QueryAll() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *Service) GetByID(id string) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

func (svc *Service) GetByName(name string) (Course, error) {
	return svc.repo.GetCourseByName(name)
}

func (svc *Service) Update(crs Course) (Course, error) {
	return svc.repo.UpdateCourse(crs)
}

func (svc *Service) Delete(id string) error {
	return svc.repo.DeleteCourse(id)
}
