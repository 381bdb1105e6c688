// Package registry is the administrative directory: it owns account and
// course lifecycles and guarantees that deletions unwind every roster
// link before an entity disappears.
package registry

import (
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/course"
	"github.com/trezcool/shule/core/roster"
	"github.com/trezcool/shule/core/user"
)

type Service struct {
	users   *user.Service
	courses *course.Service
	roster  *roster.Service
	conf    *core.Config
}

func NewService(users *user.Service, courses *course.Service, rst *roster.Service, conf *core.Config) *Service {
	return &Service{
		users:   users,
		courses: courses,
		roster:  rst,
		conf:    conf,
	}
}

func (svc *Service) CreateUser(nu user.NewUser) (user.User, error) {
	return svc.users.Create(nu)
}

func (svc *Service) CreateCourse(nc course.NewCourse) (course.Course, error) {
	return svc.courses.Create(nc)
}

// DeleteUser drops every roster link the user holds, then removes the
// account. The cascade is mandatory: skipping it would leave dangling
// IDs on course rosters or in the teacher slot.
func (svc *Service) DeleteUser(usr user.User) error {
	usr, err := svc.users.GetByID(usr.ID)
	if err != nil {
		return err
	}
	// snapshot the list; Drop mutates it
	courseIDs := make([]string, len(usr.CourseIDs))
	copy(courseIDs, usr.CourseIDs)

	for _, id := range courseIDs {
		crs, err := svc.courses.GetByID(id)
		if err != nil {
			return err
		}
		if err := svc.roster.Drop(usr, crs); err != nil {
			return err
		}
	}
	return svc.users.Delete(usr.ID)
}

// DeleteCourse drops every enrolled student and every teacher listing
// the course, then removes it. Teachers are swept by scan since the
// teacher slot alone does not account for all of them.
func (svc *Service) DeleteCourse(crs course.Course) error {
	crs, err := svc.courses.GetByID(crs.ID)
	if err != nil {
		return err
	}
	studentIDs := make([]string, len(crs.StudentIDs))
	copy(studentIDs, crs.StudentIDs)

	for _, id := range studentIDs {
		std, err := svc.users.GetByID(id)
		if err != nil {
			return err
		}
		if err := svc.roster.Drop(std, crs); err != nil {
			return err
		}
	}

	teachers, err := svc.users.QueryByRole(user.RoleTeacher)
	if err != nil {
		return err
	}
	for _, tchr := range teachers {
		if tchr.IsEnrolled(crs.ID) {
			if err := svc.roster.Drop(tchr, crs); err != nil {
				return err
			}
		}
	}
	return svc.courses.Delete(crs.ID)
}

// Authenticate resolves a credential pair to a user: students and
// teachers first in insertion order, then the fixed admin credential
// from config. Usernames are stored lowercased, so the typed username
// is lowered the same way before matching; passwords are plain equality.
func (svc *Service) Authenticate(username, password string) (user.User, error) {
	username = core.CleanString(username, true /* lower */)
	for _, role := range []string{user.RoleStudent, user.RoleTeacher} {
		users, err := svc.users.QueryByRole(role)
		if err != nil {
			return user.User{}, err
		}
		for _, usr := range users {
			if usr.Username == username && usr.CheckPassword(password) {
				return usr, nil
			}
		}
	}
	if username == svc.conf.Admin.Username && password == svc.conf.Admin.Password {
		return user.User{
			Name:     "Administrator",
			Username: svc.conf.Admin.Username,
			Role:     user.RoleAdmin,
		}, nil
	}
	return user.User{}, user.ErrNotFound
}

func (svc *Service) CourseByName(name string) (course.Course, error) {
	return svc.courses.GetByName(name)
}

func (svc *Service) StudentByName(name string) (user.User, error) {
	return svc.users.GetByName(name, user.RoleStudent)
}

func (svc *Service) UserByUsername(uname string) (user.User, error) {
	return svc.users.GetByUsername(uname)
}

func (svc *Service) Students() ([]user.User, error) {
	return svc.users.QueryByRole(user.RoleStudent)
}

func (svc *Service) Teachers() ([]user.User, error) {
	return svc.users.QueryByRole(user.RoleTeacher)
}

func (svc *Service) Courses() ([]course.Course, error) {
	return svc.courses.QueryAll()
}

// Seed populates an empty directory with the sample data set. A loaded
// snapshot replaces it wholesale, so seeding is safe to run first.
func (svc *Service) Seed() error {
	newUsers := []user.NewUser{
		{Name: "Admin", Username: "admin", Password: "admin", Role: user.RoleStudent},
		{Name: "John Doe", Username: "jdoe", Password: "password", Role: user.RoleTeacher},
	}
	for _, nu := range newUsers {
		if _, err := svc.users.Create(nu); err != nil {
			return err
		}
	}
	for _, name := range []string{"Mathematics", "Science"} {
		if _, err := svc.courses.Create(course.NewCourse{Name: name}); err != nil {
			return err
		}
	}
	return nil
}
