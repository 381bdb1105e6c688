package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/course"
	"github.com/trezcool/shule/core/user"
)

// NewTestConfig returns a Config pointing at a throwaway snapshot path.
func NewTestConfig(t *testing.T) *core.Config {
	conf := core.NewConfig()
	conf.TestMode = true
	conf.SnapshotPath = filepath.Join(t.TempDir(), "data.gob")
	return conf
}

// CreateUser persists a User directly through the repository, bypassing
// input validation.
func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, pwd, role string,
) user.User {
	usr := user.User{
		Name:      name,
		Username:  uname,
		Password:  pwd,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateCourse persists a Course directly through the repository.
func CreateCourse(t *testing.T, repo course.Repository, name string) course.Course {
	crs := course.Course{
		Name:      name,
		Grades:    make(map[string]int),
		CreatedAt: time.Now().UTC(),
	}
	crs, err := repo.CreateCourse(crs)
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}
