// Package inmemdb holds the whole directory in memory: one table per
// entity kind, records keyed by ID with insertion order tracked on the
// side. Repositories hand out copies; records never leak by reference.
package inmemdb

import (
	"sync"

	"github.com/trezcool/shule/core/course"
	"github.com/trezcool/shule/core/user"
)

type (
	DB struct {
		users   *userTable
		courses *courseTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
		order []string
	}

	courseTable struct {
		sync.RWMutex
		table map[string]*course.Course
		order []string
	}
)

func Open() (*DB, error) {
	db := &DB{
		users:   &userTable{table: make(map[string]*user.User)},
		courses: &courseTable{table: make(map[string]*course.Course)},
	}
	return db, nil
}

// Snapshot is the serializable image of the whole directory, insertion
// order included.
type Snapshot struct {
	Users   []user.User
	Courses []course.Course
}

// Dump copies the full directory state out of the DB.
func (db *DB) Dump() Snapshot {
	db.users.RLock()
	db.courses.RLock()
	defer db.users.RUnlock()
	defer db.courses.RUnlock()

	snap := Snapshot{
		Users:   make([]user.User, 0, len(db.users.order)),
		Courses: make([]course.Course, 0, len(db.courses.order)),
	}
	for _, id := range db.users.order {
		snap.Users = append(snap.Users, copyUser(db.users.table[id]))
	}
	for _, id := range db.courses.order {
		snap.Courses = append(snap.Courses, copyCourse(db.courses.table[id]))
	}
	return snap
}

// Restore replaces the full directory state with snap.
func (db *DB) Restore(snap Snapshot) {
	db.users.Lock()
	db.courses.Lock()
	defer db.users.Unlock()
	defer db.courses.Unlock()

	db.users.table = make(map[string]*user.User, len(snap.Users))
	db.users.order = make([]string, 0, len(snap.Users))
	for _, usr := range snap.Users {
		u := copyUser(&usr)
		db.users.table[u.ID] = &u
		db.users.order = append(db.users.order, u.ID)
	}

	db.courses.table = make(map[string]*course.Course, len(snap.Courses))
	db.courses.order = make([]string, 0, len(snap.Courses))
	for _, crs := range snap.Courses {
		c := copyCourse(&crs)
		db.courses.table[c.ID] = &c
		db.courses.order = append(db.courses.order, c.ID)
	}
}

func copyUser(usr *user.User) user.User {
	cp := *usr
	cp.CourseIDs = append([]string(nil), usr.CourseIDs...)
	return cp
}

func copyCourse(crs *course.Course) course.Course {
	cp := *crs
	cp.StudentIDs = append([]string(nil), crs.StudentIDs...)
	cp.Grades = make(map[string]int, len(crs.Grades))
	for id, g := range crs.Grades {
		cp.Grades[id] = g
	}
	return cp
}
