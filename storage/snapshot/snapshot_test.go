package snapshot_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/roster"
	"github.com/trezcool/shule/core/user"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
	"github.com/trezcool/shule/storage/snapshot"
	testutil "github.com/trezcool/shule/tests"
)

func TestStore_roundTrip(t *testing.T) {
	conf := testutil.NewTestConfig(t)
	db, err := inmemdb.Open()
	require.NoError(t, err)
	usrRepo := inmemdb.NewUserRepository(db)
	crsRepo := inmemdb.NewCourseRepository(db)
	rst := roster.NewService(usrRepo, crsRepo)

	jdoe := testutil.CreateUser(t, usrRepo, "John Doe", "jdoe", "password", user.RoleTeacher)
	ann := testutil.CreateUser(t, usrRepo, "Ann", "ann", "pass", user.RoleStudent)
	math := testutil.CreateCourse(t, crsRepo, "Mathematics")
	require.NoError(t, rst.Enroll(jdoe, math))
	require.NoError(t, rst.Enroll(ann, math))
	require.NoError(t, rst.AssignGrade(jdoe, ann, math, 90))
	math, err = crsRepo.GetCourseByID(math.ID)
	require.NoError(t, err)
	math.TeacherID = null.StringFrom(jdoe.ID)
	_, err = crsRepo.UpdateCourse(math)
	require.NoError(t, err)

	require.NoError(t, snapshot.NewStore(conf, db).Save())

	// load into a fresh DB
	db2, err := inmemdb.Open()
	require.NoError(t, err)
	require.NoError(t, snapshot.NewStore(conf, db2).Load())

	got, err := inmemdb.NewCourseRepository(db2).GetCourseByID(math.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", got.Name)
	assert.True(t, got.HasStudent(ann.ID))
	assert.Equal(t, null.IntFrom(90), got.Grade(ann.ID))

	// the teacher slot still points at the same record
	assert.Equal(t, null.StringFrom(jdoe.ID), got.TeacherID)
	tchr, err := inmemdb.NewUserRepository(db2).GetUserByID(got.TeacherID.String)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", tchr.Username)
	assert.True(t, tchr.IsEnrolled(got.ID))
}

// a snapshot replaces prior state wholesale
func TestStore_Load_replaces(t *testing.T) {
	conf := testutil.NewTestConfig(t)
	db, err := inmemdb.Open()
	require.NoError(t, err)
	testutil.CreateUser(t, inmemdb.NewUserRepository(db), "Ann", "ann", "pass", user.RoleStudent)
	require.NoError(t, snapshot.NewStore(conf, db).Save())

	db2, err := inmemdb.Open()
	require.NoError(t, err)
	usrRepo2 := inmemdb.NewUserRepository(db2)
	crsRepo2 := inmemdb.NewCourseRepository(db2)
	testutil.CreateUser(t, usrRepo2, "Seeded", "seeded", "pass", user.RoleStudent)
	testutil.CreateCourse(t, crsRepo2, "Seeded Course")

	require.NoError(t, snapshot.NewStore(conf, db2).Load())

	users, err := usrRepo2.QueryAllUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ann", users[0].Username)
	courses, err := crsRepo2.QueryAllCourses()
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestStore_Load_failureLeavesStateUntouched(t *testing.T) {
	conf := testutil.NewTestConfig(t)
	db, err := inmemdb.Open()
	require.NoError(t, err)
	usrRepo := inmemdb.NewUserRepository(db)
	testutil.CreateUser(t, usrRepo, "Ann", "ann", "pass", user.RoleStudent)
	store := snapshot.NewStore(conf, db)

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, store.Load())
	})

	t.Run("corrupt file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(conf.SnapshotPath, []byte("not a snapshot"), 0644))
		assert.Error(t, store.Load())
	})

	users, err := usrRepo.QueryAllUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ann", users[0].Username)
}
