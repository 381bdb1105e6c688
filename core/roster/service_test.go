package roster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/course"
	"github.com/trezcool/shule/core/roster"
	"github.com/trezcool/shule/core/user"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
	testutil "github.com/trezcool/shule/tests"
)

func setup(t *testing.T) (*roster.Service, user.Repository, course.Repository) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	usrRepo := inmemdb.NewUserRepository(db)
	crsRepo := inmemdb.NewCourseRepository(db)
	return roster.NewService(usrRepo, crsRepo), usrRepo, crsRepo
}

func TestService_Enroll_student(t *testing.T) {
	svc, usrRepo, crsRepo := setup(t)
	ann := testutil.CreateUser(t, usrRepo, "Ann", "ann", "pass", user.RoleStudent)
	math := testutil.CreateCourse(t, crsRepo, "Mathematics")

	require.NoError(t, svc.Enroll(ann, math))

	// both sides are linked
	names, err := svc.ListCourses(ann)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mathematics"}, names)

	math, err = crsRepo.GetCourseByID(math.ID)
	require.NoError(t, err)
	assert.True(t, math.HasStudent(ann.ID))
}

func TestService_Enroll_teacher(t *testing.T) {
	svc, usrRepo, crsRepo := setup(t)
	jdoe := testutil.CreateUser(t, usrRepo, "John Doe", "jdoe", "pass", user.RoleTeacher)
	math := testutil.CreateCourse(t, crsRepo, "Mathematics")

	require.NoError(t, svc.Enroll(jdoe, math))

	names, err := svc.ListCourses(jdoe)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mathematics"}, names)

	// a teacher never joins the student roster, and enrollment does not
	// claim the course's teacher slot
	math, err = crsRepo.GetCourseByID(math.ID)
	require.NoError(t, err)
	assert.False(t, math.HasStudent(jdoe.ID))
	assert.False(t, math.TeacherID.Valid)
}

func TestService_Enroll_twice(t *testing.T) {
	svc, usrRepo, crsRepo := setup(t)
	ann := testutil.CreateUser(t, usrRepo, "Ann", "ann", "pass", user.RoleStudent)
	math := testutil.CreateCourse(t, crsRepo, "Mathematics")

	require.NoError(t, svc.Enroll(ann, math))
	mathBefore, _ := crsRepo.GetCourseByID(math.ID)

	// second call reports failure and changes nothing
	assert.ErrorIs(t, svc.Enroll(ann, math), roster.ErrAlreadyEnrolled)

	names, err := svc.ListCourses(ann)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mathematics"}, names)
	mathAfter, _ := crsRepo.GetCourseByID(math.ID)
	assert.Equal(t, mathBefore, mathAfter)
}

func TestService_Drop_student(t *testing.T) {
	svc, usrRepo, crsRepo := setup(t)
	ann := testutil.CreateUser(t, usrRepo, "Ann", "ann", "pass", user.RoleStudent)
	jdoe := testutil.CreateUser(t, usrRepo, "John Doe", "jdoe", "pass", user.RoleTeacher)
	math := testutil.CreateCourse(t, crsRepo, "Mathematics")
	require.NoError(t, svc.Enroll(jdoe, math))
	require.NoError(t, svc.Enroll(ann, math))
	require.NoError(t, svc.AssignGrade(jdoe, ann, math, 90))

	require.NoError(t, svc.Drop(ann, math))

	// dropped courses never show up in grade reports again
	grades, err := svc.CheckGrades(ann)
	require.NoError(t, err)
	assert.Empty(t, grades)

	// the roster and the grade entry are gone
	math, err = crsRepo.GetCourseByID(math.ID)
	require.NoError(t, err)
	assert.False(t, math.HasStudent(ann.ID))
	assert.False(t, math.Grade(ann.ID).Valid)

	assert.ErrorIs(t, svc.Drop(ann, math), roster.ErrNotEnrolled)
}

func TestService_Drop_teacherClearsSlot(t *testing.T) {
	svc, usrRepo, crsRepo := setup(t)
	ann := testutil.CreateUser(t, usrRepo, "Ann", "ann", "pass", user.RoleStudent)
	jdoe := testutil.CreateUser(t, usrRepo, "John Doe", "jdoe", "pass", user.RoleTeacher)
	math := testutil.CreateCourse(t, crsRepo, "Mathematics")
	require.NoError(t, svc.Enroll(jdoe, math))
	require.NoError(t, svc.Enroll(ann, math))

	// make jdoe the course's teacher of record
	math, err := crsRepo.GetCourseByID(math.ID)
	require.NoError(t, err)
	math.TeacherID = null.StringFrom(jdoe.ID)
	_, err = crsRepo.UpdateCourse(math)
	require.NoError(t, err)

	require.NoError(t, svc.Drop(jdoe, math))

	math, err = crsRepo.GetCourseByID(math.ID)
	require.NoError(t, err)
	assert.False(t, math.TeacherID.Valid, "teacher slot not cleared")
	// the students' enrollment is unaffected
	assert.True(t, math.HasStudent(ann.ID))
}

func TestService_Drop_teacherLeavesOtherSlot(t *testing.T) {
	svc, usrRepo, crsRepo := setup(t)
	jdoe := testutil.CreateUser(t, usrRepo, "John Doe", "jdoe", "pass", user.RoleTeacher)
	mary := testutil.CreateUser(t, usrRepo, "Mary Major", "mmajor", "pass", user.RoleTeacher)
	math := testutil.CreateCourse(t, crsRepo, "Mathematics")
	require.NoError(t, svc.Enroll(jdoe, math))
	require.NoError(t, svc.Enroll(mary, math))

	math, err := crsRepo.GetCourseByID(math.ID)
	require.NoError(t, err)
	math.TeacherID = null.StringFrom(mary.ID)
	_, err = crsRepo.UpdateCourse(math)
	require.NoError(t, err)

	require.NoError(t, svc.Drop(jdoe, math))

	math, err = crsRepo.GetCourseByID(math.ID)
	require.NoError(t, err)
	assert.Equal(t, null.StringFrom(mary.ID), math.TeacherID)
}

// the full grading scenario
func TestService_AssignGrade(t *testing.T) {
	svc, usrRepo, crsRepo := setup(t)
	jdoe := testutil.CreateUser(t, usrRepo, "John Doe", "jdoe", "password", user.RoleTeacher)
	math := testutil.CreateCourse(t, crsRepo, "Mathematics")
	testutil.CreateCourse(t, crsRepo, "Science")

	require.NoError(t, svc.Enroll(jdoe, math))

	stray := testutil.CreateUser(t, usrRepo, "Stray", "stray", "pass", user.RoleStudent)
	assert.ErrorIs(t, svc.AssignGrade(jdoe, stray, math, 50), roster.ErrNotEnrolled)

	ann := testutil.CreateUser(t, usrRepo, "Ann", "ann", "pass", user.RoleStudent)
	require.NoError(t, svc.Enroll(ann, math))
	require.NoError(t, svc.AssignGrade(jdoe, ann, math, 90))

	grades, err := svc.CheckGrades(ann)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, "Mathematics", grades[0].CourseName)
	assert.Equal(t, null.IntFrom(90), grades[0].Grade)
}

func TestService_AssignGrade_notAuthorized(t *testing.T) {
	svc, usrRepo, crsRepo := setup(t)
	jdoe := testutil.CreateUser(t, usrRepo, "John Doe", "jdoe", "pass", user.RoleTeacher)
	ann := testutil.CreateUser(t, usrRepo, "Ann", "ann", "pass", user.RoleStudent)
	math := testutil.CreateCourse(t, crsRepo, "Mathematics")
	require.NoError(t, svc.Enroll(ann, math))

	// jdoe does not teach Mathematics
	assert.ErrorIs(t, svc.AssignGrade(jdoe, ann, math, 90), roster.ErrNotAuthorized)

	math, err := crsRepo.GetCourseByID(math.ID)
	require.NoError(t, err)
	assert.False(t, math.Grade(ann.ID).Valid)
}

func TestService_ListStudents(t *testing.T) {
	svc, usrRepo, crsRepo := setup(t)
	jdoe := testutil.CreateUser(t, usrRepo, "John Doe", "jdoe", "pass", user.RoleTeacher)
	ann := testutil.CreateUser(t, usrRepo, "Ann", "ann", "pass", user.RoleStudent)
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob", "pass", user.RoleStudent)
	math := testutil.CreateCourse(t, crsRepo, "Mathematics")
	require.NoError(t, svc.Enroll(ann, math))
	require.NoError(t, svc.Enroll(bob, math))

	_, err := svc.ListStudents(jdoe, math)
	assert.ErrorIs(t, err, roster.ErrNotAuthorized)

	require.NoError(t, svc.Enroll(jdoe, math))
	students, err := svc.ListStudents(jdoe, math)
	require.NoError(t, err)
	require.Len(t, students, 2)
	// enrollment order
	assert.Equal(t, ann.ID, students[0].ID)
	assert.Equal(t, bob.ID, students[1].ID)
}

func TestService_CheckGrades_ungraded(t *testing.T) {
	svc, usrRepo, crsRepo := setup(t)
	ann := testutil.CreateUser(t, usrRepo, "Ann", "ann", "pass", user.RoleStudent)
	math := testutil.CreateCourse(t, crsRepo, "Mathematics")
	sci := testutil.CreateCourse(t, crsRepo, "Science")
	jdoe := testutil.CreateUser(t, usrRepo, "John Doe", "jdoe", "pass", user.RoleTeacher)
	require.NoError(t, svc.Enroll(jdoe, sci))
	require.NoError(t, svc.Enroll(ann, math))
	require.NoError(t, svc.Enroll(ann, sci))
	require.NoError(t, svc.AssignGrade(jdoe, ann, sci, -1)) // -1 is a real grade

	grades, err := svc.CheckGrades(ann)
	require.NoError(t, err)
	require.Len(t, grades, 2)
	assert.False(t, grades[0].Grade.Valid, "Mathematics should be ungraded")
	assert.Equal(t, null.IntFrom(-1), grades[1].Grade)
}
