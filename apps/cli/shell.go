package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"syscall"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/course"
	"github.com/trezcool/shule/core/registry"
	"github.com/trezcool/shule/core/roster"
	"github.com/trezcool/shule/core/user"
	reportsvc "github.com/trezcool/shule/services/report"
)

var readPasswordFunc = term.ReadPassword // mockable

// shell is the interactive session: it renders menus, parses line input
// and relays every action to the registry and roster services. All
// outcomes are reported as a line of feedback; nothing here is fatal.
type shell struct {
	in   *bufio.Scanner
	out  io.Writer
	reg  *registry.Service
	rst  *roster.Service
	conf *core.Config

	// eof is set once the input is exhausted (closed stdin, piped
	// script running out). Menus treat it as a logout-and-exit.
	eof bool
}

func newShell(in io.Reader, out io.Writer, reg *registry.Service, rst *roster.Service, conf *core.Config) *shell {
	return &shell{
		in:   bufio.NewScanner(in),
		out:  out,
		reg:  reg,
		rst:  rst,
		conf: conf,
	}
}

func (sh *shell) run() {
	for {
		sh.printf("=== %s School Management ===\n", sh.conf.AppName)
		sh.println("1. Login")
		sh.println("2. Exit")
		choice := sh.readInt("Enter your choice: ")
		if sh.eof {
			return
		}
		switch choice {
		case 1:
			sh.login()
		case 2:
			return
		default:
			sh.println("Invalid choice. Try again.")
		}
	}
}

func (sh *shell) login() {
	username := sh.readLine("Enter username: ")
	password := sh.readPassword("Enter password: ")

	usr, err := sh.reg.Authenticate(username, password)
	if err != nil {
		sh.println("Invalid username or password.")
		return
	}

	switch {
	case usr.IsStudent():
		sh.studentMenu(usr)
	case usr.IsTeacher():
		sh.teacherMenu(usr)
	default:
		sh.adminMenu()
	}
}

// ----- student session -----

func (sh *shell) studentMenu(std user.User) {
	for {
		sh.println("\n=== Student Menu ===")
		sh.println("1. Enroll in a course")
		sh.println("2. Drop a course")
		sh.println("3. Check grades")
		sh.println("4. View courses")
		sh.println("5. Logout")
		choice := sh.readInt("Enter your choice: ")
		if sh.eof {
			return
		}
		switch choice {
		case 1:
			sh.enrollCourse(std)
		case 2:
			sh.dropCourse(std)
		case 3:
			sh.checkGrades(std)
		case 4:
			sh.viewCourses(std)
		case 5:
			return
		default:
			sh.println("Invalid choice. Try again.")
		}
	}
}

func (sh *shell) enrollCourse(usr user.User) {
	sh.println("Available courses:")
	sh.listAllCourses()
	crs, ok := sh.promptCourse("Enter the course name to enroll: ")
	if !ok {
		return
	}
	switch err := sh.rst.Enroll(usr, crs); {
	case err == nil:
		sh.println("Successfully enrolled in " + crs.Name)
	case errors.Is(err, roster.ErrAlreadyEnrolled):
		sh.println("Already enrolled in " + crs.Name)
	default:
		sh.reportErr(err)
	}
}

func (sh *shell) dropCourse(usr user.User) {
	sh.println("Enrolled courses:")
	sh.viewCourses(usr)
	crs, ok := sh.promptCourse("Enter the course name to drop: ")
	if !ok {
		return
	}
	switch err := sh.rst.Drop(usr, crs); {
	case err == nil:
		sh.println("Successfully dropped " + crs.Name)
	case errors.Is(err, roster.ErrNotEnrolled):
		sh.println("You are not enrolled in this course.")
	default:
		sh.reportErr(err)
	}
}

func (sh *shell) checkGrades(std user.User) {
	grades, err := sh.rst.CheckGrades(std)
	if err != nil {
		sh.reportErr(err)
		return
	}
	sh.println("Grades:")
	for _, cg := range grades {
		grade := -1 // ungraded prints as -1
		if cg.Grade.Valid {
			grade = cg.Grade.Int
		}
		sh.printf("%s: %d\n", cg.CourseName, grade)
	}
}

func (sh *shell) viewCourses(usr user.User) {
	names, err := sh.rst.ListCourses(usr)
	if err != nil {
		sh.reportErr(err)
		return
	}
	sh.println("Courses enrolled in:")
	for _, name := range names {
		sh.println("- " + name)
	}
}

// ----- teacher session -----

func (sh *shell) teacherMenu(tchr user.User) {
	for {
		sh.println("\n=== Teacher Menu ===")
		sh.println("1. Enroll in a course")
		sh.println("2. Drop a course")
		sh.println("3. Add a student to a course")
		sh.println("4. Remove a student from a course")
		sh.println("5. Assign grade")
		sh.println("6. View students in a course")
		sh.println("7. View courses")
		sh.println("8. Export gradebook")
		sh.println("9. Logout")
		choice := sh.readInt("Enter your choice: ")
		if sh.eof {
			return
		}
		switch choice {
		case 1:
			sh.enrollCourse(tchr)
		case 2:
			sh.dropCourse(tchr)
		case 3:
			sh.addStudentToCourse(tchr)
		case 4:
			sh.removeStudentFromCourse(tchr)
		case 5:
			sh.assignGrade(tchr)
		case 6:
			sh.viewStudentsInCourse(tchr)
		case 7:
			sh.viewCourses(tchr)
		case 8:
			sh.exportGradebook(tchr)
		case 9:
			return
		default:
			sh.println("Invalid choice. Try again.")
		}
	}
}

// promptTaughtCourse resolves a course the teacher may administer.
func (sh *shell) promptTaughtCourse(tchr user.User) (course.Course, []user.User, bool) {
	sh.println("Courses you are enrolled in:")
	sh.viewCourses(tchr)
	crs, ok := sh.promptCourse("Enter the course name: ")
	if !ok {
		return course.Course{}, nil, false
	}
	students, err := sh.rst.ListStudents(tchr, crs)
	if err != nil {
		if errors.Is(err, roster.ErrNotAuthorized) {
			sh.println("You are not enrolled in this course.")
		} else {
			sh.reportErr(err)
		}
		return course.Course{}, nil, false
	}
	return crs, students, true
}

func (sh *shell) addStudentToCourse(tchr user.User) {
	crs, _, ok := sh.promptTaughtCourse(tchr)
	if !ok {
		return
	}
	students, err := sh.reg.Students()
	if err != nil {
		sh.reportErr(err)
		return
	}
	sh.println("Available students:")
	for _, std := range students {
		if !crs.HasStudent(std.ID) {
			sh.println("- " + std.Name)
		}
	}
	std, ok := sh.promptStudent("Enter the student name to add: ")
	if !ok {
		return
	}
	switch err := sh.rst.Enroll(std, crs); {
	case err == nil:
		sh.printf("Successfully enrolled %s in %s\n", std.Name, crs.Name)
	case errors.Is(err, roster.ErrAlreadyEnrolled):
		sh.println("Already enrolled in " + crs.Name)
	default:
		sh.reportErr(err)
	}
}

func (sh *shell) removeStudentFromCourse(tchr user.User) {
	crs, students, ok := sh.promptTaughtCourse(tchr)
	if !ok {
		return
	}
	sh.println("Students enrolled in " + crs.Name + ":")
	for _, std := range students {
		sh.println("- " + std.Name)
	}
	std, ok := sh.promptStudent("Enter the student name to remove: ")
	if !ok {
		return
	}
	if !crs.HasStudent(std.ID) {
		sh.println("Student not found in this course.")
		return
	}
	if err := sh.rst.Drop(std, crs); err != nil {
		sh.reportErr(err)
		return
	}
	sh.printf("Successfully removed %s from %s\n", std.Name, crs.Name)
}

func (sh *shell) assignGrade(tchr user.User) {
	crs, students, ok := sh.promptTaughtCourse(tchr)
	if !ok {
		return
	}
	sh.println("Students enrolled in " + crs.Name + ":")
	for _, std := range students {
		sh.println("- " + std.Name)
	}
	std, ok := sh.promptStudent("Enter the student name: ")
	if !ok {
		return
	}
	if !crs.HasStudent(std.ID) {
		sh.println("Student not found in this course.")
		return
	}
	grade := sh.readInt("Enter the grade: ")
	switch err := sh.rst.AssignGrade(tchr, std, crs, grade); {
	case err == nil:
		sh.printf("Assigned %d to %s in %s\n", grade, std.Name, crs.Name)
	case errors.Is(err, roster.ErrNotAuthorized):
		sh.println("You are not enrolled in " + crs.Name)
	case errors.Is(err, roster.ErrNotEnrolled):
		sh.println("Student not found in this course.")
	default:
		sh.reportErr(err)
	}
}

func (sh *shell) viewStudentsInCourse(tchr user.User) {
	crs, students, ok := sh.promptTaughtCourse(tchr)
	if !ok {
		return
	}
	sh.println("Students enrolled in " + crs.Name + ":")
	for _, std := range students {
		sh.println("- " + std.Name)
	}
}

func (sh *shell) exportGradebook(tchr user.User) {
	crs, students, ok := sh.promptTaughtCourse(tchr)
	if !ok {
		return
	}
	path := sh.readLine("Enter the output file path: ")
	if path == "" {
		path = crs.Name + "-gradebook.xlsx"
	}
	if err := reportsvc.ExportGradebook(path, crs, students); err != nil {
		sh.reportErr(err)
		return
	}
	sh.println("Gradebook exported to " + path)
}

// ----- admin session -----

func (sh *shell) adminMenu() {
	for {
		sh.println("\n=== Admin Menu ===")
		sh.println("1. Create a student account")
		sh.println("2. Create a teacher account")
		sh.println("3. Create a course")
		sh.println("4. Delete a user account")
		sh.println("5. Delete a course")
		sh.println("6. View all students")
		sh.println("7. View all teachers")
		sh.println("8. View all courses")
		sh.println("9. Logout")
		choice := sh.readInt("Enter your choice: ")
		if sh.eof {
			return
		}
		switch choice {
		case 1:
			sh.createAccount(user.RoleStudent)
		case 2:
			sh.createAccount(user.RoleTeacher)
		case 3:
			sh.createCourse()
		case 4:
			sh.deleteAccount()
		case 5:
			sh.deleteCourse()
		case 6:
			sh.viewAll("Students:", sh.reg.Students)
		case 7:
			sh.viewAll("Teachers:", sh.reg.Teachers)
		case 8:
			sh.viewAllCourses()
		case 9:
			return
		default:
			sh.println("Invalid choice. Try again.")
		}
	}
}

func (sh *shell) createAccount(role string) {
	nu := user.NewUser{
		Name:     sh.readLine("Enter name: "),
		Username: sh.readLine("Enter username: "),
		Password: sh.readPassword("Enter password: "),
		Role:     role,
	}
	if _, err := sh.reg.CreateUser(nu); err != nil {
		if errors.Is(err, user.ErrUsernameExists) {
			sh.println("Username already exists.")
			return
		}
		sh.reportErr(err)
		return
	}
	sh.printf("%s account created successfully.\n", roleTitle(role))
}

func (sh *shell) createCourse() {
	nc := course.NewCourse{Name: sh.readLine("Enter the course name: ")}
	if _, err := sh.reg.CreateCourse(nc); err != nil {
		sh.reportErr(err)
		return
	}
	sh.println("Course created successfully.")
}

func (sh *shell) deleteAccount() {
	uname := sh.readLine("Enter the username to delete: ")
	usr, err := sh.reg.UserByUsername(uname)
	if err != nil {
		sh.println("User not found.")
		return
	}
	if err := sh.reg.DeleteUser(usr); err != nil {
		sh.reportErr(err)
		return
	}
	sh.printf("%s account deleted successfully.\n", roleTitle(usr.Role))
}

func (sh *shell) deleteCourse() {
	crs, ok := sh.promptCourse("Enter the course name to delete: ")
	if !ok {
		return
	}
	if err := sh.reg.DeleteCourse(crs); err != nil {
		sh.reportErr(err)
		return
	}
	sh.println("Course deleted successfully.")
}

func (sh *shell) viewAll(title string, query func() ([]user.User, error)) {
	users, err := query()
	if err != nil {
		sh.reportErr(err)
		return
	}
	sh.println(title)
	for _, usr := range users {
		sh.println("- " + usr.Name)
	}
}

func (sh *shell) viewAllCourses() {
	sh.println("Courses:")
	sh.listAllCourses()
}

// ----- helpers -----

func (sh *shell) listAllCourses() {
	courses, err := sh.reg.Courses()
	if err != nil {
		sh.reportErr(err)
		return
	}
	for _, crs := range courses {
		sh.println("- " + crs.Name)
	}
}

func (sh *shell) promptCourse(prompt string) (course.Course, bool) {
	name := sh.readLine(prompt)
	crs, err := sh.reg.CourseByName(name)
	if err != nil {
		sh.println("Course not found.")
		return course.Course{}, false
	}
	return crs, true
}

func (sh *shell) promptStudent(prompt string) (user.User, bool) {
	name := sh.readLine(prompt)
	std, err := sh.reg.StudentByName(name)
	switch {
	case err == nil:
		return std, true
	case errors.Is(err, user.ErrAmbiguousName):
		sh.println("Several students share this name; ask them for their username.")
	default:
		sh.println("Student not found.")
	}
	return user.User{}, false
}

func (sh *shell) readLine(prompt string) string {
	sh.print(prompt)
	if !sh.in.Scan() {
		sh.eof = true
		return ""
	}
	return core.CleanString(sh.in.Text())
}

func (sh *shell) readInt(prompt string) int {
	n, err := strconv.Atoi(sh.readLine(prompt))
	if err != nil {
		return -1
	}
	return n
}

func (sh *shell) readPassword(prompt string) string {
	sh.print(prompt)
	pwd, err := readPasswordFunc(syscall.Stdin)
	sh.println("")
	if err != nil {
		// not a terminal (piped input); fall back to a plain line read
		if !sh.in.Scan() {
			sh.eof = true
			return ""
		}
		return sh.in.Text()
	}
	return string(pwd)
}

// reportErr renders an unexpected or validation error as feedback lines.
func (sh *shell) reportErr(err error) {
	switch verr := err.(type) {
	case validator.ValidationErrors:
		for _, fErr := range verr {
			sh.printf("%s: %s\n", fErr.Field(), fErr.Translate(core.Translator))
		}
	case *core.ValidationError:
		for _, fErr := range verr.Fields {
			sh.printf("%s: %s\n", fErr.Field, fErr.Error)
		}
	default:
		sh.println("Error: " + err.Error())
	}
}

func (sh *shell) print(a string)                    { _, _ = fmt.Fprint(sh.out, a) }
func (sh *shell) println(a string)                  { _, _ = fmt.Fprintln(sh.out, a) }
func (sh *shell) printf(f string, a ...interface{}) { _, _ = fmt.Fprintf(sh.out, f, a...) }

func roleTitle(role string) string {
	switch role {
	case user.RoleStudent:
		return "Student"
	case user.RoleTeacher:
		return "Teacher"
	}
	return "User"
}
