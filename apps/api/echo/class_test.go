package echoapi_test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/academia/core/assignment"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/class"
	"github.com/trezcool/academia/core/gradebook"
	"github.com/trezcool/academia/tests"
)

func Test_classApi(t *testing.T) {
	a := setup(t)

	rec := a.do(t, httpTest{
		method: http.MethodPost, path: "/v1/classes",
		body: []byte(`{"subject": " Math ", "year": 2024, "period": "1", "semester": "Fall"}`), wantCode: http.StatusCreated,
	})
	var sec class.Section
	decode(t, rec, &sec)
	assert.Equal(t, "Math 2024", sec.Name)
	assert.Equal(t, "Math", sec.Subject)

	a.runTests(t, []httpTest{
		{name: "required", method: http.MethodPost, path: "/v1/classes", body: []byte(`{}`), wantCode: http.StatusBadRequest, wantFields: []string{"subject", "year"}},
		{name: "query", path: "/v1/classes", wantData: marshal(t, []class.Section{sec})},
		{name: "retrieve", path: "/v1/classes/1", wantData: marshal(t, sec)},
		{name: "not found", path: "/v1/classes/2", wantCode: http.StatusNotFound, wantData: marshal(t, httpErr{Error: "class 2 not found"})},
	})

	rec = a.do(t, httpTest{method: http.MethodPut, path: "/v1/classes/1", body: []byte(`{"room": "B12"}`)})
	decode(t, rec, &sec)
	assert.Equal(t, "B12", sec.Room)
	assert.Equal(t, "Math 2024", sec.Name)

	a.do(t, httpTest{method: http.MethodDelete, path: "/v1/classes/1", wantCode: http.StatusNoContent})
	a.do(t, httpTest{path: "/v1/classes", wantData: []byte(`[]`)})
}

func Test_assignmentApi(t *testing.T) {
	a := setup(t)
	sec := testutil.CreateClass(t, a.svc.Classes, "Math", 2024)

	rec := a.do(t, httpTest{
		method: http.MethodPost, path: "/v1/assignments",
		body: []byte(`{"name": "Quiz 1", "class_id": 1, "category": "Quiz", "weight": 10, "total_points": 20}`), wantCode: http.StatusCreated,
	})
	var quiz assignment.Assignment
	decode(t, rec, &quiz)
	assert.Equal(t, assignment.CategoryQuiz, quiz.Category)
	assert.Equal(t, sec.ID, quiz.ClassID)

	a.runTests(t, []httpTest{
		{
			name: "unknown class", method: http.MethodPost, path: "/v1/assignments",
			body: []byte(`{"name": "Quiz 2", "class_id": 7, "total_points": 20}`), wantCode: http.StatusNotFound,
		},
		{
			name: "bad category", method: http.MethodPost, path: "/v1/assignments",
			body: []byte(`{"name": "Quiz 2", "class_id": 1, "category": "exam", "total_points": 20}`), wantCode: http.StatusBadRequest, wantFields: []string{"category"},
		},
		{name: "by class", path: "/v1/assignments?class_id=1", wantData: marshal(t, []assignment.Assignment{quiz})},
		{name: "of class", path: "/v1/classes/1/assignments", wantData: marshal(t, []assignment.Assignment{quiz})},
		{name: "other class", path: "/v1/assignments?class_id=2", wantData: []byte(`[]`)},
	})

	rec = a.do(t, httpTest{method: http.MethodPut, path: "/v1/assignments/1", body: []byte(`{"weight": 0}`)})
	decode(t, rec, &quiz)
	assert.Equal(t, 0, quiz.Weight)
	assert.Equal(t, "Quiz 1", quiz.Name)
}

func Test_classApi_gradebook(t *testing.T) {
	a := setup(t)

	sec := testutil.CreateClass(t, a.svc.Classes, "Math", 2024)
	hw1 := testutil.CreateAssignment(t, a.svc.Assignments, sec.ID, "Homework 1")
	hw2 := testutil.CreateAssignment(t, a.svc.Assignments, sec.ID, "Homework 2")
	ada := testutil.CreateStudent(t, a.svc.Students, "Ada", "Lovelace", 11, "")
	alan := testutil.CreateStudent(t, a.svc.Students, "Alan", "Turing", 11, "")
	testutil.CreateStudent(t, a.svc.Students, "Grace", "Hopper", 12, "") // not in the class

	testutil.CreateGrade(t, a.svc.Grades, ada.ID, sec.ID, hw1.ID, 45, 50)
	testutil.CreateGrade(t, a.svc.Grades, ada.ID, sec.ID, hw2.ID, 30, 40)
	testutil.MarkAttendance(t, a.svc.Attendance, ada.ID, sec.ID, "2024-01-05", attendance.StatusPresent)
	testutil.MarkAttendance(t, a.svc.Attendance, alan.ID, sec.ID, "2024-01-05", attendance.StatusAbsent)

	rec := a.do(t, httpTest{path: "/v1/classes/1/gradebook"})
	var gb gradebook.Gradebook
	decode(t, rec, &gb)
	assert.Equal(t, sec, gb.Class)
	assert.Len(t, gb.Assignments, 2)
	if assert.Len(t, gb.Rows, 2) {
		assert.Equal(t, ada.ID, gb.Rows[0].Student.ID)
		assert.Equal(t, map[int]int{hw1.ID: 90, hw2.ID: 75}, gb.Rows[0].Grades)
		assert.Equal(t, 82.5, gb.Rows[0].Average)
		assert.Equal(t, 100.0, gb.Rows[0].AttendanceRate)
		assert.Equal(t, alan.ID, gb.Rows[1].Student.ID)
		assert.Empty(t, gb.Rows[1].Grades)
		assert.Equal(t, 0.0, gb.Rows[1].AttendanceRate)
	}

	req, rec := newRequest(http.MethodGet, "/v1/classes/1/gradebook.xlsx")
	a.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "gradebook-1.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Gradebook")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Student", "Email", "Homework 1", "Homework 2", "Average", "Attendance %"}, rows[0])
	assert.Equal(t, []string{"Ada Lovelace", "ada.lovelace@school.test", "90", "75", "82.5", "100"}, rows[1])

	a.do(t, httpTest{path: "/v1/classes/9/gradebook.xlsx", wantCode: http.StatusNotFound})
}
