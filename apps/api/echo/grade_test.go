package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/academia/core/grade"
	"github.com/trezcool/academia/tests"
)

func Test_gradeApi(t *testing.T) {
	a := setup(t)
	testutil.CreateStudent(t, a.svc.Students, "Ada", "Lovelace", 11, "")
	sec := testutil.CreateClass(t, a.svc.Classes, "Math", 2024)
	testutil.CreateAssignment(t, a.svc.Assignments, sec.ID, "Homework 1")

	t.Run("create", func(t *testing.T) {
		rec := a.do(t, httpTest{
			method: http.MethodPost, path: "/v1/grades",
			body:     []byte(`{"student_id": 1, "class_id": 1, "assignment_id": 1, "score": 45, "max_score": 50, "date_recorded": "2024-01-05"}`),
			wantCode: http.StatusCreated,
		})
		var g grade.Grade
		decode(t, rec, &g)
		assert.Equal(t, 1, g.ID)
		assert.Equal(t, "Grade for Student 1", g.Name)
		assert.Equal(t, 90, g.Percentage)
		assert.Equal(t, "A-", g.LetterGrade)
		assert.Equal(t, "2024-01-05", g.DateRecorded.String())
	})

	a.runTests(t, []httpTest{
		{
			name: "missing scores", method: http.MethodPost, path: "/v1/grades", body: []byte(`{"student_id": 1, "class_id": 1, "assignment_id": 1}`),
			wantCode: http.StatusBadRequest, wantFields: []string{"score", "max_score"},
		},
		{
			name: "zero max score", method: http.MethodPost, path: "/v1/grades",
			body:     []byte(`{"student_id": 1, "class_id": 1, "assignment_id": 1, "score": 10, "max_score": 0}`),
			wantCode: http.StatusBadRequest, wantFields: []string{"max_score"},
		},
		{
			name: "negative score", method: http.MethodPatch, path: "/v1/grades/1", body: []byte(`{"score": -1}`),
			wantCode: http.StatusBadRequest, wantFields: []string{"score"},
		},
		{name: "patch unknown grade", method: http.MethodPatch, path: "/v1/grades/99", body: []byte(`{}`), wantCode: http.StatusNotFound},
	})

	t.Run("patch recomputes", func(t *testing.T) {
		rec := a.do(t, httpTest{method: http.MethodPatch, path: "/v1/grades/1", body: []byte(`{"score": 48}`)})
		var g grade.Grade
		decode(t, rec, &g)
		assert.Equal(t, 48.0, g.Score)
		assert.Equal(t, 50.0, g.MaxScore)
		assert.Equal(t, 96, g.Percentage)
		assert.Equal(t, "A", g.LetterGrade)
	})

	t.Run("batch", func(t *testing.T) {
		rec := a.do(t, httpTest{
			method: http.MethodPost, path: "/v1/grades/batch",
			body: []byte(`[
				{"student_id": 1, "class_id": 1, "assignment_id": 1, "score": 30, "max_score": 40},
				{"student_id": 1, "class_id": 1, "assignment_id": 1, "score": 64, "max_score": 100}
			]`),
			wantCode: http.StatusCreated,
		})
		var res struct {
			Created []grade.Grade `json:"created"`
			Total   int           `json:"total"`
		}
		decode(t, rec, &res)
		assert.Equal(t, 2, res.Total)
		if assert.Len(t, res.Created, 2) {
			assert.Equal(t, "C", res.Created[0].LetterGrade)
			assert.Equal(t, "F", res.Created[1].LetterGrade)
		}
	})

	rec := a.do(t, httpTest{path: "/v1/grades?student_id=1&assignment_id=1"})
	var grades []grade.Grade
	decode(t, rec, &grades)
	assert.Len(t, grades, 3)

	a.do(t, httpTest{path: "/v1/students/1/average", wantData: []byte(`{"student_id": 1, "average": 78.33}`)})

	a.do(t, httpTest{method: http.MethodDelete, path: "/v1/grades/3", wantCode: http.StatusNoContent})
	a.do(t, httpTest{path: "/v1/grades/3", wantCode: http.StatusNotFound})
}
