package grade

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/academia/core"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name      string
		score     float64
		maxScore  float64
		want      Result
		wantField string
	}{
		{name: "perfect", score: 50, maxScore: 50, want: Result{100, LetterAPlus}},
		{name: "A-", score: 45, maxScore: 50, want: Result{90, LetterAMinus}},
		{name: "C", score: 30, maxScore: 40, want: Result{75, LetterC}},
		{name: "half rounds up", score: 37, maxScore: 40, want: Result{93, LetterA}},
		{name: "92.9 rounds to A", score: 92.9, maxScore: 100, want: Result{93, LetterA}},
		{name: "below half rounds down", score: 64.4, maxScore: 100, want: Result{64, LetterF}},
		{name: "zero score", score: 0, maxScore: 10, want: Result{0, LetterF}},
		{name: "extra credit", score: 11, maxScore: 10, want: Result{110, LetterAPlus}},
		{name: "zero max score", score: 5, maxScore: 0, wantField: "max_score"},
		{name: "negative max score", score: 5, maxScore: -10, wantField: "max_score"},
		{name: "NaN max score", score: 5, maxScore: math.NaN(), wantField: "max_score"},
		{name: "infinite max score", score: 5, maxScore: math.Inf(1), wantField: "max_score"},
		{name: "negative score", score: -1, maxScore: 10, wantField: "score"},
		{name: "NaN score", score: math.NaN(), maxScore: 10, wantField: "score"},
		{name: "ratio overflows", score: 1e308, maxScore: 1e-10, wantField: "score"},
		{name: "percentage out of range", score: 1e9, maxScore: 1, wantField: "score"},
		{name: "largest percentage", score: math.MaxInt32, maxScore: 100, want: Result{math.MaxInt32, LetterAPlus}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive(tt.score, tt.maxScore)
			if tt.wantField != "" {
				var vErr *core.ValidationError
				if assert.ErrorAs(t, err, &vErr) && assert.Len(t, vErr.Fields, 1) {
					assert.Equal(t, tt.wantField, vErr.Fields[0].Field)
				}
				return
			}
			if assert.NoError(t, err) {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		pct  int
		want string
	}{
		{120, LetterAPlus}, {97, LetterAPlus}, {96, LetterA}, {93, LetterA}, {92, LetterAMinus}, {90, LetterAMinus},
		{89, LetterBPlus}, {87, LetterBPlus}, {86, LetterB}, {83, LetterB}, {82, LetterBMinus}, {80, LetterBMinus},
		{79, LetterCPlus}, {77, LetterCPlus}, {76, LetterC}, {73, LetterC}, {72, LetterCMinus}, {70, LetterCMinus},
		{69, LetterD}, {65, LetterD}, {64, LetterF}, {0, LetterF},
	}
	for _, tt := range tests {
		if got := LetterGrade(tt.pct); got != tt.want {
			t.Errorf("LetterGrade(%d) = %q; want %q", tt.pct, got, tt.want)
		}
	}
}

func TestAverage(t *testing.T) {
	tests := []struct {
		name   string
		grades []Grade
		want   float64
	}{
		{name: "no grades", want: 0},
		{name: "single", grades: []Grade{{Percentage: 77}}, want: 77},
		{name: "even", grades: []Grade{{Percentage: 80}, {Percentage: 90}}, want: 85},
		{name: "scenario", grades: []Grade{{Percentage: 90}, {Percentage: 75}}, want: 82.5},
		{name: "rounded to 2 places", grades: []Grade{{Percentage: 90}, {Percentage: 85}, {Percentage: 81}}, want: 85.33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Average(tt.grades))
		})
	}
}

func TestApply(t *testing.T) {
	fPtr := func(f float64) *float64 { return &f }
	sPtr := func(s string) *string { return &s }

	existing := Grade{ID: 1, Name: "Quiz", StudentID: 1, ClassID: 1, AssignmentID: 1, Score: 45, MaxScore: 50, Percentage: 90, LetterGrade: LetterAMinus}
	unscored := Grade{ID: 2, Name: "Legacy", StudentID: 1, ClassID: 1, AssignmentID: 1}

	tests := []struct {
		name      string
		existing  Grade
		patch     Patch
		wantPct   int
		wantGrade string
		wantName  string
		wantErr   bool
	}{
		{name: "name only keeps derived fields", existing: existing, patch: Patch{Name: sPtr("Quiz 1")}, wantPct: 90, wantGrade: LetterAMinus, wantName: "Quiz 1"},
		{name: "blank name is ignored", existing: existing, patch: Patch{Name: sPtr("")}, wantPct: 90, wantGrade: LetterAMinus, wantName: "Quiz"},
		{name: "score only", existing: existing, patch: Patch{Score: fPtr(30)}, wantPct: 60, wantGrade: LetterF, wantName: "Quiz"},
		{name: "max score only", existing: existing, patch: Patch{MaxScore: fPtr(45)}, wantPct: 100, wantGrade: LetterAPlus, wantName: "Quiz"},
		{name: "both", existing: existing, patch: Patch{Score: fPtr(30), MaxScore: fPtr(40)}, wantPct: 75, wantGrade: LetterC, wantName: "Quiz"},
		{name: "both on unscored", existing: unscored, patch: Patch{Score: fPtr(8), MaxScore: fPtr(10)}, wantPct: 80, wantGrade: LetterBMinus, wantName: "Legacy"},
		{name: "score only on unscored", existing: unscored, patch: Patch{Score: fPtr(8)}, wantErr: true},
		{name: "invalid max score", existing: existing, patch: Patch{MaxScore: fPtr(0)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.existing, tt.patch)
			if tt.wantErr {
				assert.True(t, core.IsValidation(err), "Apply() error = %v; want validation error", err)
				return
			}
			if assert.NoError(t, err) {
				assert.Equal(t, tt.wantPct, got.Percentage)
				assert.Equal(t, tt.wantGrade, got.LetterGrade)
				assert.Equal(t, tt.wantName, got.Name)
				assert.Equal(t, tt.existing.ID, got.ID)
			}
		})
	}
}

func TestQueryFilter_Match(t *testing.T) {
	g := Grade{StudentID: 1, ClassID: 2, AssignmentID: 3}
	assert.True(t, QueryFilter{}.Match(g))
	assert.True(t, QueryFilter{StudentID: 1, ClassID: 2}.Match(g))
	assert.False(t, QueryFilter{StudentID: 1, AssignmentID: 4}.Match(g))
}
