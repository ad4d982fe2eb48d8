package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRate(t *testing.T) {
	rec := func(classID int, s Status) Record { return Record{ClassID: classID, Status: s} }
	records := []Record{rec(1, StatusPresent), rec(1, StatusAbsent), rec(2, StatusLate), rec(2, StatusExcused), rec(2, StatusAbsent)}

	tests := []struct {
		name    string
		records []Record
		classID []int
		want    float64
	}{
		{name: "no records", want: 100},
		{name: "present & absent", records: []Record{rec(1, StatusPresent), rec(1, StatusAbsent)}, want: 50},
		{name: "late counts", records: []Record{rec(1, StatusLate)}, want: 100},
		{name: "excused does not count", records: []Record{rec(1, StatusExcused)}, want: 0},
		{name: "all classes", records: records, want: 40},
		{name: "class filter", records: records, classID: []int{2}, want: 33.33},
		{name: "zero class disables filter", records: records, classID: []int{0}, want: 40},
		{name: "class without records", records: records, classID: []int{3}, want: 100},
		{name: "two thirds", records: []Record{rec(1, StatusPresent), rec(1, StatusLate), rec(1, StatusAbsent)}, want: 66.67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rate(tt.records, tt.classID...))
		})
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("").Valid())
	assert.False(t, Status("Present").Valid())
}
