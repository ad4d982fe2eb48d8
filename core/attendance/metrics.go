package attendance

import "github.com/trezcool/academia/core"

// Rate returns the percentage of records that are present or late, rounded to 2 decimals.
// If classID is given, only the records of that class are considered.
// Rate is 100 when there is no record to consider.
func Rate(records []Record, classID ...int) float64 {
	var total, countable int
	for _, r := range records {
		if len(classID) > 0 && classID[0] != 0 && r.ClassID != classID[0] {
			continue
		}
		total++
		if r.Status.countable() {
			countable++
		}
	}
	if total == 0 {
		return 100
	}
	return core.RoundTo(float64(countable)/float64(total)*100, 2)
}
