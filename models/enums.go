package models

import "fmt"

// TestType tags a session as timed or non-timed
type TestType string

const (
	TestTypeTimed    TestType = "timed"
	TestTypeNonTimed TestType = "non-timed"
)

// ParseTestType accepts the stored tag values
func ParseTestType(s string) (TestType, error) {
	switch TestType(s) {
	case TestTypeTimed, TestTypeNonTimed:
		return TestType(s), nil
	}
	return "", fmt.Errorf("unknown test type %q", s)
}

func (t TestType) Timed() bool {
	return t == TestTypeTimed
}

// DefaultCategories lists the FE exam categories offered on the dashboard
var DefaultCategories = []string{
	"Math", "Ethics", "Econ", "Statics", "Dynamics", "Strength",
	"Materials", "Fluids", "Surveying", "Envir", "Struc",
	"Geotech", "Transp", "Constr",
}

// QuestionCountChoices are the selectable exam sizes (5 to 50 in steps of 5)
func QuestionCountChoices() []int {
	counts := make([]int, 0, 10)
	for n := 5; n <= 50; n += 5 {
		counts = append(counts, n)
	}
	return counts
}
