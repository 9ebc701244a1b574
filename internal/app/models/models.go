package models

// RoleType identifies the verified role of a caller.
type RoleType string

const (
	RoleStudent    RoleType = "STUDENT"
	RoleInstructor RoleType = "INSTRUCTOR"
	RoleSecretary  RoleType = "SECRETARY"
)

// IsValid reports whether the role is one the engine knows.
func (r RoleType) IsValid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleSecretary:
		return true
	}
	return false
}

// LetterGrade is a categorical grade symbol recorded alongside a numeric grade.
type LetterGrade string

const (
	LetterAA LetterGrade = "AA"
	LetterBA LetterGrade = "BA"
	LetterBB LetterGrade = "BB"
	LetterCB LetterGrade = "CB"
	LetterCC LetterGrade = "CC"
	LetterDC LetterGrade = "DC"
	LetterDD LetterGrade = "DD"
	LetterFD LetterGrade = "FD"
	LetterFF LetterGrade = "FF"
)

var allLetterGrades = []LetterGrade{
	LetterAA, LetterBA, LetterBB, LetterCB, LetterCC, LetterDC, LetterDD, LetterFD, LetterFF,
}

// IsValid reports whether the letter is a known grade symbol.
func (l LetterGrade) IsValid() bool {
	for _, known := range allLetterGrades {
		if l == known {
			return true
		}
	}
	return false
}

// AllLetterGrades returns the full letter grade scale.
func AllLetterGrades() []LetterGrade {
	out := make([]LetterGrade, len(allLetterGrades))
	copy(out, allLetterGrades)
	return out
}
