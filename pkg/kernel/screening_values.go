package kernel

import "strings"

type JobTitle string

type JobDescription string

type SkillName string

func (s SkillName) String() string { return string(s) }

// EducationLevel is one step on the ordinal education scale
type EducationLevel string

const (
	EducationNone       EducationLevel = "none"
	EducationHighSchool EducationLevel = "high-school"
	EducationAssociate  EducationLevel = "associate"
	EducationBachelor   EducationLevel = "bachelor"
	EducationMaster     EducationLevel = "master"
	EducationDoctorate  EducationLevel = "doctorate"
)

// educationAliases maps common spellings to canonical levels
var educationAliases = map[string]EducationLevel{
	"none":          EducationNone,
	"unknown":       EducationNone,
	"not_specified": EducationNone,
	"high-school":   EducationHighSchool,
	"high school":   EducationHighSchool,
	"high_school":   EducationHighSchool,
	"secondary":     EducationHighSchool,
	"ged":           EducationHighSchool,
	"associate":     EducationAssociate,
	"diploma":       EducationAssociate,
	"bachelor":      EducationBachelor,
	"bachelors":     EducationBachelor,
	"bachelor's":    EducationBachelor,
	"master":        EducationMaster,
	"masters":       EducationMaster,
	"master's":      EducationMaster,
	"mba":           EducationMaster,
	"doctorate":     EducationDoctorate,
	"doctoral":      EducationDoctorate,
	"phd":           EducationDoctorate,
	"ph.d":          EducationDoctorate,
}

// ParseEducationLevel maps free-form level names to a canonical level.
// Unrecognized values fall back to EducationNone.
func ParseEducationLevel(raw string) EducationLevel {
	if level, ok := educationAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return level
	}
	return EducationNone
}

func (e EducationLevel) String() string { return string(e) }

// IsKnown reports whether the level is one of the canonical constants
func (e EducationLevel) IsKnown() bool {
	switch e {
	case EducationNone, EducationHighSchool, EducationAssociate,
		EducationBachelor, EducationMaster, EducationDoctorate:
		return true
	}
	return false
}
