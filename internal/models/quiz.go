package models

// Mode is the quiz dimension being tested for a single question.
type Mode string

const (
	ModeEffects   Mode = "effects"
	ModeFamily    Mode = "family"
	ModeLatinName Mode = "latin_name"
	ModeOrigin    Mode = "origin"
	ModeUsedPart  Mode = "used_part"
	ModeChemistry Mode = "chemistry"
)

// AllModes returns every question mode in display order.
func AllModes() []Mode {
	return []Mode{ModeEffects, ModeFamily, ModeLatinName, ModeOrigin, ModeUsedPart, ModeChemistry}
}

// Valid reports whether m is a known question mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeEffects, ModeFamily, ModeLatinName, ModeOrigin, ModeUsedPart, ModeChemistry:
		return true
	}
	return false
}

// QuizItem is one question of an active session. Mode and CorrectAnswer are
// fixed at pool build time; Options are generated lazily on first view and
// then kept for the life of the session so navigating back shows the same
// choices.
type QuizItem struct {
	Herb          *HerbRecord `json:"-"`
	Mode          Mode        `json:"mode"`
	CorrectAnswer string      `json:"-"`
	Options       []string    `json:"options,omitempty"`
}

// Answer records the outcome of one submitted question.
type Answer struct {
	Selected string `json:"selected"`
	Correct  bool   `json:"correct"`
}

// QuizFilter is the selection criterion for a pool build. Empty Grades means
// no grade restriction; nil HerbIDs means no explicit-id restriction.
type QuizFilter struct {
	Grades  []string `json:"grades,omitempty"`
	HerbIDs []int64  `json:"herb_ids,omitempty"`
	Modes   []Mode   `json:"modes"`
}
