package quiz

import (
	"strings"

	"github.com/bencao/herbquiz/internal/models"
)

// EffectsDelimiter joins the effects list into a single answer string.
const EffectsDelimiter = "、"

// projections maps every question mode to a pure HerbRecord -> string
// function. The sentinel rule for absent optional fields is applied here and
// nowhere else.
var projections = map[models.Mode]func(*models.HerbRecord) string{
	models.ModeEffects: func(h *models.HerbRecord) string {
		return displayOr(strings.Join(h.Effects, EffectsDelimiter))
	},
	models.ModeFamily: func(h *models.HerbRecord) string {
		return displayOr(h.Family)
	},
	models.ModeLatinName: func(h *models.HerbRecord) string {
		return displayOr(h.LatinName)
	},
	models.ModeOrigin: func(h *models.HerbRecord) string {
		return displayOr(h.Origin)
	},
	models.ModeUsedPart: func(h *models.HerbRecord) string {
		return displayOr(h.UsedPart)
	},
	models.ModeChemistry: func(h *models.HerbRecord) string {
		return displayOr(h.Chemistry)
	},
}

// Project returns the answer string for h under mode. Unknown modes project
// to the sentinel; pool building validates modes before it gets here.
func Project(h *models.HerbRecord, mode models.Mode) string {
	if fn, ok := projections[mode]; ok {
		return fn(h)
	}
	return models.NoData
}

// IsSentinel reports whether v is a placeholder rather than real data.
// Sentinel values never appear as distractors.
func IsSentinel(v string) bool {
	return v == "" || v == models.NoData
}

func displayOr(v string) string {
	if strings.TrimSpace(v) == "" {
		return models.NoData
	}
	return v
}

// Prompt returns the display label asked for a mode ("what is its X?").
func Prompt(mode models.Mode) string {
	switch mode {
	case models.ModeEffects:
		return "effects"
	case models.ModeFamily:
		return "family"
	case models.ModeLatinName:
		return "latin name"
	case models.ModeOrigin:
		return "botanical origin"
	case models.ModeUsedPart:
		return "used part"
	case models.ModeChemistry:
		return "main constituents"
	default:
		return string(mode)
	}
}
