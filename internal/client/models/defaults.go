package models

import (
	"strings"

	"github.com/dmitrijs2005/securepass/internal/common"
)

const (
	ImportedTitle  = "Imported Pass"
	ImportedDetail = "Scanned code"
)

// Defaults returns the demo collection shown when nothing is stored yet.
// Ids are fresh on every call.
func Defaults() Collection {
	return Collection{
		NewPass("Concert Night", "Floor 1 • Row B • Seat 12", KindEvent, TintPurple, "EVT-8291-2345", true),
		NewPass("Coffee Club", "Rewards #8844  • 10/12 punches", KindLoyalty, TintOrange, "LTT-2210-3399", false),
		NewPass("Smart Lock", "Front Door • Home", KindKey, TintTeal, "HOME-LOCK-KEY", true),
		NewPass("Metro Card", "3 rides remaining", KindTransit, TintIndigo, "MTR-5511-9921", false),
	}
}

// Classify guesses the kind of a scanned code by case-insensitive marker
// lookup. EVT wins over KEY, KEY over MET; anything else is generic.
func Classify(code string) Kind {
	c := strings.ToUpper(code)
	switch {
	case strings.Contains(c, "EVT"):
		return KindEvent
	case strings.Contains(c, "KEY"):
		return KindKey
	case strings.Contains(c, "MET"):
		return KindTransit
	default:
		return KindGeneric
	}
}

// NewImported builds a pass from a scanned or typed code. Keys are
// protected by default.
func NewImported(code string) (Pass, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Pass{}, common.ErrEmptyCode
	}
	kind := Classify(code)
	return NewPass(ImportedTitle, ImportedDetail, kind, TintMint, code, kind == KindKey), nil
}
