// Package models defines the pass record stored in the vault and the pure
// collection helpers the pass service builds on.
package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind classifies a pass. The string values are part of the stored format.
type Kind string

const (
	KindEvent   Kind = "event"
	KindLoyalty Kind = "loyalty"
	KindKey     Kind = "key"
	KindTransit Kind = "transit"
	KindGeneric Kind = "generic"
)

// Label is the display name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindEvent:
		return "Event"
	case KindLoyalty:
		return "Loyalty"
	case KindKey:
		return "Key"
	case KindTransit:
		return "Transit"
	default:
		return "Pass"
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindEvent, KindLoyalty, KindKey, KindTransit, KindGeneric:
		return true
	}
	return false
}

var ErrInvalidPass = errors.New("invalid pass")

// Pass is one stored record.
type Pass struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Detail            string `json:"detail"`
	Kind              Kind   `json:"kind"`
	Tint              Tint   `json:"tint"`
	Code              string `json:"code"`
	RequiresBiometric bool   `json:"requiresBiometric"`
}

// NewPass returns a pass with a fresh random id.
func NewPass(title, detail string, kind Kind, tint Tint, code string, protected bool) Pass {
	return Pass{
		ID:                uuid.NewString(),
		Title:             title,
		Detail:            detail,
		Kind:              kind,
		Tint:              tint,
		Code:              code,
		RequiresBiometric: protected,
	}
}

func (p Pass) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidPass)
	}
	if strings.TrimSpace(p.Code) == "" {
		return fmt.Errorf("%w: pass %s has empty code", ErrInvalidPass, p.ID)
	}
	if !p.Kind.Valid() {
		return fmt.Errorf("%w: pass %s has unknown kind %q", ErrInvalidPass, p.ID, p.Kind)
	}
	if !p.Tint.Valid() {
		return fmt.Errorf("%w: pass %s has tint out of range", ErrInvalidPass, p.ID)
	}
	return nil
}
