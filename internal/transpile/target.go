// Package transpile rewrites circuits into a target gate alphabet and applies peephole
// simplifications.
package transpile

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnsupportedGate = errors.New("unsupported gate")
	ErrInvalidLevel    = errors.New("invalid optimization level")
)

// DefaultBasis is one entangler plus the generic single-qubit rotation.
var DefaultBasis = []string{"cx", "u"}

const (
	MinLevel = 0
	MaxLevel = 3
)

// Family is the single-qubit gate set used to synthesise arbitrary single-qubit unitaries.
type Family string

const (
	FamilyU   Family = "u"
	FamilyZYZ Family = "rz,ry"
)

// Target is a validated gate alphabet.
type Target struct {
	allowed   map[string]bool
	names     []string
	entangler string
	family    Family
}

// NewTarget validates basis. It must contain cx or cz, and either u or both rz and ry.
func NewTarget(basis []string) (*Target, error) {
	if len(basis) == 0 {
		basis = DefaultBasis
	}
	t := &Target{allowed: make(map[string]bool, len(basis))}
	for _, name := range basis {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || t.allowed[name] {
			continue
		}
		t.allowed[name] = true
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)

	switch {
	case t.allowed["cx"]:
		t.entangler = "cx"
	case t.allowed["cz"]:
		t.entangler = "cz"
	default:
		return nil, fmt.Errorf("%w: basis %v has no two-qubit entangler (cx or cz)", ErrUnsupportedGate, t.names)
	}

	switch {
	case t.allowed["u"]:
		t.family = FamilyU
	case t.allowed["rz"] && t.allowed["ry"]:
		t.family = FamilyZYZ
	default:
		return nil, fmt.Errorf("%w: basis %v cannot express arbitrary single-qubit gates (needs u, or rz and ry)", ErrUnsupportedGate, t.names)
	}
	return t, nil
}

// Allows reports whether name is in the alphabet. Measurement and barrier are always allowed.
func (t *Target) Allows(name string) bool {
	return name == "measure" || name == "barrier" || t.allowed[name]
}

func (t *Target) Names() []string {
	return append([]string(nil), t.names...)
}

func (t *Target) Entangler() string {
	return t.entangler
}

func (t *Target) Family() Family {
	return t.family
}
