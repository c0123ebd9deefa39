// Package codegen builds and checks 6-character test join codes.
package codegen

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/tuiassess/internal/model"
)

const (
	// Length is the total code length including the subject prefix.
	Length   = 6
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ErrInvalidCode reports a code that does not match the join code format.
var ErrInvalidCode = errors.New("test code must be 6 characters: E, S or M followed by 5 letters or digits")

// Generator produces random join codes.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate returns a code whose first character encodes the subject.
func (g *Generator) Generate(subject model.Subject) string {
	var b strings.Builder
	b.Grow(Length)
	b.WriteByte(Prefix(subject))
	for i := 1; i < Length; i++ {
		b.WriteByte(alphabet[g.rnd.Intn(len(alphabet))])
	}
	return b.String()
}

// Prefix maps a subject to its code prefix. Unknown subjects fall back to M.
func Prefix(subject model.Subject) byte {
	switch subject {
	case model.SubjectEnglish:
		return 'E'
	case model.SubjectScience:
		return 'S'
	default:
		return 'M'
	}
}

// SubjectOf returns the subject encoded in a code prefix.
func SubjectOf(code string) (model.Subject, bool) {
	if code == "" {
		return "", false
	}
	switch code[0] {
	case 'E':
		return model.SubjectEnglish, true
	case 'S':
		return model.SubjectScience, true
	case 'M':
		return model.SubjectMathematics, true
	}
	return "", false
}

// Normalize trims and upper-cases user input.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks the code format.
func Validate(code string) error {
	if len(code) != Length {
		return ErrInvalidCode
	}
	if _, ok := SubjectOf(code); !ok {
		return ErrInvalidCode
	}
	for i := 1; i < len(code); i++ {
		if strings.IndexByte(alphabet, code[i]) < 0 {
			return ErrInvalidCode
		}
	}
	return nil
}
