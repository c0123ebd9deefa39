package bank

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuiassess/internal/model"
)

type fileBank struct {
	Practice []model.Question               `yaml:"practice"`
	Main     map[model.Tier][]model.Question `yaml:"main"`
}

// Load reads a YAML bank from path. An empty path selects the built-in bank.
func Load(path string) (Bank, error) {
	if path == "" {
		return Default(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return Bank{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only bank file.
			_ = cerr
		}
	}()
	return Decode(file)
}

// Decode parses and validates a YAML bank. Section membership fills in the
// practice flag and tier when a question omits them.
func Decode(r io.Reader) (Bank, error) {
	var fb fileBank
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fb); err != nil {
		return Bank{}, fmt.Errorf("failed to decode bank: %w", err)
	}
	b := Bank{
		Practice: make([]model.Question, 0, len(fb.Practice)),
		Main:     make(map[model.Tier][]model.Question, len(fb.Main)),
	}
	for _, q := range fb.Practice {
		q.Practice = true
		if q.Tier == "" {
			q.Tier = model.TierMedium
		}
		if q.Kind == "" {
			q.Kind = model.KindMultipleChoice
		}
		b.Practice = append(b.Practice, q)
	}
	for tier, questions := range fb.Main {
		if !tier.Valid() {
			return Bank{}, fmt.Errorf("unknown tier %q in bank", tier)
		}
		for _, q := range questions {
			if q.Tier == "" {
				q.Tier = tier
			}
			if q.Kind == "" {
				q.Kind = model.KindMultipleChoice
			}
			b.Main[tier] = append(b.Main[tier], q)
		}
	}
	if err := b.Validate(); err != nil {
		return Bank{}, err
	}
	return b, nil
}

// Export writes the bank as YAML in the format Load accepts.
func Export(w io.Writer, b Bank) error {
	fb := fileBank{Practice: b.Practice, Main: b.Main}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fb); err != nil {
		return fmt.Errorf("failed to encode bank: %w", err)
	}
	return enc.Close()
}
