package memconfig

import (
	"fmt"

	"github.com/sarchlab/drammap/mapping"
)

// Derive runs the full pipeline for one scheme: topology validation,
// forward matrix construction, and GF(2) inversion. Every failure names
// the scheme it belongs to; deriving one scheme never touches another.
func Derive(s mapping.Scheme) (Config, error) {
	if err := s.Validate(); err != nil {
		return Config{}, err
	}

	dram, err := mapping.ForwardMatrix(s)
	if err != nil {
		return Config{}, err
	}

	addr, err := dram.Inverse()
	if err != nil {
		return Config{}, fmt.Errorf("scheme %s: %w", s.Name, err)
	}

	return New(s, dram, addr), nil
}
