package memconfig

import (
	"encoding/json"
	"fmt"
)

// Table is an ordered collection of configurations keyed by identifier.
// Tables are built per invocation; there is no process-wide registry to
// mutate.
type Table struct {
	configs []Config
	byID    map[uint64]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byID: map[uint64]int{}}
}

// Add appends a configuration. A second configuration with an identifier
// the table already holds is rejected.
func (t *Table) Add(c Config) error {
	if i, ok := t.byID[c.Identifier]; ok {
		return fmt.Errorf("config %s: identifier %#010x already held by %s",
			c.Name, c.Identifier, t.configs[i].Name)
	}

	t.byID[c.Identifier] = len(t.configs)
	t.configs = append(t.configs, c)
	return nil
}

// Lookup returns the configuration with the given identifier.
func (t *Table) Lookup(id uint64) (Config, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Config{}, false
	}
	return t.configs[i], true
}

// Configs returns the configurations in insertion order.
func (t *Table) Configs() []Config {
	cs := make([]Config, len(t.configs))
	copy(cs, t.configs)
	return cs
}

// Len returns the number of configurations held.
func (t *Table) Len() int {
	return len(t.configs)
}

// JSON renders the table as an indented JSON array in insertion order.
func (t *Table) JSON() ([]byte, error) {
	return json.MarshalIndent(t.configs, "", "  ")
}
