// Package devseed loads seed files used to pre-populate the mock backend and
// the sandbox server. Seed files are YAML or JSON lists of items.
package devseed

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ItemSeedEntry describes one item to preload. ID is optional; entries
// without one receive a generated id.
type ItemSeedEntry struct {
	ID     string  `yaml:"id" json:"id"`
	Value  float64 `yaml:"value" json:"value"`
	TxHash string  `yaml:"txHash" json:"txHash"`
}

// LoadItemSeed reads a seed file. JSON is accepted because it is valid YAML.
func LoadItemSeed(path string) ([]ItemSeedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("devseed: read %s: %w", path, err)
	}
	return ParseItemSeed(data)
}

// ParseItemSeed decodes seed entries from YAML or JSON bytes and rejects
// duplicate ids.
func ParseItemSeed(data []byte) ([]ItemSeedEntry, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}

	var entries []ItemSeedEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("devseed: decode items: %w", err)
	}

	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("devseed: entry %d: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return entries, nil
}
