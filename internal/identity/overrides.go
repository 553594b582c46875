package identity

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Overrides are manual corrections to clustering, maintained by whoever
// audits the alias lists.
//
//	merge:
//	  gao sky:
//	    - "S. Gao"
//	display:
//	  gao sky: "Sky T. Gao"
type Overrides struct {
	// Merge forces every spelling whose key matches one of the listed names
	// into the cluster with the given id.
	Merge map[string][]string `yaml:"merge"`
	// Display pins the display name of a cluster, bypassing the policy. A
	// pinned name must itself resolve to that cluster, directly or through
	// Merge, so it can stand as one of its aliases.
	Display map[string]string `yaml:"display"`
}

// LoadOverrides reads an overrides file. An empty path yields no overrides.
func LoadOverrides(path string) (Overrides, error) {
	var o Overrides
	if strings.TrimSpace(path) == "" {
		return o, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return o, fmt.Errorf("identity: read overrides: %w", err)
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, fmt.Errorf("identity: parse overrides %s: %w", path, err)
	}
	if _, err := o.redirects(); err != nil {
		return o, err
	}
	return o, nil
}

// redirects maps the key of every listed spelling to its target id and
// checks every pinned display name against it.
func (o Overrides) redirects() (map[string]string, error) {
	ids := make([]string, 0, len(o.Merge))
	for id := range o.Merge {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := map[string]string{}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("identity: overrides: empty merge target")
		}
		for _, raw := range o.Merge[id] {
			k := Key(raw)
			if k == "" {
				return nil, fmt.Errorf("identity: overrides: %q under %q has no usable name", raw, id)
			}
			if prev, ok := out[k]; ok && prev != id {
				return nil, fmt.Errorf("identity: overrides: %q is merged into both %q and %q", raw, prev, id)
			}
			if k != id {
				out[k] = id
			}
		}
	}

	pins := make([]string, 0, len(o.Display))
	for id := range o.Display {
		pins = append(pins, id)
	}
	sort.Strings(pins)
	for _, id := range pins {
		pin := strings.TrimSpace(o.Display[id])
		if pin == "" {
			continue
		}
		k := Key(pin)
		if target, ok := out[k]; ok {
			k = target
		}
		if k != id {
			return nil, fmt.Errorf("identity: overrides: display name %q for %q resolves to %q", pin, id, k)
		}
	}
	return out, nil
}
