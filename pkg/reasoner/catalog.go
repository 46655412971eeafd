package reasoner

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// catalogEntry is one template in the embedded catalog. Catalog order is
// significant: it is the tie-break order when recommendation scores are equal.
type catalogEntry struct {
	Key               string   `yaml:"key"`
	Name              string   `yaml:"name"`
	Description       string   `yaml:"description"`
	Stages            []string `yaml:"stages"`
	BestFor           []string `yaml:"best_for"`
	ConfidenceFactors []string `yaml:"confidence_factors"`
}

type catalog struct {
	Templates []catalogEntry `yaml:"templates"`
}

func loadCatalog() (*catalog, error) {
	var c catalog
	if err := yaml.Unmarshal(templatesYAML, &c); err != nil {
		return nil, fmt.Errorf("parse template catalog: %w", err)
	}
	if len(c.Templates) == 0 {
		return nil, fmt.Errorf("template catalog is empty")
	}
	return &c, nil
}

func (c *catalog) find(key string) (*catalogEntry, bool) {
	for i := range c.Templates {
		if strings.EqualFold(c.Templates[i].Key, key) {
			return &c.Templates[i], true
		}
	}
	return nil, false
}

func (c *catalog) keys() []string {
	out := make([]string, len(c.Templates))
	for i, t := range c.Templates {
		out[i] = t.Key
	}
	return out
}
