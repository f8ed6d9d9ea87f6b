package engine

import (
	"strings"

	"github.com/kailas-cloud/assetq/internal/domain/record"
)

// Score ranks r against lower-cased keyword tokens. It is zero without tokens.
func (e *Engine) Score(r record.Record, tokens []string) int {
	if len(tokens) == 0 || r == nil {
		return 0
	}
	rel := e.schema.Relevance
	name := strings.ToLower(e.Text(r, e.schema.NameField))
	id := strings.ToLower(e.Text(r, e.schema.IDField))

	weighted := make([]string, len(rel.Weights))
	for i, w := range rel.Weights {
		weighted[i] = strings.ToLower(e.Text(r, w.Field))
	}

	score := 0
	if id != "" {
		for _, t := range tokens {
			if t == id {
				score += rel.IDBonus
				break
			}
		}
	}
	for _, t := range tokens {
		if strings.HasPrefix(name, t) {
			score += rel.NamePrefix
		}
		if strings.Contains(name, t) {
			score += rel.NameContains
		}
		for i, w := range rel.Weights {
			if strings.Contains(weighted[i], t) {
				score += w.Points
			}
		}
	}
	return score
}
