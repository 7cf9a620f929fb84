package completeness

import (
	"fmt"
	"sort"
)

// MissingField is one failed catalog check.
type MissingField struct {
	ID            string     `json:"id"`
	Field         string     `json:"field"`
	Importance    Importance `json:"importance"`
	State         string     `json:"state"`
	Reason        string     `json:"reason"`
	ImpactOnScore int        `json:"impactOnScore"`
	EstimatedTime string     `json:"estimatedTime"`
	Example       string     `json:"example,omitempty"`
	Templates     []string   `json:"templates,omitempty"`
	Kind          Kind       `json:"kind"`
	Cluster       string     `json:"cluster,omitempty"`

	action   ActionText
	position int
}

// Evaluate runs the catalog for the document's variant and returns the
// failed checks grouped critical, recommended, optional. Within a tier the
// catalog order is kept.
func Evaluate(doc Document) ([]MissingField, error) {
	switch d := doc.(type) {
	case *CVData:
		if d == nil {
			d = &CVData{}
		}
		return evaluate(cvCatalog, d), nil
	case *JDData:
		if d == nil {
			d = &JDData{}
		}
		return evaluate(jdCatalog, d), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidDocumentType, doc)
	}
}

func evaluate[D Document](c catalog[D], doc D) []MissingField {
	out := make([]MissingField, 0, len(c.checks))
	for i, check := range c.checks {
		state := check.present(doc)
		if state == Present {
			continue
		}
		out = append(out, newMissingField(check.FieldSpec, state, i))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return importanceRank(out[i].Importance) < importanceRank(out[j].Importance)
	})
	return out
}

func newMissingField(spec FieldSpec, state Presence, position int) MissingField {
	return MissingField{
		ID:            spec.ID,
		Field:         spec.Field,
		Importance:    spec.Importance,
		State:         state.String(),
		Reason:        spec.Reason,
		ImpactOnScore: spec.Penalty,
		EstimatedTime: spec.EstimatedTime,
		Example:       spec.Example,
		Templates:     append([]string(nil), spec.Templates...),
		Kind:          spec.Kind,
		Cluster:       spec.Cluster,
		action:        spec.Action,
		position:      position,
	}
}

// Score returns 100 minus the summed penalties, clamped to [0, 100].
func Score(fields []MissingField) int {
	score := 100
	for _, f := range fields {
		score -= f.ImpactOnScore
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
