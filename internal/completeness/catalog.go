package completeness

import "fmt"

type Importance string

const (
	ImportanceCritical    Importance = "critical"
	ImportanceRecommended Importance = "recommended"
	ImportanceOptional    Importance = "optional"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Kind describes the shape a catalog predicate inspects.
type Kind string

const (
	KindScalar     Kind = "scalar"
	KindCollection Kind = "collection"
	KindComposite  Kind = "composite"
)

// ActionText is the user-facing wording of the action that fills a gap.
type ActionText struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FieldSpec is the static metadata of one catalog entry.
type FieldSpec struct {
	ID            string     `json:"id"`
	Field         string     `json:"field"`
	Importance    Importance `json:"importance"`
	Penalty       int        `json:"penalty"`
	Kind          Kind       `json:"kind"`
	Reason        string     `json:"reason"`
	EstimatedTime string     `json:"estimatedTime"`
	Example       string     `json:"example,omitempty"`
	Templates     []string   `json:"templates,omitempty"`
	Cluster       string     `json:"cluster,omitempty"`
	Action        ActionText `json:"action"`
}

type fieldCheck[D Document] struct {
	FieldSpec
	present func(D) Presence
}

type catalog[D Document] struct {
	version string
	checks  []fieldCheck[D]
}

// clusterSpec rolls several catalog entries into one priority action.
type clusterSpec struct {
	ActionText
	EstimatedTime string
}

var clusters = map[string]clusterSpec{
	"experience.entries": {
		ActionText: ActionText{
			Title:       "Complete your experience entries",
			Description: "Give every role a date range and a short description of what you delivered.",
		},
		EstimatedTime: "15 minutes",
	},
}

// CatalogInfo describes a catalog for callers that render checklists.
type CatalogInfo struct {
	DocumentType DocumentType `json:"documentType"`
	Version      string       `json:"version"`
	MaxPenalty   int          `json:"maxPenalty"`
	Fields       []FieldSpec  `json:"fields"`
}

// CatalogFor returns a copy of the catalog used for documents of type t.
func CatalogFor(t DocumentType) (CatalogInfo, error) {
	switch t {
	case DocumentTypeCV:
		return describe(t, cvCatalog), nil
	case DocumentTypeJD:
		return describe(t, jdCatalog), nil
	default:
		return CatalogInfo{}, fmt.Errorf("%w: %q", ErrInvalidDocumentType, t)
	}
}

func catalogVersion(t DocumentType) string {
	switch t {
	case DocumentTypeCV:
		return cvCatalog.version
	case DocumentTypeJD:
		return jdCatalog.version
	}
	return ""
}

func describe[D Document](t DocumentType, c catalog[D]) CatalogInfo {
	info := CatalogInfo{
		DocumentType: t,
		Version:      c.version,
		Fields:       make([]FieldSpec, 0, len(c.checks)),
	}
	for _, check := range c.checks {
		spec := check.FieldSpec
		spec.Templates = append([]string(nil), spec.Templates...)
		info.Fields = append(info.Fields, spec)
		info.MaxPenalty += spec.Penalty
	}
	return info
}

func importanceRank(i Importance) int {
	switch i {
	case ImportanceCritical:
		return 0
	case ImportanceRecommended:
		return 1
	default:
		return 2
	}
}

func difficultyRank(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return 0
	case DifficultyMedium:
		return 1
	default:
		return 2
	}
}
