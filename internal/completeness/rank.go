package completeness

import (
	"sort"
	"strings"
)

// PriorityAction is a ranked suggestion that recovers ImpactScore points.
type PriorityAction struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Difficulty    Difficulty `json:"difficulty"`
	EstimatedTime string     `json:"estimatedTime"`
	ImpactScore   int        `json:"impactScore"`
	Fields        []string   `json:"fields"`

	position int
}

// RankActions maps missing fields to actions, rolling clustered fields into a
// single action, and orders them by impact descending then difficulty
// ascending. Catalog position breaks the remaining ties.
func RankActions(fields []MissingField) []PriorityAction {
	actions := make([]PriorityAction, 0, len(fields))
	index := make(map[string]int, len(fields))
	for _, f := range fields {
		id, text, eta := actionFor(f)
		difficulty := difficultyFor(f)
		if i, ok := index[id]; ok {
			a := &actions[i]
			a.ImpactScore += f.ImpactOnScore
			a.Fields = append(a.Fields, f.ID)
			if difficultyRank(difficulty) > difficultyRank(a.Difficulty) {
				a.Difficulty = difficulty
			}
			if f.position < a.position {
				a.position = f.position
			}
			continue
		}
		index[id] = len(actions)
		actions = append(actions, PriorityAction{
			ID:            id,
			Title:         text.Title,
			Description:   text.Description,
			Difficulty:    difficulty,
			EstimatedTime: eta,
			ImpactScore:   f.ImpactOnScore,
			Fields:        []string{f.ID},
			position:      f.position,
		})
	}
	sortActions(actions)
	return actions
}

func sortActions(items []PriorityAction) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ImpactScore != b.ImpactScore {
			return a.ImpactScore > b.ImpactScore
		}
		if difficultyRank(a.Difficulty) != difficultyRank(b.Difficulty) {
			return difficultyRank(a.Difficulty) < difficultyRank(b.Difficulty)
		}
		if a.position != b.position {
			return a.position < b.position
		}
		return a.ID < b.ID
	})
}

func actionFor(f MissingField) (string, ActionText, string) {
	if f.Cluster != "" {
		if c, ok := clusters[f.Cluster]; ok {
			return "action." + f.Cluster, c.ActionText, c.EstimatedTime
		}
	}
	text := f.action
	if strings.TrimSpace(text.Title) == "" {
		text = ActionText{Title: "Complete " + f.Field, Description: f.Reason}
	}
	return "action." + f.ID, text, f.EstimatedTime
}

// difficultyFor: single values are easy; structural gaps are hard when
// critical and medium otherwise.
func difficultyFor(f MissingField) Difficulty {
	switch f.Kind {
	case KindCollection, KindComposite:
		if f.Importance == ImportanceCritical {
			return DifficultyHard
		}
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}
