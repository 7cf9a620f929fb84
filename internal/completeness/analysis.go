package completeness

// MissingDataAnalysis is the result of one completeness analysis.
type MissingDataAnalysis struct {
	DocumentType    DocumentType     `json:"documentType"`
	CatalogVersion  string           `json:"catalogVersion"`
	Critical        []MissingField   `json:"critical"`
	Recommended     []MissingField   `json:"recommended"`
	Optional        []MissingField   `json:"optional"`
	PriorityActions []PriorityAction `json:"priorityActions"`
	OverallScore    int              `json:"overallScore"`
}

// Analyze evaluates a normalized document and aggregates the result.
func Analyze(doc Document) (MissingDataAnalysis, error) {
	fields, err := Evaluate(doc)
	if err != nil {
		return MissingDataAnalysis{}, err
	}
	out := MissingDataAnalysis{
		DocumentType:   doc.Type(),
		CatalogVersion: catalogVersion(doc.Type()),
		Critical:       []MissingField{},
		Recommended:    []MissingField{},
		Optional:       []MissingField{},
	}
	for _, f := range fields {
		switch f.Importance {
		case ImportanceCritical:
			out.Critical = append(out.Critical, f)
		case ImportanceRecommended:
			out.Recommended = append(out.Recommended, f)
		default:
			out.Optional = append(out.Optional, f)
		}
	}
	out.PriorityActions = RankActions(fields)
	out.OverallScore = Score(fields)
	return out, nil
}

// AnalyzeRaw normalizes an extraction payload and analyzes it.
func AnalyzeRaw(raw RawDocument) (MissingDataAnalysis, error) {
	doc, err := Normalize(raw)
	if err != nil {
		return MissingDataAnalysis{}, err
	}
	return Analyze(doc)
}

// MissingCount returns the number of gaps across all tiers.
func (a MissingDataAnalysis) MissingCount() int {
	return len(a.Critical) + len(a.Recommended) + len(a.Optional)
}
