package completeness

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ParseDocumentType validates a document tag.
func ParseDocumentType(tag string) (DocumentType, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case string(DocumentTypeCV):
		return DocumentTypeCV, nil
	case string(DocumentTypeJD):
		return DocumentTypeJD, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDocumentType, tag)
	}
}

// Normalize turns a loosely-typed extraction payload into a typed document.
// Missing or malformed fields are not errors: scalars stay unset and
// sequences become empty. Only an unknown tag fails.
func Normalize(raw RawDocument) (Document, error) {
	docType, err := ParseDocumentType(raw.Type)
	if err != nil {
		return nil, err
	}
	switch docType {
	case DocumentTypeCV:
		return normalizeCV(raw.Data), nil
	case DocumentTypeJD:
		return normalizeJD(raw.Data), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidDocumentType, raw.Type)
}

func normalizeCV(m map[string]any) *CVData {
	info := object(m, "personalInfo", "personal_info", "contact")
	cv := &CVData{
		PersonalInfo: PersonalInfo{
			Name:     text(info, "name", "fullName", "full_name"),
			Email:    text(info, "email"),
			Phone:    text(info, "phone", "phoneNumber", "phone_number"),
			Location: text(info, "location", "address"),
			Summary:  text(info, "summary", "profile", "objective"),
		},
		Experience:     []ExperienceEntry{},
		Education:      []EducationEntry{},
		Certifications: stringSet(m, "certifications", "certificates"),
	}
	// Some extractors put the summary at the top level.
	if cur, _ := cv.PersonalInfo.Summary.Get(); cur == "" {
		if top := text(m, "summary"); top.IsSet() {
			if v, _ := top.Get(); v != "" || !cv.PersonalInfo.Summary.IsSet() {
				cv.PersonalInfo.Summary = top
			}
		}
	}

	for _, item := range list(m, "experience", "workExperience", "work_experience") {
		switch v := item.(type) {
		case map[string]any:
			cv.Experience = append(cv.Experience, ExperienceEntry{
				Title:       text(v, "title", "position", "role"),
				Company:     text(v, "company", "employer", "organization"),
				Dates:       dateRange(v),
				Description: text(v, "description", "summary", "details"),
			})
		case string:
			if s := cleanText(v); s != "" {
				cv.Experience = append(cv.Experience, ExperienceEntry{Description: Some(s)})
			}
		}
	}

	for _, item := range list(m, "education") {
		switch v := item.(type) {
		case map[string]any:
			cv.Education = append(cv.Education, EducationEntry{
				Institution:  text(v, "institution", "school", "university"),
				Degree:       text(v, "degree"),
				FieldOfStudy: text(v, "fieldOfStudy", "field_of_study", "field", "major"),
				Dates:        dateRange(v),
			})
		case string:
			if s := cleanText(v); s != "" {
				cv.Education = append(cv.Education, EducationEntry{Degree: Some(s)})
			}
		}
	}

	cv.Skills = Skills{Technical: []string{}, Soft: []string{}}
	if raw, ok := lookup(m, "skills"); ok {
		switch v := raw.(type) {
		case map[string]any:
			cv.Skills.Technical = stringSet(v, "technical", "technical_skills", "hard")
			cv.Skills.Soft = stringSet(v, "soft", "soft_skills")
		default:
			// A flat list carries no split; treat it as technical.
			cv.Skills.Technical = stringSet(m, "skills")
		}
	}
	return cv
}

func normalizeJD(m map[string]any) *JDData {
	jd := &JDData{
		JobTitle:         text(m, "jobTitle", "job_title", "title"),
		Company:          text(m, "company", "companyName", "company_name", "employer"),
		Responsibilities: stringList(m, "responsibilities", "duties"),
		Compensation:     compensation(m),
		Location:         text(m, "location"),
	}
	req := object(m, "requirements")
	jd.Requirements = Requirements{
		Required:  stringSet(req, "required", "mustHave", "must_have"),
		Preferred: stringSet(req, "preferred", "niceToHave", "nice_to_have"),
	}
	if req == nil {
		// A flat list of requirements is treated as required.
		jd.Requirements.Required = stringSet(m, "requirements")
	}
	return jd
}

// lookup returns the first non-null value stored under any of keys.
func lookup(m map[string]any, keys ...string) (any, bool) {
	if m == nil {
		return nil, false
	}
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func object(m map[string]any, keys ...string) map[string]any {
	v, ok := lookup(m, keys...)
	if !ok {
		return nil
	}
	obj, _ := v.(map[string]any)
	return obj
}

// list returns the items under keys; a lone scalar becomes a one-item list.
func list(m map[string]any, keys ...string) []any {
	v, ok := lookup(m, keys...)
	if !ok {
		return nil
	}
	if items, ok := v.([]any); ok {
		return items
	}
	return []any{v}
}

// text returns the first alias with content. When every present alias is
// blank the field is provided but empty.
func text(m map[string]any, keys ...string) Optional[string] {
	var out Optional[string]
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		s, ok := scalarText(v)
		if !ok {
			continue
		}
		if s != "" {
			return Some(s)
		}
		out = Some("")
	}
	return out
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return cleanText(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// stringList keeps order and duplicates, dropping blank and non-text items.
// The first alias yielding any text wins.
func stringList(m map[string]any, keys ...string) []string {
	for _, k := range keys {
		out := []string{}
		for _, item := range list(m, k) {
			if s := itemText(item); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []string{}
}

// stringSet de-duplicates by Unicode case folding, keeping first-seen order.
// The first alias yielding any text wins.
func stringSet(m map[string]any, keys ...string) []string {
	for _, k := range keys {
		if out := foldedSet(list(m, k)); len(out) > 0 {
			return out
		}
	}
	return []string{}
}

func foldedSet(items []any) []string {
	folder := cases.Fold()
	seen := make(map[string]struct{})
	out := []string{}
	for _, item := range items {
		s := itemText(item)
		if s == "" {
			continue
		}
		key := folder.String(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// itemText reads a list item that is either text or an object with a name.
func itemText(item any) string {
	if obj, ok := item.(map[string]any); ok {
		s, _ := text(obj, "name", "title", "skill").Get()
		return s
	}
	s, _ := scalarText(item)
	return s
}

func dateRange(m map[string]any) Optional[string] {
	whole := text(m, "dates", "duration", "period", "year", "graduationYear", "graduation_year")
	if d, _ := whole.Get(); d != "" {
		return whole
	}
	start := text(m, "startDate", "start_date", "start")
	end := text(m, "endDate", "end_date", "end")
	s, _ := start.Get()
	e, _ := end.Get()
	switch {
	case s != "" && e != "":
		return Some(s + " - " + e)
	case s != "":
		return Some(s + " - present")
	case e != "":
		return Some(e)
	case whole.IsSet() || start.IsSet() || end.IsSet():
		return Some("")
	}
	return Optional[string]{}
}

// compensation accepts text, a number, or a {min, max, currency} object. An
// object with none of those keys counts as provided but empty.
func compensation(m map[string]any) Optional[string] {
	flat := text(m, "compensation", "salary")
	if c, _ := flat.Get(); c != "" {
		return flat
	}
	obj := object(m, "compensation", "salary")
	if obj == nil {
		return flat
	}
	var parts []string
	lo, _ := text(obj, "min").Get()
	hi, _ := text(obj, "max").Get()
	switch {
	case lo != "" && hi != "":
		parts = append(parts, lo+"-"+hi)
	case lo != "":
		parts = append(parts, lo)
	case hi != "":
		parts = append(parts, hi)
	}
	if cur, _ := text(obj, "currency").Get(); cur != "" && len(parts) > 0 {
		parts = append(parts, cur)
	}
	return Some(strings.Join(parts, " "))
}
