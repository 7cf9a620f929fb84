// Package completeness scores extracted CV and job-description documents
// against fixed field catalogs and suggests ranked actions for the gaps.
package completeness

// DocumentType identifies the variant of an extracted document.
type DocumentType string

const (
	DocumentTypeCV DocumentType = "cv"
	DocumentTypeJD DocumentType = "jd"
)

// Document is a normalized extraction result. It is implemented only by
// *CVData and *JDData.
type Document interface {
	Type() DocumentType
	sealed()
}

// RawDocument is an extraction payload as delivered by the OCR service.
type RawDocument struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// CVData is a normalized curriculum vitae.
type CVData struct {
	PersonalInfo   PersonalInfo      `json:"personalInfo"`
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	Skills         Skills            `json:"skills"`
	Certifications []string          `json:"certifications"`
}

type PersonalInfo struct {
	Name     Optional[string] `json:"name,omitzero"`
	Email    Optional[string] `json:"email,omitzero"`
	Phone    Optional[string] `json:"phone,omitzero"`
	Location Optional[string] `json:"location,omitzero"`
	Summary  Optional[string] `json:"summary,omitzero"`
}

type ExperienceEntry struct {
	Title       Optional[string] `json:"title,omitzero"`
	Company     Optional[string] `json:"company,omitzero"`
	Dates       Optional[string] `json:"dates,omitzero"`
	Description Optional[string] `json:"description,omitzero"`
}

type EducationEntry struct {
	Institution  Optional[string] `json:"institution,omitzero"`
	Degree       Optional[string] `json:"degree,omitzero"`
	FieldOfStudy Optional[string] `json:"fieldOfStudy,omitzero"`
	Dates        Optional[string] `json:"dates,omitzero"`
}

// Skills holds case-insensitively de-duplicated skill sets.
type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

// JDData is a normalized job description.
type JDData struct {
	JobTitle         Optional[string] `json:"jobTitle,omitzero"`
	Company          Optional[string] `json:"company,omitzero"`
	Responsibilities []string         `json:"responsibilities"`
	Requirements     Requirements     `json:"requirements"`
	Compensation     Optional[string] `json:"compensation,omitzero"`
	Location         Optional[string] `json:"location,omitzero"`
}

type Requirements struct {
	Required  []string `json:"required"`
	Preferred []string `json:"preferred"`
}

func (*CVData) Type() DocumentType { return DocumentTypeCV }
func (*CVData) sealed()            {}

func (*JDData) Type() DocumentType { return DocumentTypeJD }
func (*JDData) sealed()            {}
