package domain

// ExtractionSource tags which stage of the name-extraction cascade
// produced a candidate.
type ExtractionSource string

const (
	SourceAI           ExtractionSource = "ai"
	SourceRegexField   ExtractionSource = "regex_field"
	SourceBrandPattern ExtractionSource = "brand_pattern"
	SourceKeyword      ExtractionSource = "keyword"
	SourceFirstToken   ExtractionSource = "first_token"
	SourceNone         ExtractionSource = "none"
)

// ExtractionResult is the outcome of the name-extraction cascade.
// CandidateName is empty only when Source is SourceNone.
type ExtractionResult struct {
	CandidateName string           `json:"candidate_name"`
	Source        ExtractionSource `json:"source"`
}

// Empty reports whether no usable name was derived.
func (r ExtractionResult) Empty() bool {
	return r.CandidateName == ""
}
