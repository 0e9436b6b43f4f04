package dto

// AnalyzeRequest carries the free-form natural-language query.
// Text may be empty; the pipeline answers with a degraded message
// rather than rejecting the request.
type AnalyzeRequest struct {
	Text string `json:"text" validate:"max=500"`
}
