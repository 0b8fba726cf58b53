package documents

// Upload is a received file.
type Upload struct {
	Filename string
	Data     []byte
}

// Analysis is the preliminary result returned for an uploaded document.
type Analysis struct {
	Filename           string   `json:"filename"`
	ContentType        string   `json:"content_type"`
	SizeBytes          int64    `json:"size_bytes"`
	PageCount          *int     `json:"page_count,omitempty"`
	Summary            string   `json:"summary"`
	KeyPoints          []string `json:"key_points"`
	Risks              []string `json:"risks"`
	SuggestedQuestions []string `json:"suggested_questions"`
}
