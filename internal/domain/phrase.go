package domain

// Phrase is one phrasebook entry. German is the target language; Context
// is the usage tip shown next to it.
type Phrase struct {
	German   string `json:"de"`
	English  string `json:"en"`
	Spanish  string `json:"es"`
	Category string `json:"category"`
	Context  string `json:"context"`
}
