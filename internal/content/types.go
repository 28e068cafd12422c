// Package content generates study material (notes, quizzes and remedial
// plans) from an LLM provider.
package content

// NoteModule is a structured study note for one syllabus topic.
type NoteModule struct {
	Topic             string          `json:"topic"`
	ConceptOverview   string          `json:"conceptOverview"`
	DeepDiveMechanism string          `json:"deepDiveMechanism,omitempty"`
	KeyNCERTLines     []string        `json:"keyNcertLines"`
	ConfusedTerms     []ConfusedTerm  `json:"confusedTerms"`
	Mnemonics         []string        `json:"mnemonics"`
	ExamTraps         []string        `json:"examTraps,omitempty"`
	CriticalData      []CriticalDatum `json:"criticalData,omitempty"`
}

// ConfusedTerm contrasts two terms students commonly mix up.
type ConfusedTerm struct {
	Term1      string `json:"term1"`
	Term2      string `json:"term2"`
	Difference string `json:"difference"`
}

// CriticalDatum is a constant, value or ratio worth memorizing.
type CriticalDatum struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// RemedialPlan is a correction plan built from a quiz result.
type RemedialPlan struct {
	Plan            string   `json:"plan"`
	SimplifiedNotes []string `json:"simplifiedNotes"`
}

// Purposes tag each request for LLM event logging.
const (
	PurposeNotes    = "notes"
	PurposeQuiz     = "quiz"
	PurposeRemedial = "remedial"
)

// DefaultQuizCount is used when a quiz is requested with count <= 0.
const DefaultQuizCount = 5
