package content

// Config controls the behavior of the Service.
type Config struct {
	// Validators run in order on every generated quiz question; the first
	// failure rejects the whole quiz.
	Validators []Validator

	// Models picks the model per purpose. An empty entry leaves the
	// provider's default in place.
	NotesModel    string
	QuizModel     string
	RemedialModel string

	// MaxTokens is the response budget per purpose.
	NotesMaxTokens    int
	QuizMaxTokens     int
	RemedialMaxTokens int

	Temperature float64

	// DefaultQuizCount replaces a non-positive count.
	DefaultQuizCount int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&IDValidator{},
			&StructuralValidator{},
			&OptionsValidator{},
			&ExplanationValidator{},
		},
		NotesModel:        "gemini-flash",
		QuizModel:         "gemini-pro",
		RemedialModel:     "gemini-pro",
		NotesMaxTokens:    8192,
		QuizMaxTokens:     8192,
		RemedialMaxTokens: 2048,
		Temperature:       0.7,
		DefaultQuizCount:  DefaultQuizCount,
	}
}

// WithoutModels clears the per-purpose models so every request uses the
// provider's configured model. Needed for providers that do not know the
// Gemini aliases.
func (c Config) WithoutModels() Config {
	c.NotesModel, c.QuizModel, c.RemedialModel = "", "", ""
	return c
}
