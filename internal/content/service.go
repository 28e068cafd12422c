package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/scholar/internal/history"
	"github.com/abhisek/scholar/internal/llm"
	"github.com/abhisek/scholar/internal/quiz"
)

// Service generates notes, quizzes and remedial plans. Each call issues
// exactly one provider request.
type Service struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// NewService creates a Service. A nil logger discards output.
func NewService(provider llm.Provider, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{provider: provider, config: cfg, logger: logger}
}

// quizOutput is the raw quiz response before validation.
type quizOutput struct {
	Questions []quiz.Question `json:"questions"`
}

// GenerateNotes produces a study module for topic.
func (s *Service) GenerateNotes(ctx context.Context, topic string) (*NoteModule, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("notes: empty topic")
	}

	var notes NoteModule
	err := s.generate(llm.WithPurpose(ctx, PurposeNotes), llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: notesMessage(topic)}},
		Schema:      NotesSchema,
		Model:       s.config.NotesModel,
		MaxTokens:   s.config.NotesMaxTokens,
		Temperature: s.config.Temperature,
	}, &notes)
	if err != nil {
		return nil, s.fail(PurposeNotes, topic, err)
	}
	if notes.Topic == "" {
		notes.Topic = topic
	}
	return &notes, nil
}

// GenerateQuiz produces count validated questions on topic. A count of zero
// or less uses the configured default.
func (s *Service) GenerateQuiz(ctx context.Context, topic string, count int) ([]quiz.Question, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("quiz: empty topic")
	}
	if count <= 0 {
		count = s.config.DefaultQuizCount
		if count <= 0 {
			count = DefaultQuizCount
		}
	}

	var out quizOutput
	err := s.generate(llm.WithPurpose(ctx, PurposeQuiz), llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: quizMessage(topic, count)}},
		Schema:      QuizSchema,
		Model:       s.config.QuizModel,
		MaxTokens:   s.config.QuizMaxTokens,
		Temperature: s.config.Temperature,
	}, &out)
	if err != nil {
		return nil, s.fail(PurposeQuiz, topic, err)
	}

	if err := s.validate(out.Questions); err != nil {
		return nil, s.fail(PurposeQuiz, topic, err)
	}
	return out.Questions, nil
}

// GenerateRemedialPlan asks for a correction plan for result.
func (s *Service) GenerateRemedialPlan(ctx context.Context, result history.Result) (*RemedialPlan, error) {
	var plan RemedialPlan
	err := s.generate(llm.WithPurpose(ctx, PurposeRemedial), llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: remedialMessage(result)}},
		Schema:      RemedialSchema,
		Model:       s.config.RemedialModel,
		MaxTokens:   s.config.RemedialMaxTokens,
		Temperature: s.config.Temperature,
	}, &plan)
	if err != nil {
		return nil, s.fail(PurposeRemedial, result.Topic, err)
	}
	if plan.SimplifiedNotes == nil {
		plan.SimplifiedNotes = []string{}
	}
	return &plan, nil
}

func (s *Service) generate(ctx context.Context, req llm.Request, out any) error {
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("LLM generation failed: %w", err)
	}
	if err := json.Unmarshal(resp.Content, out); err != nil {
		return fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return nil
}

func (s *Service) validate(questions []quiz.Question) error {
	if len(questions) == 0 {
		return quiz.ErrNoQuestions
	}
	for i := range questions {
		for _, v := range s.config.Validators {
			if verr := v.Validate(&questions[i], i, questions); verr != nil {
				return verr
			}
		}
	}
	return nil
}

func (s *Service) fail(purpose, topic string, err error) error {
	s.logger.Error("content generation failed",
		"purpose", purpose,
		"topic", topic,
		"error", err,
	)
	return fmt.Errorf("generate %s for %q: %w", purpose, topic, err)
}
