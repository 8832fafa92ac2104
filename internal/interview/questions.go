package interview

import (
	"context"

	"github.com/pgagi/screener/internal/ai"

	"go.uber.org/zap"
)

// QuestionGenerator produces the per-technology question sets for the
// technical phase of an interview.
type QuestionGenerator struct {
	completer ai.Completer
	templates *Templates
	logger    *zap.Logger
}

// NewQuestionGenerator builds a generator on top of the completion
// collaborator and template store.
func NewQuestionGenerator(completer ai.Completer, templates *Templates, logger *zap.Logger) *QuestionGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionGenerator{
		completer: completer,
		templates: templates,
		logger:    logger,
	}
}

// Generate returns exactly three question strings per technology, in stack
// order. Each technology is handled independently: the collaborator is asked
// for a numbered list, the parsed questions are padded from the defaults
// when short and truncated when long. Generate never fails; a collaborator
// outage yields the full default set.
func (g *QuestionGenerator) Generate(ctx context.Context, techStack []string) map[string][]string {
	questions := make(map[string][]string, len(techStack))

	for _, tech := range techStack {
		prompt := g.templates.Render(TplTechQuestionGeneration, map[string]string{
			"technology": tech,
		})

		var parsed []string
		if result := g.completer.Complete(ctx, prompt); result.Available {
			parsed = ParseNumberedQuestions(result.Text)
		}

		padded := len(parsed) < questionsPerTech
		defaults := DefaultQuestions(tech)
		for len(parsed) < questionsPerTech {
			parsed = append(parsed, defaults[len(parsed)])
		}

		if padded {
			g.logger.Debug("padded generated questions with defaults",
				zap.String("technology", tech),
			)
		}

		questions[tech] = parsed[:questionsPerTech]
	}

	return questions
}
