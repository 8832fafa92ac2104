// Package interview implements the scripted technical-interview
// conversation: a linear state machine that collects candidate profile
// fields in a fixed order, asks three generated questions per technology
// and records the answers, persisting them only when consent was given.
package interview

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/pgagi/screener/internal/ai"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// ExitSentinel ends the interview from any state, case-insensitively.
const ExitSentinel = "exit"

const (
	exitMessage   = "Thank you for participating in the interview. The session has been ended."
	endedMessage  = "The interview session has ended. Thank you again for your time."
	emptyReprompt = "I didn't receive your response. Could you please provide an answer to the question?"
	lostMessage   = "I'm not sure what to ask next. Let's restart the interview."
)

// CandidateFields is the profile snapshot handed to the persistence
// gateway, decoded from the collected answers.
type CandidateFields struct {
	Name       string `mapstructure:"name"`
	Email      string `mapstructure:"email"`
	Phone      string `mapstructure:"phone"`
	Experience string `mapstructure:"experience"`
	Position   string `mapstructure:"position"`
	Location   string `mapstructure:"location"`
	TechStack  string `mapstructure:"tech_stack"`
}

// Recorder is the narrow persistence contract the session depends on. Both
// writes are consent-gated by the caller and happen at most once per
// session; a failed write never blocks the conversation.
type Recorder interface {
	CreateCandidate(ctx context.Context, fields CandidateFields, consentGiven bool) (string, error)
	StoreResponses(ctx context.Context, candidateID string, responses map[string][]QA) error
}

// Message is one entry of the display transcript.
type Message struct {
	Role    string
	Content string
}

// pickAck selects the cosmetic acknowledgment between technical questions.
// Package-level var to allow test injection.
var pickAck = func(n int) int { return rand.IntN(n) }

// Session drives one interview conversation. It is single-writer: one turn
// at a time, no internal concurrency. Sessions are independent of each
// other; nothing in here is shared.
type Session struct {
	templates *Templates
	completer ai.Completer
	questions *QuestionGenerator
	recorder  Recorder
	logger    *zap.Logger

	state   *State
	consent *Consent
	history []Message
}

// NewSession assembles a session. The recorder may be nil, in which case
// persistence is skipped entirely (responses still gated on consent would
// simply have nowhere to go).
func NewSession(templates *Templates, completer ai.Completer, recorder Recorder, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}

	return &Session{
		templates: templates,
		completer: completer,
		questions: NewQuestionGenerator(completer, templates, log),
		recorder:  recorder,
		logger:    log,
		state:     NewState(),
		consent:   &Consent{},
	}
}

// InitialPrompt opens the conversation with the GDPR-first greeting and
// arms the consent gate.
func (s *Session) InitialPrompt() string {
	s.consent.IntroShown = true
	greeting := s.templates.Greeting()
	s.history = append(s.history, Message{Role: "assistant", Content: greeting})
	return greeting
}

// ProcessTurn handles one unit of user input and returns the outgoing
// message. Once the interview is finished no further state mutation
// happens; callers should consult CanContinue before prompting again.
func (s *Session) ProcessTurn(ctx context.Context, input string) string {
	if s.state.Finished {
		return endedMessage
	}

	reply := s.turn(ctx, input)

	s.history = append(s.history,
		Message{Role: "user", Content: input},
		Message{Role: "assistant", Content: reply},
	)

	return reply
}

func (s *Session) turn(ctx context.Context, input string) string {
	if strings.EqualFold(strings.TrimSpace(input), ExitSentinel) {
		s.state.Finished = true
		return exitMessage
	}

	if strings.TrimSpace(input) == "" {
		return emptyReprompt
	}

	if s.consent.Open() {
		switch s.consent.Interpret(input) {
		case ConsentAffirmed:
			return s.templates.ConsentGiven()
		case ConsentDeclined:
			return s.templates.ConsentDeclined()
		default:
			return consentReprompt
		}
	}

	if result := Validate(s.state.CurrentStep, input); !result.Valid {
		return s.validationMessage(ctx, result)
	}

	s.storeResponse(ctx, input)

	return s.nextMessage(ctx, input)
}

func (s *Session) validationMessage(ctx context.Context, result ValidationResult) string {
	prompt := s.templates.Render(TplValidationError, map[string]string{
		"field_type":    result.FieldType,
		"error_message": result.Error,
	})

	if r := s.completer.Complete(ctx, prompt); r.Available {
		return r.Text
	}

	return result.Error
}

// storeResponse records the answer for the current step and advances the
// state machine. All mutations for the turn happen here, before the
// outgoing message is composed.
func (s *Session) storeResponse(ctx context.Context, input string) {
	step := s.state.CurrentStep

	if idx := fieldIndex(step); idx >= 0 {
		s.state.StoreCandidateInfo(step, input)

		if step == StepTechStack {
			s.state.SetTechStack(ParseTechStack(input))
		}

		if idx < len(fieldOrder)-1 {
			s.state.CurrentStep = fieldOrder[idx+1]
			return
		}

		// Last field collected; prepare the technical phase.
		stack := s.state.TechStack
		if len(stack) == 0 {
			stack = []string{generalTech}
			s.state.SetTechStack(stack)
		}

		s.state.TechQuestions = s.questions.Generate(ctx, stack)
		s.state.CurrentStep = StepTechnicalQuestions
		s.state.SetCurrentTech(0)

		if s.consent.Given {
			s.createCandidateRecord(ctx)
		}
		return
	}

	if step == StepTechnicalQuestions {
		s.state.StoreAnswer(s.state.CurrentTech, s.state.CurrentQuestion, input)

		if s.state.IncrementQuestionsAsked() < questionsPerTech {
			return
		}

		if i := s.state.CurrentTechIndex; i < len(s.state.TechStack)-1 {
			s.state.SetCurrentTech(i + 1)
			return
		}

		s.state.CurrentStep = StepComplete
		s.state.Complete = true

		if s.consent.Given && s.consent.CandidateID != "" {
			s.flushResponses(ctx)
		}
	}
}

func (s *Session) createCandidateRecord(ctx context.Context) {
	if s.recorder == nil {
		return
	}

	var fields CandidateFields
	if err := mapstructure.Decode(s.state.CandidateInfo, &fields); err != nil {
		s.logger.Warn("decoding candidate info", zap.Error(err))
		return
	}

	id, err := s.recorder.CreateCandidate(ctx, fields, s.consent.Given)
	if err != nil {
		s.logger.Warn("creating candidate record", zap.Error(err))
		return
	}

	s.consent.CandidateID = id
	s.logger.Info("candidate record created", zap.String("candidate_id", id))
}

func (s *Session) flushResponses(ctx context.Context) {
	if s.recorder == nil {
		return
	}

	responses := make(map[string][]QA)
	for _, tech := range s.state.TechStack {
		if pairs := s.state.AnswersFor(tech); len(pairs) > 0 {
			responses[tech] = pairs
		}
	}

	if err := s.recorder.StoreResponses(ctx, s.consent.CandidateID, responses); err != nil {
		s.logger.Warn("storing interview responses", zap.Error(err))
		return
	}

	s.logger.Info("interview responses stored",
		zap.String("candidate_id", s.consent.CandidateID),
		zap.Int("technologies", len(responses)),
	)
}

// nextMessage composes the outgoing message for the state the turn just
// moved into.
func (s *Session) nextMessage(ctx context.Context, input string) string {
	step := s.state.CurrentStep

	if idx := fieldIndex(step); idx >= 0 {
		nextQuestion := s.templates.FieldPrompt(step)
		if idx == 0 {
			return nextQuestion
		}

		prevStep := fieldOrder[idx-1]
		prompt := s.templates.Render(TplInfoGathering, map[string]string{
			"prev_step":     prevStep,
			"user_input":    input,
			"next_question": nextQuestion,
		})

		if r := s.completer.Complete(ctx, prompt); r.Available {
			return r.Text
		}

		ack := substitute(s.templates.BasicAck(prevStep), map[string]string{
			"name": s.state.FirstName,
		})
		return ack + " " + nextQuestion
	}

	switch step {
	case StepTechnicalQuestions:
		return s.technicalQuestionMessage(ctx)
	case StepComplete:
		return s.conclusionMessage(ctx)
	}

	return lostMessage
}

func (s *Session) technicalQuestionMessage(ctx context.Context) string {
	tech := s.state.CurrentTech

	questions := s.state.QuestionsFor(tech)
	if len(questions) < questionsPerTech {
		questions = DefaultQuestions(tech)
	}

	if s.state.QuestionsAsked == 0 {
		return s.firstQuestionMessage(ctx, tech, questions[0])
	}

	idx := s.state.QuestionsAsked
	if idx >= len(questions) {
		idx = len(questions) - 1
	}
	next := questions[idx]
	s.state.StoreQuestion(next)

	if pairs := s.state.AnswersFor(tech); len(pairs) > 0 {
		last := pairs[len(pairs)-1]
		prompt := s.templates.Render(TplNextTechQuestion, map[string]string{
			"technology":        tech,
			"previous_question": last.Question,
			"previous_answer":   last.Answer,
			"next_question":     next,
		})

		if r := s.completer.Complete(ctx, prompt); r.Available {
			return r.Text
		}
	}

	pool := s.templates.AckPool()
	return pool[pickAck(len(pool))] + " " + next
}

func (s *Session) firstQuestionMessage(ctx context.Context, tech, first string) string {
	s.state.StoreQuestion(first)

	if s.state.CurrentTechIndex == 0 {
		prompt := s.templates.Render(TplTechTransition, map[string]string{
			"tech_stack":     s.state.CandidateInfo[StepTechStack],
			"current_tech":   tech,
			"first_question": first,
		})

		if r := s.completer.Complete(ctx, prompt); r.Available {
			return r.Text
		}

		transition := s.templates.BasicAck(StepTechStack) +
			" Now I'd like to ask you some theoretical questions about " + tech + "."
		return transition + "\n\n" + first
	}

	previous := s.state.TechStack[s.state.CurrentTechIndex-1]
	prompt := s.templates.Render(TplTechTransitionNext, map[string]string{
		"previous_tech":  previous,
		"next_tech":      tech,
		"first_question": first,
	})

	if r := s.completer.Complete(ctx, prompt); r.Available {
		return r.Text
	}

	return "Great. Now I'd like to ask you some theoretical questions about " + tech + ".\n\n" + first
}

func (s *Session) conclusionMessage(ctx context.Context) string {
	// A consent-given session always closes with the fixed GDPR notice; the
	// generated conclusion is reserved for sessions whose data is not kept.
	var message string
	if s.consent.Given {
		message = s.templates.EndOfInterviewNotice()
	} else {
		prompt := s.templates.Render(TplConclusion, map[string]string{
			"candidate_name": s.state.FirstName,
			"technologies":   strings.Join(s.state.TechStack, ", "),
		})

		if r := s.completer.Complete(ctx, prompt); r.Available {
			message = r.Text
		} else {
			message = s.templates.Conclusion()
		}
	}

	s.state.Finished = true
	return message
}

// History returns a copy of the display transcript.
func (s *Session) History() []Message {
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// CandidateInfo returns a copy of the collected profile answers.
func (s *Session) CandidateInfo() map[string]string {
	out := make(map[string]string, len(s.state.CandidateInfo))
	for k, v := range s.state.CandidateInfo {
		out[k] = v
	}
	return out
}

// ConsentGiven reports the consent gate's outcome so far.
func (s *Session) ConsentGiven() bool {
	return s.consent.Given
}

// IsComplete reports whether all technologies have been covered.
func (s *Session) IsComplete() bool {
	return s.state.Complete
}

// CanContinue reports whether the session still accepts input.
func (s *Session) CanContinue() bool {
	return !s.state.Finished
}

// Reset discards all conversation state, returning the session to the
// pre-greeting position. Resetting twice is the same as resetting once.
func (s *Session) Reset() {
	s.state.Reset()
	s.consent.Reset()
	s.history = nil
}

func fieldIndex(step string) int {
	for i, f := range fieldOrder {
		if f == step {
			return i
		}
	}
	return -1
}
