package interview

import "strings"

// questionsPerTech is the fixed number of questions asked about each
// technology.
const questionsPerTech = 3

// QA is one recorded question/answer pair.
type QA struct {
	Question string
	Answer   string
}

// State is the mutable record of a single interview's progress. It is
// single-writer: exactly one turn mutates it at a time, driven by the
// session's request/response cycle.
type State struct {
	// CurrentStep is one of the info-gathering steps, then
	// StepTechnicalQuestions, then StepComplete. It only moves forward.
	CurrentStep string

	// CandidateInfo maps step name to the raw answer. Keys are unique and
	// follow the fixed field order.
	CandidateInfo map[string]string

	// FirstName caches the first whitespace-delimited token of the name
	// answer for personalized acknowledgments.
	FirstName string

	// TechStack is the ordered, normalized technology list (1..4 entries).
	TechStack []string

	// CurrentTech is the technology currently being interviewed on; empty
	// before the technical phase starts.
	CurrentTech string

	// CurrentTechIndex is the position of CurrentTech in TechStack, or -1
	// before the technical phase starts. Progress through the stack is
	// positional; the interview never searches the stack by value.
	CurrentTechIndex int

	// QuestionsAsked counts answered questions for CurrentTech, in [0,3].
	// It resets whenever CurrentTech changes.
	QuestionsAsked int

	// TechQuestions maps technology to its exactly-three question strings,
	// populated once when info gathering ends.
	TechQuestions map[string][]string

	// CurrentQuestion is the question most recently posed; it labels the
	// candidate's next answer.
	CurrentQuestion string

	// AskedQuestions maps technology to its recorded question/answer pairs.
	// An entry never exceeds three pairs and only grows while its
	// technology is current.
	AskedQuestions map[string][]QA

	// Complete is set once all technologies have been covered. Finished is
	// distinct: it is set on explicit exit or after the conclusion message
	// and gates whether further input is accepted.
	Complete bool
	Finished bool
}

// NewState returns a state positioned at the first info-gathering step.
func NewState() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset restores the initial state. Calling it repeatedly is idempotent.
func (s *State) Reset() {
	*s = State{
		CurrentStep:      fieldOrder[0],
		CurrentTechIndex: -1,
		CandidateInfo:    make(map[string]string),
		TechQuestions:    make(map[string][]string),
		AskedQuestions:   make(map[string][]QA),
	}
}

// StoreCandidateInfo records the raw answer for an info-gathering step. The
// name step also refreshes the first-name cache.
func (s *State) StoreCandidateInfo(step, value string) {
	s.CandidateInfo[step] = value

	if step == StepName {
		trimmed := strings.TrimSpace(value)
		if parts := strings.Fields(trimmed); len(parts) > 0 {
			s.FirstName = parts[0]
		} else {
			s.FirstName = trimmed
		}
	}
}

// SetTechStack replaces the technology list.
func (s *State) SetTechStack(techs []string) {
	s.TechStack = techs
}

// SetCurrentTech switches the interview to the technology at the given stack
// position and resets the per-technology question counter.
func (s *State) SetCurrentTech(index int) {
	s.CurrentTechIndex = index
	s.CurrentTech = s.TechStack[index]
	s.QuestionsAsked = 0
}

// IncrementQuestionsAsked bumps the answered-question counter for the
// current technology and returns the new count.
func (s *State) IncrementQuestionsAsked() int {
	s.QuestionsAsked++
	return s.QuestionsAsked
}

// StoreQuestion records the question being posed so the next answer can be
// labeled with it.
func (s *State) StoreQuestion(question string) {
	s.CurrentQuestion = question
}

// StoreAnswer appends a question/answer pair for the given technology.
func (s *State) StoreAnswer(tech, question, answer string) {
	s.AskedQuestions[tech] = append(s.AskedQuestions[tech], QA{
		Question: question,
		Answer:   answer,
	})
}

// QuestionsFor returns the prepared questions for a technology.
func (s *State) QuestionsFor(tech string) []string {
	return s.TechQuestions[tech]
}

// AnswersFor returns the recorded pairs for a technology.
func (s *State) AnswersFor(tech string) []QA {
	return s.AskedQuestions[tech]
}
