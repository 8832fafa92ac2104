package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubRecorder struct {
	createCalls int
	fields      CandidateFields
	consent     bool
	storedID    string
	stored      map[string][]QA
	createErr   error
	storeErr    error
}

func (r *stubRecorder) CreateCandidate(_ context.Context, fields CandidateFields, consentGiven bool) (string, error) {
	r.createCalls++
	r.fields = fields
	r.consent = consentGiven
	if r.createErr != nil {
		return "", r.createErr
	}
	return "cand-1", nil
}

func (r *stubRecorder) StoreResponses(_ context.Context, candidateID string, responses map[string][]QA) error {
	r.storedID = candidateID
	r.stored = responses
	return r.storeErr
}

var infoAnswers = []string{
	"Jane Doe",
	"jane@doe.dev",
	"+1 555 123 4567",
	"5",
	"Backend Developer",
	"Berlin",
	"Go, Python",
}

func newTestSession(completer *stubCompleter, recorder Recorder) *Session {
	return NewSession(NewTemplates("", ""), completer, recorder, zap.NewNop())
}

func TestFullTraversalWithUnavailableCompleter(t *testing.T) {
	ctx := context.Background()
	recorder := &stubRecorder{}
	session := newTestSession(&stubCompleter{fail: true}, recorder)

	if greeting := session.InitialPrompt(); greeting == "" {
		t.Fatalf("expected a greeting")
	}

	if reply := session.ProcessTurn(ctx, "yes"); reply == "" {
		t.Fatalf("expected a consent confirmation")
	}

	for _, answer := range infoAnswers {
		if reply := session.ProcessTurn(ctx, answer); reply == "" {
			t.Fatalf("expected non-empty fallback reply for answer %q", answer)
		}
	}

	if recorder.createCalls != 1 {
		t.Fatalf("expected one candidate record, got %d", recorder.createCalls)
	}
	if recorder.fields.Name != "Jane Doe" || recorder.fields.TechStack != "Go, Python" {
		t.Fatalf("unexpected candidate fields: %+v", recorder.fields)
	}

	// Two technologies, three answers each.
	for i := 0; i < 6; i++ {
		if !session.CanContinue() {
			t.Fatalf("expected session to accept answer %d", i+1)
		}
		if reply := session.ProcessTurn(ctx, "my answer"); reply == "" {
			t.Fatalf("expected non-empty reply to technical answer %d", i+1)
		}
	}

	if !session.IsComplete() {
		t.Fatalf("expected interview to be complete")
	}
	if session.CanContinue() {
		t.Fatalf("expected session to be finished after the conclusion")
	}

	if recorder.storedID != "cand-1" {
		t.Fatalf("expected responses stored for cand-1, got %q", recorder.storedID)
	}
	for _, tech := range []string{"go", "python"} {
		if len(recorder.stored[tech]) != 3 {
			t.Fatalf("expected exactly 3 recorded answers for %q, got %d", tech, len(recorder.stored[tech]))
		}
	}

	// Consent was given, so the closing is the fixed data notice.
	last := session.History()[len(session.History())-1]
	if !strings.Contains(last.Content, "This concludes our interview") {
		t.Fatalf("expected the GDPR end-of-interview notice, got:\n%s", last.Content)
	}
}

func TestDeclinedConsentNeverPersists(t *testing.T) {
	ctx := context.Background()
	recorder := &stubRecorder{}
	session := newTestSession(&stubCompleter{fail: true}, recorder)

	session.InitialPrompt()

	reply := session.ProcessTurn(ctx, "no")
	if !strings.Contains(reply, "will not store your personal data") {
		t.Fatalf("expected the declined-consent message, got:\n%s", reply)
	}

	for _, answer := range infoAnswers {
		session.ProcessTurn(ctx, answer)
	}
	var conclusion string
	for i := 0; i < 6; i++ {
		conclusion = session.ProcessTurn(ctx, "my answer")
	}

	if recorder.createCalls != 0 || recorder.storedID != "" {
		t.Fatalf("expected no persistence calls, got create=%d store=%q", recorder.createCalls, recorder.storedID)
	}

	if !strings.Contains(conclusion, "Thank you for taking the time to interview with PGAGI") {
		t.Fatalf("expected the fixed conclusion, got:\n%s", conclusion)
	}
	if session.CanContinue() {
		t.Fatalf("expected session to be finished")
	}
}

func TestUnrecognizedConsentReprompts(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(&stubCompleter{fail: true}, nil)

	session.InitialPrompt()

	reply := session.ProcessTurn(ctx, "maybe")
	if !strings.Contains(reply, "'yes' or 'no'") {
		t.Fatalf("expected a yes/no reprompt, got:\n%s", reply)
	}
	if len(session.CandidateInfo()) != 0 {
		t.Fatalf("expected no fields collected while the gate is open")
	}

	// The gate stays open, so a later clear answer still lands.
	if reply := session.ProcessTurn(ctx, "yes"); !strings.Contains(reply, "Thank you for your consent") {
		t.Fatalf("expected consent confirmation, got:\n%s", reply)
	}
	if !session.ConsentGiven() {
		t.Fatalf("expected consent to be recorded")
	}
}

func TestExitSentinelFromAnyState(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(&stubCompleter{fail: true}, nil)

	session.InitialPrompt()
	session.ProcessTurn(ctx, "yes")
	session.ProcessTurn(ctx, "Jane Doe")

	reply := session.ProcessTurn(ctx, "  EXIT  ")
	if !strings.Contains(reply, "The session has been ended") {
		t.Fatalf("expected the exit acknowledgment, got:\n%s", reply)
	}
	if session.CanContinue() {
		t.Fatalf("expected session to be finished after exit")
	}

	// Finished sessions ignore further input.
	before := len(session.History())
	session.ProcessTurn(ctx, "hello?")
	if len(session.History()) != before {
		t.Fatalf("expected no further transcript growth after exit")
	}
	if info := session.CandidateInfo(); info[StepEmail] != "" {
		t.Fatalf("expected no further state mutation after exit")
	}
}

func TestEmptyInputReprompts(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(&stubCompleter{fail: true}, nil)

	session.InitialPrompt()
	session.ProcessTurn(ctx, "yes")

	reply := session.ProcessTurn(ctx, "   ")
	if !strings.Contains(reply, "I didn't receive your response") {
		t.Fatalf("expected the empty-input reprompt, got:\n%s", reply)
	}
	if len(session.CandidateInfo()) != 0 {
		t.Fatalf("expected no state change on empty input")
	}
}

func TestValidationBlocksAdvance(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(&stubCompleter{fail: true}, nil)

	session.InitialPrompt()
	session.ProcessTurn(ctx, "yes")
	session.ProcessTurn(ctx, "Jane Doe")

	reply := session.ProcessTurn(ctx, "not-an-email")
	if !strings.Contains(reply, "valid email") {
		t.Fatalf("expected the validation fallback text, got:\n%s", reply)
	}
	if session.CandidateInfo()[StepEmail] != "" {
		t.Fatalf("expected the invalid answer to be discarded")
	}

	reply = session.ProcessTurn(ctx, "jane@doe.dev")
	if !strings.Contains(reply, "phone number") {
		t.Fatalf("expected the next field prompt after a valid answer, got:\n%s", reply)
	}
	if session.CandidateInfo()[StepEmail] != "jane@doe.dev" {
		t.Fatalf("expected the valid answer to be stored")
	}
}

func TestAcknowledgmentPersonalization(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(&stubCompleter{fail: true}, nil)

	session.InitialPrompt()
	session.ProcessTurn(ctx, "yes")

	reply := session.ProcessTurn(ctx, "Jane Doe")
	if !strings.Contains(reply, "Thanks Jane.") {
		t.Fatalf("expected a first-name acknowledgment, got:\n%s", reply)
	}
	if !strings.Contains(reply, "email address") {
		t.Fatalf("expected the email prompt, got:\n%s", reply)
	}
}

func TestSubsequentQuestionAckComesFromFixedPool(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(&stubCompleter{fail: true}, nil)

	session.InitialPrompt()
	session.ProcessTurn(ctx, "yes")
	for _, answer := range infoAnswers {
		session.ProcessTurn(ctx, answer)
	}

	// The reply to the first technical answer acknowledges it with one of
	// the fixed cosmetic phrases; any member of the set is acceptable.
	reply := session.ProcessTurn(ctx, "my answer")
	found := false
	for _, ack := range NewTemplates("", "").AckPool() {
		if strings.HasPrefix(reply, ack) {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected reply to start with a pooled acknowledgment, got:\n%s", reply)
	}
}

func TestCompleterTextPreferredWhenAvailable(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(&stubCompleter{response: "GENERATED"}, nil)

	session.InitialPrompt()
	session.ProcessTurn(ctx, "yes")

	if reply := session.ProcessTurn(ctx, "Jane Doe"); reply != "GENERATED" {
		t.Fatalf("expected the generated reply, got:\n%s", reply)
	}
}

func TestPersistenceFailureNeverBlocksConversation(t *testing.T) {
	ctx := context.Background()
	recorder := &stubRecorder{createErr: errors.New("db down"), storeErr: errors.New("db down")}
	session := newTestSession(&stubCompleter{fail: true}, recorder)

	session.InitialPrompt()
	session.ProcessTurn(ctx, "yes")
	for _, answer := range infoAnswers {
		session.ProcessTurn(ctx, answer)
	}
	for i := 0; i < 6; i++ {
		if reply := session.ProcessTurn(ctx, "my answer"); reply == "" {
			t.Fatalf("expected the conversation to continue past persistence failure")
		}
	}

	if !session.IsComplete() || session.CanContinue() {
		t.Fatalf("expected the interview to finish despite persistence errors")
	}
}

func TestRepeatedTechnologiesCollapseIntoOnePass(t *testing.T) {
	ctx := context.Background()
	recorder := &stubRecorder{}
	session := newTestSession(&stubCompleter{fail: true}, recorder)

	session.InitialPrompt()
	session.ProcessTurn(ctx, "yes")
	answers := append([]string{}, infoAnswers...)
	answers[len(answers)-1] = "Go, go"
	for _, answer := range answers {
		session.ProcessTurn(ctx, answer)
	}

	// One technology after collapsing, so three answers finish the interview.
	for i := 0; i < 3; i++ {
		if !session.CanContinue() {
			t.Fatalf("expected session to accept answer %d", i+1)
		}
		session.ProcessTurn(ctx, "my answer")
	}

	if !session.IsComplete() || session.CanContinue() {
		t.Fatalf("expected interview to complete after three answers")
	}
	if got := len(recorder.stored["go"]); got != 3 {
		t.Fatalf("expected exactly 3 recorded answers for go, got %d", got)
	}
}

func TestDistinctTechnologiesAdvancePositionally(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(&stubCompleter{fail: true}, nil)

	session.InitialPrompt()
	session.ProcessTurn(ctx, "yes")
	for _, answer := range infoAnswers {
		session.ProcessTurn(ctx, answer)
	}

	// Three answers on go, then the transition reply names python.
	session.ProcessTurn(ctx, "my answer")
	session.ProcessTurn(ctx, "my answer")
	reply := session.ProcessTurn(ctx, "my answer")
	if !strings.Contains(reply, "python") {
		t.Fatalf("expected the transition to the second technology, got:\n%s", reply)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(&stubCompleter{fail: true}, nil)

	session.InitialPrompt()
	session.ProcessTurn(ctx, "yes")
	session.ProcessTurn(ctx, "Jane Doe")

	session.Reset()
	session.Reset()

	if !session.CanContinue() || session.IsComplete() {
		t.Fatalf("expected a fresh session after reset")
	}
	if len(session.CandidateInfo()) != 0 || len(session.History()) != 0 {
		t.Fatalf("expected empty state after reset")
	}
	if session.ConsentGiven() {
		t.Fatalf("expected consent to be cleared by reset")
	}
}

func TestHistoryRecordsEveryTurn(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(&stubCompleter{fail: true}, nil)

	session.InitialPrompt()
	session.ProcessTurn(ctx, "maybe")
	session.ProcessTurn(ctx, "yes")

	history := session.History()
	// Greeting plus two user/assistant pairs.
	if len(history) != 5 {
		t.Fatalf("expected 5 transcript entries, got %d", len(history))
	}
	if history[0].Role != "assistant" || history[1].Role != "user" || history[2].Role != "assistant" {
		t.Fatalf("unexpected transcript roles: %+v", history)
	}
}
