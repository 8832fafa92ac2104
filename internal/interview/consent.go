package interview

import "strings"

// ConsentDecision is the interpretation of a reply to the consent prompt.
type ConsentDecision int

const (
	ConsentUnrecognized ConsentDecision = iota
	ConsentAffirmed
	ConsentDeclined
)

// consentReprompt is returned verbatim whenever a consent reply is not
// recognized; the gate stays open for the next turn.
const consentReprompt = "Please respond with 'yes' or 'no' to indicate whether you consent to storing your interview data."

var affirmPhrases = map[string]struct{}{
	"yes":       {},
	"y":         {},
	"sure":      {},
	"okay":      {},
	"ok":        {},
	"agree":     {},
	"consent":   {},
	"i consent": {},
}

var declinePhrases = map[string]struct{}{
	"no":               {},
	"n":                {},
	"nope":             {},
	"disagree":         {},
	"do not consent":   {},
	"i do not consent": {},
}

// Consent tracks the one-shot GDPR gate that runs before any field
// collection. Its outcome is immutable for the session; there is no
// in-conversation revocation path.
type Consent struct {
	IntroShown bool
	Requested  bool
	Given      bool

	// CandidateID is assigned by the persistence gateway once consent was
	// affirmed and the technical phase begins. Empty until then.
	CandidateID string
}

// Open reports whether the gate still awaits a recognizable answer.
func (c *Consent) Open() bool {
	return c.IntroShown && !c.Requested
}

// Interpret classifies a consent reply. Affirmed and Declined close the gate
// and fix the outcome; anything else leaves it open.
func (c *Consent) Interpret(input string) ConsentDecision {
	switch normalized := strings.ToLower(strings.TrimSpace(input)); {
	case member(affirmPhrases, normalized):
		c.Requested = true
		c.Given = true
		return ConsentAffirmed
	case member(declinePhrases, normalized):
		c.Requested = true
		return ConsentDeclined
	default:
		return ConsentUnrecognized
	}
}

func member(set map[string]struct{}, s string) bool {
	_, ok := set[s]
	return ok
}

// Reset restores the pristine pre-intro state.
func (c *Consent) Reset() {
	*c = Consent{}
}
