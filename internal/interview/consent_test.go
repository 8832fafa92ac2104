package interview

import "testing"

func TestConsentInterpretAffirmed(t *testing.T) {
	for _, input := range []string{"yes", "Y", "  Sure ", "okay", "OK", "agree", "consent", "I Consent"} {
		c := &Consent{IntroShown: true}
		if got := c.Interpret(input); got != ConsentAffirmed {
			t.Fatalf("expected %q to affirm, got %v", input, got)
		}
		if !c.Given || !c.Requested {
			t.Fatalf("expected consent to be recorded for %q", input)
		}
		if c.Open() {
			t.Fatalf("expected gate to close after %q", input)
		}
	}
}

func TestConsentInterpretDeclined(t *testing.T) {
	for _, input := range []string{"no", "N", "nope", "disagree", "do not consent", "I do not consent"} {
		c := &Consent{IntroShown: true}
		if got := c.Interpret(input); got != ConsentDeclined {
			t.Fatalf("expected %q to decline, got %v", input, got)
		}
		if c.Given {
			t.Fatalf("expected consent to stay withheld for %q", input)
		}
		if c.Open() {
			t.Fatalf("expected gate to close after %q", input)
		}
	}
}

func TestConsentInterpretUnrecognizedKeepsGateOpen(t *testing.T) {
	c := &Consent{IntroShown: true}
	if got := c.Interpret("maybe"); got != ConsentUnrecognized {
		t.Fatalf("expected unrecognized, got %v", got)
	}
	if c.Requested || c.Given {
		t.Fatalf("expected gate state to be unchanged")
	}
	if !c.Open() {
		t.Fatalf("expected gate to remain open")
	}
}

func TestConsentReset(t *testing.T) {
	c := &Consent{IntroShown: true}
	c.Interpret("yes")
	c.CandidateID = "some-id"

	c.Reset()

	if c.IntroShown || c.Requested || c.Given || c.CandidateID != "" {
		t.Fatalf("expected pristine consent state, got %+v", c)
	}
}
