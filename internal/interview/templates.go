package interview

import (
	"fmt"
	"strings"
)

// Named generation templates consumed by the completion collaborator.
const (
	TplInfoGathering          = "info_gathering"
	TplTechTransition         = "tech_transition"
	TplTechTransitionNext     = "tech_transition_next"
	TplTechQuestionGeneration = "tech_question_generation"
	TplNextTechQuestion       = "next_tech_question"
	TplConclusion             = "conclusion"
	TplValidationError        = "validation_error"
)

// fieldOrder is the fixed sequence of info-gathering steps. The interview
// never revisits a step and never reorders them.
var fieldOrder = []string{
	StepName,
	StepEmail,
	StepPhone,
	StepExperience,
	StepPosition,
	StepLocation,
	StepTechStack,
}

const (
	StepName               = "name"
	StepEmail              = "email"
	StepPhone              = "phone"
	StepExperience         = "experience"
	StepPosition           = "position"
	StepLocation           = "location"
	StepTechStack          = "tech_stack"
	StepTechnicalQuestions = "technical_questions"
	StepComplete           = "complete"
)

// Templates is the immutable per-session text store: fixed prompts,
// acknowledgments, consent texts and the instruction templates handed to the
// completion collaborator. Everything is parameterized by the company and
// interviewer names once, at construction.
type Templates struct {
	Company     string
	Interviewer string

	fieldPrompts map[string]string
	basicAcks    map[string]string
	ackPool      []string
	generation   map[string]string

	conclusion string

	consentRequest  string
	consentGiven    string
	consentDeclined string
	dataRightsInfo  string
	endNotice       string
}

// NewTemplates builds the template store for the given company and
// interviewer names. Empty names fall back to the built-in defaults.
func NewTemplates(company, interviewer string) *Templates {
	if company = strings.TrimSpace(company); company == "" {
		company = "PGAGI"
	}
	if interviewer = strings.TrimSpace(interviewer); interviewer == "" {
		interviewer = "AVA"
	}

	t := &Templates{
		Company:     company,
		Interviewer: interviewer,
	}

	t.fieldPrompts = map[string]string{
		StepName:       "What is your full name?",
		StepEmail:      "What is your email address?",
		StepPhone:      "What is your phone number where we can reach you?",
		StepExperience: "How many years of professional experience do you have in software development?",
		StepPosition:   "What position are you applying for?",
		StepLocation:   "What is your current location?",
		StepTechStack:  "Please specify your tech stack, including programming languages, frameworks, databases, and tools you are proficient in. Please list them separated by commas (e.g., Python, React, MongoDB).",
	}

	t.basicAcks = map[string]string{
		StepName:       "Thanks {name}.",
		StepEmail:      "Got it.",
		StepPhone:      "Thanks for providing your contact information.",
		StepExperience: "Thank you for sharing your experience.",
		StepPosition:   "I see you're interested in that role.",
		StepLocation:   "Thank you for letting me know your location.",
		StepTechStack:  "Thanks for sharing your tech stack.",
	}

	t.ackPool = []string{
		"Thank you for sharing that information.",
		"That's helpful to understand your background.",
		"I appreciate your detailed response.",
		"Great, that gives me a good picture of your experience.",
		"Thank you for your thorough explanation.",
	}

	t.generation = map[string]string{
		TplInfoGathering: `You are {interviewer_name}, an AI technical interviewer for {company_name}. The candidate just answered a question about their {prev_step}.

Their response: "{user_input}"

You need to:
1. Briefly acknowledge their response in a natural, conversational way
2. Ask this next question: "{next_question}"

Keep your response brief and conversational.
`,

		TplTechTransition: `You are {interviewer_name}, an AI technical interviewer for {company_name}. The candidate has shared their technical skills:

"{tech_stack}"

You need to:
1. Acknowledge their tech stack
2. Explain you'll ask some theoretical questions about {current_tech} (mention that you're focusing on concepts, not coding)
3. Ask this first question about {current_tech}: "{first_question}"

Keep your response conversational and engaging.
`,

		TplTechQuestionGeneration: `You are a technical interviewer specialized in {technology}.

Generate 3 theoretical technical questions for a developer interview about {technology}. The questions should:
1. Focus on concepts, theory, and understanding (NOT coding questions)
2. Assess the candidate's knowledge of principles, architecture, and best practices
3. Range from fundamental concepts to more advanced theoretical understanding
4. Include questions about paradigms, design patterns, or architectural considerations where applicable
5. Be clear and concise

Examples of good theoretical questions:
- "Can you explain the difference between OOP and functional programming paradigms?"
- "What are the key principles of RESTful API design?"
- "How does the MVC architecture pattern work?"

Avoid asking:
- Coding challenges or algorithm implementations
- Questions that would require writing code
- Syntax-specific questions

Format your response as a numbered list with just the questions.
`,

		TplNextTechQuestion: `You are {interviewer_name}, an AI technical interviewer for {company_name} asking about {technology}.

The candidate was asked: "{previous_question}"

They answered: "{previous_answer}"

You need to:
1. Acknowledge their answer with a thoughtful comment
2. Ask this follow-up question: "{next_question}"

Keep your response conversational and focused on this specific technology.
`,

		TplTechTransitionNext: `You are {interviewer_name}, an AI technical interviewer for {company_name}.

You've just finished asking questions about {previous_tech}.

You need to:
1. Briefly acknowledge the candidate's responses about {previous_tech}
2. Transition to ask theoretical questions about {next_tech}
3. Ask this specific question about {next_tech}: "{first_question}"

Keep your transition smooth and professional.
`,

		TplConclusion: `You are {interviewer_name}, an AI technical interviewer for {company_name} who has just completed an interview with {candidate_name}.

Create a personalized conclusion message that:
1. Thanks them for taking the time to interview with {company_name} today
2. Mentions you've enjoyed learning about their background and assessing their theoretical understanding of {technologies}
3. Explains the next steps (their responses will be reviewed, they'll be contacted within a few business days if there's a good match)
4. Wishes them luck with their application to {company_name}
5. Ends with "Sincerely," followed by your name, role, and company

Keep the tone professional but warm. Format as a basic message without a subject line.
`,

		TplValidationError: `You are {interviewer_name}, an AI technical interviewer for {company_name}.

The candidate provided an invalid response for their {field_type}. Politely ask them to provide a valid {field_type} again.

Error message to convey: "{error_message}"

Keep your response friendly and helpful.
`,
	}

	t.conclusion = fmt.Sprintf(`Thank you for taking the time to interview with %[1]s today. I enjoyed learning more about your background and assessing your theoretical understanding. Your responses provided valuable insights into your skills and experience.

The next step in the process is for us to review all the interview responses. We will be in touch within a few business days to let you know if your qualifications are a good match for our current openings.

We appreciate you considering %[1]s, and we wish you the very best of luck with your application.

Sincerely,

%[2]s
AI Technical Interviewer
%[1]s
`, company, interviewer)

	t.consentRequest = fmt.Sprintf(`This data will include:
- Your name, email, and phone number
- Your professional experience and skills
- Your answers to technical questions

We follow GDPR guidelines, meaning:
1. Your data will be stored securely
2. It will be retained for a maximum of 12 months
3. You can request access, correction, or deletion of your data at any time
4. We will not share your data with third parties without your consent

Do you consent to %s storing this information? Please reply with 'yes' or 'no'.
`, company)

	t.consentGiven = fmt.Sprintf(`Thank you for your consent. Your information will be stored securely in accordance with our privacy policy.

You may revoke this consent at any time by contacting our data protection team at privacy@%s.com.

Let me now explain the interview process:
- This interview will take approximately 15-20 minutes
- First, I'll collect some basic information about you
- Then, I'll ask some theoretical technical questions (no coding required)
- Feel free to ask clarifying questions at any point

Now, let's begin. Could you please tell me your full name?
`, strings.ToLower(company))

	t.consentDeclined = fmt.Sprintf(`I understand your decision. %s will not store your personal data beyond this interview session.

Let me now explain the interview process:
- This interview will take approximately 15-20 minutes
- First, I'll collect some basic information about you
- Then, I'll ask some theoretical technical questions (no coding required)
- Feel free to ask clarifying questions at any point
- Since you declined data storage, your responses will not be saved after our conversation ends

Now, let's begin. Could you please tell me your full name?
`, company)

	t.dataRightsInfo = fmt.Sprintf(`As per GDPR, you have the following rights regarding your data:

1. Right to access: You can request a copy of your personal data
2. Right to rectification: You can correct inaccurate information
3. Right to erasure: You can request deletion of your data
4. Right to restrict processing: You can limit how we use your data
5. Right to data portability: You can request transfer of your data
6. Right to object: You can object to processing of your data

To exercise these rights, please contact privacy@%s.com.
`, strings.ToLower(company))

	t.endNotice = fmt.Sprintf(`This concludes our interview. As you've consented, %s will store your interview responses for evaluation.

Your data will be processed in accordance with our privacy policy and GDPR regulations.

If you have any questions about how your data is handled, please contact our data protection team.
`, company)

	return t
}

// Render substitutes params into the named generation template. The company
// and interviewer names are always available as {company_name} and
// {interviewer_name}. Unresolved placeholders pass through literally; an
// unknown template name renders empty.
func (t *Templates) Render(name string, params map[string]string) string {
	tpl, ok := t.generation[name]
	if !ok {
		return ""
	}

	merged := map[string]string{
		"company_name":     t.Company,
		"interviewer_name": t.Interviewer,
	}
	for k, v := range params {
		merged[k] = v
	}

	return substitute(tpl, merged)
}

// substitute replaces {key} placeholders with their values in a single
// left-to-right scan: inserted values are never rescanned, so a value that
// itself contains a placeholder passes through verbatim. Placeholders
// without a value are left in place rather than treated as an error,
// keeping partially-populated templates usable as fallback text.
func substitute(template string, params map[string]string) string {
	var out strings.Builder
	for {
		open := strings.IndexByte(template, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(template[open:], '}')
		if end < 0 {
			break
		}
		end += open

		out.WriteString(template[:open])
		if value, ok := params[template[open+1:end]]; ok {
			out.WriteString(value)
		} else {
			out.WriteString(template[open : end+1])
		}
		template = template[end+1:]
	}
	out.WriteString(template)
	return out.String()
}

// FieldPrompt returns the fixed prompt for an info-gathering step.
func (t *Templates) FieldPrompt(step string) string {
	return t.fieldPrompts[step]
}

// BasicAck returns the fixed acknowledgment for an answered step. The name
// step's acknowledgment carries a {name} placeholder for personalization.
func (t *Templates) BasicAck(step string) string {
	ack, ok := t.basicAcks[step]
	if !ok {
		return "Thank you."
	}
	return ack
}

// AckPool returns the fixed set of cosmetic acknowledgments used between
// technical questions.
func (t *Templates) AckPool() []string {
	out := make([]string, len(t.ackPool))
	copy(out, t.ackPool)
	return out
}

// Greeting is the GDPR-first initial prompt: introduction, storage policy
// and the consent request.
func (t *Templates) Greeting() string {
	return fmt.Sprintf(`Hi there! I'm %[2]s, an AI technical interviewer for %[1]s.

I'll be conducting a technical interview to assess your qualifications for a developer role with our company. Before we begin, I need to inform you about our data storage policy:

%[1]s would like to store your interview data for evaluation and potential future hiring decisions.

%[3]s`, t.Company, t.Interviewer, t.consentRequest)
}

func (t *Templates) ConsentRequest() string  { return t.consentRequest }
func (t *Templates) ConsentGiven() string    { return t.consentGiven }
func (t *Templates) ConsentDeclined() string { return t.consentDeclined }
func (t *Templates) DataRightsInfo() string  { return t.dataRightsInfo }

// EndOfInterviewNotice is the fixed closing used instead of the generated
// conclusion when consent was given.
func (t *Templates) EndOfInterviewNotice() string { return t.endNotice }

// Conclusion is the fixed closing used when the generated conclusion is
// unavailable.
func (t *Templates) Conclusion() string { return t.conclusion }
