package interview

import (
	"fmt"
	"strings"
)

// maxTechs bounds the number of technologies covered in one interview to
// keep its length reasonable.
const maxTechs = 4

// generalTech is the sentinel technology used when the candidate's stack
// description yields nothing usable.
const generalTech = "general"

// ParseTechStack splits a free-text stack description into a bounded list of
// normalized technology tokens. Tokens are comma-separated, trimmed and
// lowercased; empties and repeated mentions are dropped and first-mention
// order is preserved. An empty result degrades to the single sentinel
// "general".
func ParseTechStack(text string) []string {
	var techs []string
	seen := make(map[string]struct{})
	for _, token := range strings.Split(text, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		techs = append(techs, token)
		if len(techs) == maxTechs {
			break
		}
	}

	if len(techs) == 0 {
		return []string{generalTech}
	}

	return techs
}

// ParseNumberedQuestions extracts question strings from the collaborator's
// raw output. Only lines starting with "1.", "2." or "3." after trimming are
// recognized; other numbering styles ("1)", bullets) are silently dropped and
// covered by the default-question padding downstream.
func ParseNumberedQuestions(response string) []string {
	var questions []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)

		var rest string
		switch {
		case strings.HasPrefix(line, "1."):
			rest = line[2:]
		case strings.HasPrefix(line, "2."):
			rest = line[2:]
		case strings.HasPrefix(line, "3."):
			rest = line[2:]
		default:
			continue
		}

		if q := strings.TrimSpace(rest); q != "" {
			questions = append(questions, q)
		}
	}

	return questions
}

// DefaultQuestions returns the three deterministic fallback questions for a
// technology, used whenever the generated set comes up short.
func DefaultQuestions(tech string) []string {
	return []string{
		fmt.Sprintf("Can you explain the core principles or concepts of %s?", tech),
		fmt.Sprintf("What are the main advantages and limitations of %s compared to alternatives?", tech),
		fmt.Sprintf("How would you describe the architecture or structure of a typical %s application?", tech),
	}
}
