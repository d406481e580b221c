package lessoncode

import "regexp"

// EntryPoint is the function the renderer mounts.
const EntryPoint = "LessonComponent"

type ValidationKind string

const (
	MissingEntryPoint  ValidationKind = "MissingEntryPoint"
	ForbiddenConstruct ValidationKind = "ForbiddenConstruct"
	InvalidStyleUsage  ValidationKind = "InvalidStyleUsage"
)

// ValidationError is returned when generated code breaks the content contract.
// Message is safe to show to the user; Match holds the offending text, if any.
type ValidationError struct {
	Kind    ValidationKind
	Message string
	Match   string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var entryPoint = regexp.MustCompile(`\bfunction\s+` + EntryPoint + `\s*\(\s*\)`)

// A deny-list over source text. It rejects the obvious cases early; isolation
// is enforced by the sandboxed document, not here.
var forbiddenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bfetch\s*\(`),
	regexp.MustCompile(`\bXMLHttpRequest\b`),
	regexp.MustCompile(`\beval\s*\(`),
	regexp.MustCompile(`\bnew\s+Function\s*\(`),
}

// inline styles cannot express pseudo-classes
var pseudoClassKey = regexp.MustCompile(`['"]:(?:hover|active|focus|visited|nth-child)\b[^'"]*['"]\s*:`)

// Validate checks code against the rules in order and reports the first violation.
func Validate(code string) error {
	if !entryPoint.MatchString(code) {
		return &ValidationError{
			Kind:    MissingEntryPoint,
			Message: "Generated code must contain function " + EntryPoint + "()",
		}
	}

	for _, pattern := range forbiddenPatterns {
		if m := pattern.FindString(code); m != "" {
			return &ValidationError{
				Kind:    ForbiddenConstruct,
				Message: "Generated code contains forbidden patterns",
				Match:   m,
			}
		}
	}

	if m := pseudoClassKey.FindString(code); m != "" {
		return &ValidationError{
			Kind:    InvalidStyleUsage,
			Message: "Invalid CSS pseudo-classes in inline styles detected. Use React state with event handlers instead.",
			Match:   m,
		}
	}

	return nil
}
