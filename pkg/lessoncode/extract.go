// Package lessoncode pulls generated component source out of a model response
// and checks it against the contract the sandbox renderer relies on.
package lessoncode

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxOutlineTitleLength bounds titles derived from an outline, in runes.
	MaxOutlineTitleLength = 50
	UntitledLesson        = "Untitled Lesson"
)

var (
	// opening fence with an optional language tag on its own line
	fencedBlock = regexp.MustCompile("(?s)```[^\\n`]*\\n(.*?)```")
	inlineFence = regexp.MustCompile("(?s)```(.*?)```")
	titleMarker = regexp.MustCompile(`(?i)//[ \t]*LESSON_TITLE:[ \t]*([^\r\n]+)`)
)

// ExtractCode returns the body of the first fenced code block in response,
// or the whole response when the model left the fence out.
func ExtractCode(response string) string {
	if m := fencedBlock.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := inlineFence.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}

	return strings.TrimSpace(response)
}

// ExtractTitle returns the text of a `// LESSON_TITLE: ...` marker comment, or "".
func ExtractTitle(code string) string {
	m := titleMarker.FindStringSubmatch(code)
	if m == nil {
		return ""
	}

	return strings.TrimSpace(m[1])
}

// TitleFromOutline uses the outline's first sentence or line as a title.
func TitleFromOutline(outline string) string {
	if i := strings.IndexAny(outline, ".\n"); i >= 0 {
		outline = outline[:i]
	}
	title := strings.TrimSpace(outline)
	if utf8.RuneCountInString(title) > MaxOutlineTitleLength {
		title = strings.TrimSpace(string([]rune(title)[:MaxOutlineTitleLength]))
	}
	if title == "" {
		return UntitledLesson
	}

	return title
}
