package lessoncode

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "tagged fence with prose",
			response: "Here is your lesson:\n```jsx\nfunction LessonComponent() {\n  return null;\n}\n```\nEnjoy!",
			want:     "function LessonComponent() {\n  return null;\n}",
		},
		{
			name:     "untagged fence",
			response: "```\n  const a = 1;\n```",
			want:     "const a = 1;",
		},
		{
			name:     "unknown language tag",
			response: "```python\nprint(1)\n```",
			want:     "print(1)",
		},
		{
			name:     "first block wins",
			response: "```js\nfirst()\n```\ntext\n```js\nsecond()\n```",
			want:     "first()",
		},
		{
			name:     "no fence falls back to trimmed response",
			response: "\n\n function LessonComponent() {}\n  ",
			want:     "function LessonComponent() {}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCode(tt.response))
		})
	}
}

func TestExtractTitle(t *testing.T) {
	code := "// LESSON_TITLE:  Adding Numbers  \nfunction LessonComponent() {}"
	assert.Equal(t, "Adding Numbers", ExtractTitle(code))

	assert.Equal(t, "Shapes", ExtractTitle("//lesson_title: Shapes\r\nfunction LessonComponent() {}"))
	assert.Empty(t, ExtractTitle("function LessonComponent() {}"))
}

func TestTitleFromOutline(t *testing.T) {
	assert.Equal(t, "Learn about the solar system", TitleFromOutline("Learn about the solar system. It is big."))
	assert.Equal(t, "First line", TitleFromOutline("  First line\nsecond line"))
	assert.Equal(t, UntitledLesson, TitleFromOutline(". starts with a dot"))
	assert.Equal(t, UntitledLesson, TitleFromOutline("   "))

	long := strings.Repeat("é", 80)
	assert.Equal(t, strings.Repeat("é", MaxOutlineTitleLength), TitleFromOutline(long))
}

func validationKind(t *testing.T, err error) ValidationKind {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Kind
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		code string
		want ValidationKind
	}{
		{name: "missing entry point", code: "function Foo(){}", want: MissingEntryPoint},
		{name: "entry point with parameters", code: "function LessonComponent(props){}", want: MissingEntryPoint},
		{name: "fetch", code: "function LessonComponent(){ fetch('/x'); }", want: ForbiddenConstruct},
		{name: "xhr", code: "function LessonComponent(){ new XMLHttpRequest(); }", want: ForbiddenConstruct},
		{name: "eval", code: "function LessonComponent(){ eval ('1'); }", want: ForbiddenConstruct},
		{name: "new Function", code: "function LessonComponent(){ new Function('return 1'); }", want: ForbiddenConstruct},
		{name: "hover key", code: `function LessonComponent(){ const s = { ":hover": { color: "red" } }; }`, want: InvalidStyleUsage},
		{name: "nth-child key", code: `function LessonComponent(){ const s = { ':nth-child(2)': { color: 'red' } }; }`, want: InvalidStyleUsage},
		{name: "forbidden wins over style", code: `function LessonComponent(){ fetch('/'); const s = { ":focus": {} }; }`, want: ForbiddenConstruct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validationKind(t, Validate(tt.code)))
		})
	}
}

func TestValidateAcceptsCompliantCode(t *testing.T) {
	code := `// LESSON_TITLE: Counting
function LessonComponent() {
  const [count, setCount] = useState(0);
  const [hovered, setHovered] = useState(false);
  const refetch = useCallback(() => setCount(0), []);
  return (
    <button
      onMouseEnter={() => setHovered(true)}
      style={{ color: hovered ? "red" : "blue" }}
      onClick={() => setCount(count + 1)}>
      {count}
    </button>
  );
}`
	assert.NoError(t, Validate(code))
}

func TestValidateAllowsFunctionInText(t *testing.T) {
	code := "function LessonComponent() {\n  return <h2>Function (f of x)</h2>;\n}"
	assert.NoError(t, Validate(code))
}
