package transpiler

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestTranspileStripsTypes(t *testing.T) {
	res, err := Transpile("function add(a: number, b: number): number { return a + b; }")
	require.NoError(t, err)
	assert.Equal(t, "function add(a, b) {\n  return a + b;\n}\n", res.JavaScript)
}

func TestTranspileJSX(t *testing.T) {
	source := `// LESSON_TITLE: Counter
interface Props { label?: string }
function LessonComponent() {
  /* local state */
  const [count, setCount] = useState<number>(0);
  return <div style={{ color: "red" }} onClick={() => setCount(count + 1)}>{count}</div>;
}`

	res, err := Transpile(source)
	require.NoError(t, err)
	assert.Contains(t, res.JavaScript, "function LessonComponent()")
	assert.Contains(t, res.JavaScript, `React.createElement("div"`)
	assert.NotContains(t, res.JavaScript, "useState<number>")
	assert.NotContains(t, res.JavaScript, "interface")
	assert.NotContains(t, res.JavaScript, "LESSON_TITLE")
	assert.NotContains(t, res.JavaScript, "local state")
	assert.NotContains(t, res.JavaScript, "/*")
}

func TestTranspileDropsLegalComments(t *testing.T) {
	res, err := Transpile("/*! keep me? */\nfunction LessonComponent() { return null; }")
	require.NoError(t, err)
	assert.NotContains(t, res.JavaScript, "keep me")
}

func TestTranspilePlainInputIsStable(t *testing.T) {
	first, err := Transpile("function add(a: number, b: number): number { return a + b; }")
	require.NoError(t, err)

	second, err := Transpile(first.JavaScript)
	require.NoError(t, err)
	assert.Equal(t, first.JavaScript, second.JavaScript)
}

func TestTranspileDeterministic(t *testing.T) {
	source := "function LessonComponent() { return <p>hi</p>; }"
	a, err := Transpile(source)
	require.NoError(t, err)
	b, err := Transpile(source)
	require.NoError(t, err)
	assert.Equal(t, a.JavaScript, b.JavaScript)
}

func TestTranspileSyntaxError(t *testing.T) {
	_, err := Transpile("function LessonComponent( { return <div>; }")
	require.Error(t, err)

	var terr *TranspileError
	require.True(t, errors.As(err, &terr))
	assert.NotEmpty(t, terr.Diagnostics)
	assert.Contains(t, terr.Diagnostics[0], "lesson.tsx:")
}
