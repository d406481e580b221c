package sandbox

import (
	"encoding/base64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"regexp"
	"testing"
)

var payload = regexp.MustCompile(`atob\("([A-Za-z0-9+/=]*)"\)`)

func TestRenderEmbedsEncodedScript(t *testing.T) {
	js := "function LessonComponent() {\n  return React.createElement(\"p\", null, \"it's </script> \\u00e9\");\n}\n"

	doc, err := Render(DefaultRuntime(), js, "LessonComponent")
	require.NoError(t, err)

	html := string(doc)
	assert.Contains(t, html, `<script crossorigin src="`+DefaultReactURL+`"></script>`)
	assert.Contains(t, html, `<script crossorigin src="`+DefaultReactDOMURL+`"></script>`)
	assert.Contains(t, html, "const { useState, useEffect, useRef, useCallback, useMemo } = React;")
	assert.Contains(t, html, "React.createElement(LessonComponent)")
	assert.Contains(t, html, `<div id="root"></div>`)
	assert.NotContains(t, html, "it's </script>")

	m := payload.FindStringSubmatch(html)
	require.NotNil(t, m)
	decoded, err := base64.StdEncoding.DecodeString(m[1])
	require.NoError(t, err)
	assert.Equal(t, js, string(decoded))
}

func TestRenderUsesConfiguredRuntime(t *testing.T) {
	doc, err := Render(Runtime{ReactURL: "/static/react.js"}, "function LessonComponent() {}", "LessonComponent")
	require.NoError(t, err)

	assert.Contains(t, string(doc), `src="/static/react.js"`)
	assert.Contains(t, string(doc), `src="`+DefaultReactDOMURL+`"`)
}

func TestRenderErrorEscapesMessage(t *testing.T) {
	doc := string(RenderError(`lesson.tsx:1:2: Expected ")" but found "<script>"`))

	assert.Contains(t, doc, "Error: lesson.tsx:1:2: Expected &#34;)&#34; but found &#34;&lt;script&gt;&#34;")
	assert.NotContains(t, doc, "<script")
}
