// Package sandbox builds the isolated HTML document a lesson is mounted in.
//
// The document trusts nothing about the embedded script. It must be loaded in
// an iframe carrying IframeSandbox, or served with ContentSecurityPolicy, so the
// browser withholds same-origin, storage and navigation capabilities.
package sandbox

import (
	"bytes"
	"encoding/base64"
	"text/template"
)

const (
	IframeSandbox         = "allow-scripts"
	ContentSecurityPolicy = "sandbox allow-scripts"

	DefaultReactURL    = "https://unpkg.com/react@18/umd/react.production.min.js"
	DefaultReactDOMURL = "https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"
)

type Runtime struct {
	ReactURL    string
	ReactDOMURL string
}

func DefaultRuntime() Runtime {
	return Runtime{ReactURL: DefaultReactURL, ReactDOMURL: DefaultReactDOMURL}
}

var document = template.Must(template.New("sandbox").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<script crossorigin src="{{.ReactURL}}"></script>
<script crossorigin src="{{.ReactDOMURL}}"></script>
<style>
body { margin: 0; padding: 20px; font-family: system-ui, -apple-system, sans-serif; }
</style>
</head>
<body>
<div id="root"></div>
<script>
const { useState, useEffect, useRef, useCallback, useMemo } = React;
function showLessonError(message) {
  const pre = document.createElement("pre");
  pre.style.color = "#dc2626";
  pre.style.whiteSpace = "pre-wrap";
  pre.textContent = "Error: " + message;
  document.body.replaceChildren(pre);
}
window.addEventListener("error", function (event) {
  showLessonError(event.message || "unknown error");
});
window.addEventListener("unhandledrejection", function (event) {
  showLessonError(event.reason && event.reason.message ? event.reason.message : String(event.reason));
});
try {
  const bytes = Uint8Array.from(atob("{{.Payload}}"), function (c) { return c.charCodeAt(0); });
  const source = new TextDecoder().decode(bytes);
  (0, eval)(source);
  if (typeof {{.EntryPoint}} !== "function") {
    throw new Error("{{.EntryPoint}} is not defined");
  }
  ReactDOM.createRoot(document.getElementById("root")).render(React.createElement({{.EntryPoint}}));
} catch (err) {
  showLessonError(err && err.message ? err.message : String(err));
}
</script>
</body>
</html>
`))

type documentData struct {
	Runtime
	Payload    string
	EntryPoint string
}

// Render embeds javascript into a standalone document that mounts entryPoint.
// The script travels base64 encoded so quotes, newlines and "</script>" cannot
// break out of the string literal.
func Render(rt Runtime, javascript, entryPoint string) ([]byte, error) {
	if rt.ReactURL == "" {
		rt.ReactURL = DefaultReactURL
	}
	if rt.ReactDOMURL == "" {
		rt.ReactDOMURL = DefaultReactDOMURL
	}

	var buf bytes.Buffer
	err := document.Execute(&buf, documentData{
		Runtime:    rt,
		Payload:    base64.StdEncoding.EncodeToString([]byte(javascript)),
		EntryPoint: entryPoint,
	})
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

var errorDocument = template.Must(template.New("sandbox-error").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
<pre style="color: #dc2626; white-space: pre-wrap; padding: 20px;">Error: {{.}}</pre>
</body>
</html>
`))

// RenderError produces a script-free document showing message as plain text.
func RenderError(message string) []byte {
	var buf bytes.Buffer
	// html escaping is not applied by text/template
	_ = errorDocument.Execute(&buf, template.HTMLEscapeString(message))
	return buf.Bytes()
}
