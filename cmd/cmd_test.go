package cmd

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lesson-generator/config"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTranspileCommandFromStdin(t *testing.T) {
	root := Root(&config.Config{})
	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader("const greeting: string = \"hi\";\n"))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"transpile", "-"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "const greeting = \"hi\";\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestTranspileCommandReportsDiagnostics(t *testing.T) {
	src := filepath.Join(t.TempDir(), "broken.tsx")
	require.NoError(t, os.WriteFile(src, []byte("function LessonComponent() { return <div>; }"), 0o644))

	root := Root(&config.Config{})
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"transpile", src})

	assert.Error(t, root.Execute())
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "lesson.tsx:1:")
}

func TestDefaultServerURL(t *testing.T) {
	cfg := &config.Config{Server: config.Server{HttpPort: "9000"}}
	assert.Equal(t, "http://localhost:9000", defaultServerURL(cfg))

	cfg.App = config.App{Host: "lessons.example.com", Protocol: "https"}
	assert.Equal(t, "https://lessons.example.com", defaultServerURL(cfg))
}
