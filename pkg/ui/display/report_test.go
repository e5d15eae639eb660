package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePlain(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, Report{
		Title:   "MyApp",
		Message: "Installed for the current user.",
		Fields: []Field{
			{Label: "Location", Value: "/opt/myapp", Path: true},
			{Label: "Scope", Value: "user"},
		},
		Items: []Item{
			{Name: "MyApp", Status: "registered", Detail: "/opt/myapp/app.exe"},
			{Name: "Helper", Status: "failed"},
		},
		Warnings: []string{"1 shortcut could not be registered"},
	}, Plain)
	require.NoError(t, err)

	expected := strings.Join([]string{
		"MyApp",
		"Installed for the current user.",
		"  Location: /opt/myapp",
		"  Scope:    user",
		"",
		"  ✓ MyApp   registered  /opt/myapp/app.exe",
		"  ✗ Helper  failed",
		"warning: 1 shortcut could not be registered",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestWriteUsesPainter(t *testing.T) {
	var buf bytes.Buffer
	paint := func(style, text string) string { return "<" + style + ">" + text }

	require.NoError(t, Write(&buf, Report{
		Fields: []Field{{Label: "Location", Value: "/opt", Path: true}},
	}, paint))
	assert.Equal(t, "  <Label>Location: <Path>/opt\n", buf.String())
}

func TestStatusStyle(t *testing.T) {
	assert.Equal(t, "Success", StatusStyle("installed"))
	assert.Equal(t, "Error", StatusStyle("degraded"))
	assert.Equal(t, "Warning", StatusStyle("missing"))
	assert.Equal(t, "Muted", StatusStyle(""))
	assert.Equal(t, "-", StatusSymbol("whatever"))
}
