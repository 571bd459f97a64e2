package core

import (
	"bytes"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCoord(t *testing.T) {
	assert.Equal(t, "40.4168", FormatCoord(40.416775))
	assert.Equal(t, "-3.7038", FormatCoord(-3.703790))
	assert.Equal(t, "0.0000", FormatCoord(0))
}

func TestFuncs_RenderSectionAndJSON(t *testing.T) {
	var tmpl *template.Template
	funcs := Funcs(Deps{
		Template:           &tmpl,
		ContentTemplateFor: func(string) string { return "inner" },
	})
	tmpl = template.Must(template.New("root").Funcs(funcs).Parse(
		`{{define "inner"}}<b>{{.}}</b>{{end}}{{define "outer"}}{{renderSection "x" .}}|{{toJSON .}}{{end}}`,
	))

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "outer", "a<b"))
	assert.Equal(t, `<b>a&lt;b</b>|&#34;a\u003cb&#34;`, buf.String())
}
