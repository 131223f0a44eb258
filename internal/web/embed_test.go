package web

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadExamples_Embedded(t *testing.T) {
	examples, err := LoadExamples("")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Bu harika bir gün!",
		"Hiçbir şey yapmak istemiyorum.",
		"Normal bir gün geçirdim.",
		"Çok mutluyum!",
		"Bu durumdan hiç memnun değilim.",
	}, examples)
}

func TestLoadExamples_File(t *testing.T) {
	dir := t.TempDir()

	t.Run("custom list", func(t *testing.T) {
		path := filepath.Join(dir, "examples.yaml")
		require.NoError(t, os.WriteFile(path, []byte("examples:\n  - \"Süper!\"\n  - \"  \"\n"), 0o600))

		examples, err := LoadExamples(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Süper!"}, examples)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadExamples(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("examples: [unterminated"), 0o600))

		_, err := LoadExamples(path)
		assert.Error(t, err)
	})
}

func TestTemplates_RenderIndex(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	page := NewPage([]string{"Çok mutluyum!"})
	page.Text = "<script>"
	page.Output = `{"sentiment": "positive"}`

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, IndexTemplate, page))
	html := buf.String()

	assert.Contains(t, html, "<title>Duygu Analizi API</title>")
	assert.Contains(t, html, `placeholder="Mesajınızı buraya yazın..."`)
	assert.Contains(t, html, "Analiz Et")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, `<pre id="output">`)
	assert.Contains(t, html, `href="/?text=`)
	assert.Contains(t, html, ">Çok mutluyum!</a>")
	assert.NotContains(t, html, `class="failed"`)
}
