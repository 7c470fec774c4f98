package htmlcheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const renderedPage = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf8" />
    <title> Medcom API </title>
  </head>
  <body>
    <div id="redoc-container"></div>
    <script>const __redoc_state = {};</script>
  </body>
</html>`

func TestParse(t *testing.T) {
	page, err := Parse([]byte(renderedPage))
	require.NoError(t, err)
	assert.Equal(t, "Medcom API", page.Title)
	assert.Equal(t, len(renderedPage), page.Bytes)
}

func TestParse_MissingBodyContent(t *testing.T) {
	tests := map[string]string{
		"empty":      "",
		"whitespace": "  \n",
		"empty body": "<html><head><title>x</title></head><body></body></html>",
		"head only":  "<html><head><title>x</title></head></html>",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrNoBody)
		})
	}
}

func TestParse_UntitledPage(t *testing.T) {
	page, err := Parse([]byte("<p>plain fragment</p>"))
	require.NoError(t, err)
	assert.Empty(t, page.Title)
}

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api-docs.html")
	require.NoError(t, os.WriteFile(path, []byte(renderedPage), 0o600))

	page, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, "Medcom API", page.Title)

	_, err = Inspect(filepath.Join(t.TempDir(), "missing.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
