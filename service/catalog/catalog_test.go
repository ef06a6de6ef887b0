package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	nft, ok := c.Lookup("parchita-mermaid")
	require.True(t, ok)
	assert.Equal(t, "Parchita Mermaid", nft.Name)
	assert.Equal(t, "Fantasy", nft.Category)
	assert.NotEmpty(t, nft.SpecialTraits)
	assert.NotEmpty(t, nft.FileURL)

	assert.GreaterOrEqual(t, len(c.List()), 2)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nfts.json")
	doc := `[{"id":"custom-1","name":"Custom","description":"d","category":"Test","specialTraits":[],"fileUrl":"https://example.com/1.png"}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	nft, ok := c.Lookup("custom-1")
	require.True(t, ok)
	assert.Equal(t, "Custom", nft.Name)

	_, ok = c.Lookup("parchita-mermaid")
	assert.False(t, ok, "file catalog should replace the embedded default")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read catalog file")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"malformed JSON", `[{`, "failed to parse catalog"},
		{"missing id", `[{"name":"NoID"}]`, "has no id"},
		{"duplicate id", `[{"id":"a","name":"A"},{"id":"a","name":"B"}]`, "duplicate catalog id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLookup_Missing(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	nft, ok := c.Lookup("nope")
	assert.False(t, ok)
	assert.Nil(t, nft)
}
