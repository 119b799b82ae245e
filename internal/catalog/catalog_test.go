package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	c, err := New(DefaultProducts())
	require.NoError(t, err)

	got := c.Search("  CAKE ")
	require.Len(t, got, 1)
	assert.Equal(t, "ube-cake", got[0].ID)

	assert.Len(t, c.Search(""), len(DefaultProducts()))
	assert.Empty(t, c.Search("sushi"))
}

func TestCatalog_Get(t *testing.T) {
	c, err := New(DefaultProducts())
	require.NoError(t, err)

	p, err := c.Get("halo-halo")
	require.NoError(t, err)
	assert.Equal(t, "Halo-Halo", p.Title)

	_, err = c.Get("missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := New([]Product{{ID: "a", Title: "A"}, {ID: "a", Title: "B"}})
	assert.Error(t, err)
}

func TestLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
products:
  - id: taho
    title: Taho
    price: "₱40.00"
    image: /img/taho.jpg
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := Load(path)

	require.NoError(t, err)
	p, err := c.Get("taho")
	require.NoError(t, err)
	assert.Equal(t, "₱40.00", p.Price)
}

func TestParsePrice(t *testing.T) {
	cases := map[string]string{
		"₱199.99":   "199.99",
		" ₱ 50 ":    "50.00",
		"₱1,250.50": "1250.50",
		"75":        "75.00",
	}
	for display, want := range cases {
		got, err := ParsePrice(display, "₱")
		require.NoError(t, err, display)
		assert.Equal(t, want, got.StringFixed(2), display)
	}

	for _, bad := range []string{
		"", "₱", "free", "₱-5", "+5", "1e9", "₱1E2", "1e2000000000",
		"1,000,000,000,000", "0.000000001", "12.", ".5", "0x10",
	} {
		_, err := ParsePrice(bad, "₱")
		assert.ErrorIs(t, err, ErrInvalidPrice, bad)
	}
}
