package webassets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownAsset(t *testing.T) {
	asset, ok := Lookup("/index.html")
	require.True(t, ok)
	assert.NotEmpty(t, asset.Data)
	assert.Contains(t, asset.ContentType, "text/html")
}

func TestLookupMiss(t *testing.T) {
	_, ok := Lookup("/no/such/asset.js")
	assert.False(t, ok)
}

func TestIndexIsIndexHTML(t *testing.T) {
	index := Index()
	assert.Equal(t, "/index.html", index.Path)
	assert.NotEmpty(t, index.Data)
}

func TestETagIsWeak32Hex(t *testing.T) {
	asset, ok := Lookup("/index.html")
	require.True(t, ok)

	require.True(t, strings.HasPrefix(asset.ETag, `W/"`))
	require.True(t, strings.HasSuffix(asset.ETag, `"`))
	hex := strings.TrimSuffix(strings.TrimPrefix(asset.ETag, `W/"`), `"`)
	assert.Len(t, hex, 32)
}
