package queryapi

import (
	"net/http"

	"github.com/archer-go/archer/internal/webassets"
)

// assetLastModified is a fixed sentinel: the compiled-in asset table has
// no per-file mtime, so every asset reports the Unix epoch.
const assetLastModified = "Thu, 01 Jan 1970 00:00:00 GMT"

// serveAsset resolves r.URL.Path against the compiled-in UI asset table,
// falling back to index.html on a miss, and honors If-None-Match against
// the asset's precomputed weak ETag.
func serveAsset(w http.ResponseWriter, r *http.Request) {
	asset, ok := webassets.Lookup(r.URL.Path)
	if !ok {
		asset = webassets.Index()
	}

	w.Header().Set("ETag", asset.ETag)
	w.Header().Set("Last-Modified", assetLastModified)
	w.Header().Set("Cache-Control", "public, max-age=2592000, must-revalidate")
	w.Header().Set("Content-Type", asset.ContentType)

	if match := r.Header.Get("If-None-Match"); match != "" && match == asset.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(asset.Data)
}
