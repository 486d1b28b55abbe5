// Package webassets hosts the static UI bundle compiled into the binary.
// The bundle itself is an external build artifact served unchanged; this
// package owns only the serving mechanics: the immutable path->asset
// table and its precomputed weak ETags.
package webassets

import (
	"crypto/md5"
	"embed"
	"encoding/hex"
	"io/fs"
	"mime"
	"path"
	"path/filepath"
)

//go:embed dist
var distFS embed.FS

// Asset is one entry of the compiled-in asset table.
type Asset struct {
	Path        string
	ContentType string
	ETag        string
	Data        []byte
}

var (
	table      map[string]Asset
	indexAsset Asset
)

func init() {
	table = make(map[string]Asset)
	err := fs.WalkDir(distFS, "dist", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(distFS, p)
		if err != nil {
			return err
		}
		rel := "/" + filepath.ToSlash(p[len("dist/"):])
		asset := Asset{
			Path:        rel,
			ContentType: contentType(rel),
			ETag:        weakETag(data),
			Data:        data,
		}
		table[rel] = asset
		return nil
	})
	if err != nil {
		panic("webassets: embedding bundled assets: " + err.Error())
	}
	indexAsset = table["/index.html"]
}

// Lookup returns the asset for an exact request path, if any.
func Lookup(p string) (Asset, bool) {
	a, ok := table[p]
	return a, ok
}

// Index returns the index.html fallback served for any path that misses
// the asset table.
func Index() Asset {
	return indexAsset
}

// weakETag computes the `W/"<32hex>"` tag every asset carries: a weak
// ETag wrapping the asset content's MD5 digest.
func weakETag(data []byte) string {
	sum := md5.Sum(data)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`
}

func contentType(p string) string {
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
