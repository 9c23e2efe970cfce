// Package delegation derives the public access artifacts for a script:
// the raw-content URL served by the guard service and the loadstring
// bootstrap embedding it.
package delegation

import (
	"fmt"
	"net/url"
	"strings"
)

// keyLength is how many leading characters of the shared secret are
// embedded in generated URLs. A URL-shortening convention inherited
// from existing deployed loadstrings; changing it breaks them.
const keyLength = 10

// Deriver is a pure mapper from script identity to access artifacts.
// Safe for concurrent use.
type Deriver struct {
	baseURL string
	secret  string
}

func NewDeriver(guardBaseURL, sharedSecret string) *Deriver {
	return &Deriver{
		baseURL: strings.TrimRight(guardBaseURL, "/"),
		secret:  sharedSecret,
	}
}

// RawURL returns the guard service's raw-content URL for name. The
// name must already satisfy the registry naming rules; only standard
// URL escaping is applied.
func (d *Deriver) RawURL(name string) string {
	return d.baseURL + "/raw/" + url.PathEscape(name)
}

// Loadstring returns the client-side bootstrap string for name.
func (d *Deriver) Loadstring(name string) string {
	key := d.secret
	if len(key) > keyLength {
		key = key[:keyLength]
	}
	return fmt.Sprintf("loadstring(game:HttpGet('%s?key=%s'))()", d.RawURL(name), key)
}
