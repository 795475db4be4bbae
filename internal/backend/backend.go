package backend

import (
	"net/http"
	"strings"

	"github.com/angeloszaimis/devserver/config"
)

const restPrefix = "/rest/v1"

// MessagesTable is the collection probed at startup.
const MessagesTable = "messages"

// Backend is a normalized view of the supabase configuration section.
type Backend struct {
	url string
	key string
}

// New normalizes the configured address and key. A trailing slash on the URL
// is dropped and the key may be wrapped in angle brackets.
func New(cfg config.SupabaseConfig) *Backend {
	return &Backend{
		url: strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		key: normalizeKey(cfg.AnonKey),
	}
}

func normalizeKey(key string) string {
	k := strings.TrimSpace(key)
	k = strings.Trim(k, "<>")
	return strings.TrimSpace(k)
}

// URL returns the base address without a trailing slash.
func (b *Backend) URL() string {
	return b.url
}

// Key returns the stripped credential.
func (b *Backend) Key() string {
	return b.key
}

// Configured reports whether both the address and the key are present.
func (b *Backend) Configured() bool {
	return b.url != "" && b.key != ""
}

// CollectionURL returns the REST endpoint for table.
func (b *Backend) CollectionURL(table string) string {
	return b.url + restPrefix + "/" + table
}

// Headers returns the headers sent with every request: the key as both apikey
// and bearer token, a JSON content type, and a request to echo written rows.
func (b *Backend) Headers() http.Header {
	h := make(http.Header)
	h.Set("apikey", b.key)
	h.Set("Authorization", "Bearer "+b.key)
	h.Set("Content-Type", "application/json")
	h.Set("Prefer", "return=representation")
	return h
}
