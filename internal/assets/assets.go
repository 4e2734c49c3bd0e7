// Package assets owns the marker icons and the kind -> icon handle mapping.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
	"github.com/Nixie-Tech-LLC/nearby/internal/storage"
)

//go:embed icons/*.svg
var icons embed.FS

// Registry maps each point-of-interest kind to an opaque icon handle (a URL
// once the icons are published).
type Registry struct {
	mu      sync.RWMutex
	handles map[model.Kind]string
}

// NewRegistry starts with the embedded file names as handles.
func NewRegistry() *Registry {
	handles := make(map[model.Kind]string, len(model.Kinds()))
	for _, k := range model.Kinds() {
		handles[k] = iconFile(k)
	}
	return &Registry{handles: handles}
}

func (r *Registry) Icon(k model.Kind) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handles[k]
}

func (r *Registry) Set(k model.Kind, handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[k] = handle
}

// Publish uploads every embedded icon to the storage backend and points the
// registry at the returned URLs.
func (r *Registry) Publish(store storage.Storage) error {
	for _, k := range model.Kinds() {
		name := iconFile(k)
		data, err := icons.ReadFile(path.Join("icons", name))
		if err != nil {
			return fmt.Errorf("read icon %q: %w", name, err)
		}
		url, err := store.SaveFile(name, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("publish icon %q: %w", name, err)
		}
		r.Set(k, url)
		log.Debug().Str("kind", string(k)).Str("url", url).Msg("published marker icon")
	}
	return nil
}

func iconFile(k model.Kind) string {
	return string(k) + ".svg"
}
