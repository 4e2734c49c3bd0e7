package assets

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

type memoryStorage struct {
	saved map[string][]byte
}

func (m *memoryStorage) SaveFile(name string, body io.ReadSeeker) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[name] = data
	return "https://cdn.example.com/assets/" + name, nil
}

func TestNewRegistryHasHandleForEveryKind(t *testing.T) {
	r := NewRegistry()
	for _, k := range model.Kinds() {
		assert.NotEmpty(t, r.Icon(k), "kind %s", k)
	}
	assert.NotEqual(t, r.Icon(model.KindMasjid), r.Icon(model.KindRestaurant))
}

func TestPublishPointsRegistryAtUploadedURLs(t *testing.T) {
	r := NewRegistry()
	store := &memoryStorage{}

	require.NoError(t, r.Publish(store))

	assert.Equal(t, "https://cdn.example.com/assets/masjid.svg", r.Icon(model.KindMasjid))
	assert.Equal(t, "https://cdn.example.com/assets/restaurant.svg", r.Icon(model.KindRestaurant))
	assert.Contains(t, string(store.saved["masjid.svg"]), "<svg")
}
