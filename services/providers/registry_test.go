package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerrizor/buffet/models"
)

// stubAdapter is the minimal Adapter used by registry tests.
type stubAdapter struct {
	name models.Service
}

func (s *stubAdapter) Name() models.Service { return s.name }

func (s *stubAdapter) FindAlbums(cred models.Credential, filter Filter) (Descriptor[models.Album], error) {
	return EmptyDescriptor[models.Album](s.name), nil
}

func (s *stubAdapter) FindAlbumImages(album models.Album) (Descriptor[models.Image], error) {
	return EmptyDescriptor[models.Image](s.name), nil
}

func (s *stubAdapter) Available(ctx context.Context) bool { return true }

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(&stubAdapter{name: models.ServiceFlickr}))
	assert.Equal(t, 1, r.Count())

	err := r.Register(&stubAdapter{name: models.ServiceFlickr})
	assert.ErrorIs(t, err, ErrAdapterAlreadyRegistered)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(&stubAdapter{name: ""}))
	assert.Equal(t, 0, r.Count())
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	flickr := &stubAdapter{name: models.ServiceFlickr}
	require.NoError(t, r.Register(flickr))

	got, err := r.Get(models.ServiceFlickr)
	require.NoError(t, err)
	assert.Same(t, flickr, got.(*stubAdapter))

	_, err = r.Get(models.ServiceFacebook)
	assert.ErrorIs(t, err, ErrAdapterNotFound)
}

func TestRegistry_ServicesPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	order := []models.Service{"zeta", "alpha", "mid"}
	for _, name := range order {
		require.NoError(t, r.Register(&stubAdapter{name: name}))
	}

	assert.Equal(t, order, r.Services())

	// The returned slice is a copy; mutating it must not affect the registry.
	got := r.Services()
	got[0] = "mutated"
	assert.Equal(t, order, r.Services())
}
