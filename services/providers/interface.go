package providers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kerrizor/buffet/models"
)

// HTTPClient is the transport abstraction injected by the environment. The
// core issues every network call through it and never constructs raw sockets
// itself.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CredentialProvider supplies per-service credential bundles. It is
// implemented by the caller's own user type (or the gateway's request
// context), not by this package. The second return reports whether any
// credential material exists for the service; whether that material is
// sufficient is the adapter's call.
type CredentialProvider interface {
	Credential(service models.Service) (models.Credential, bool)
}

// CredentialMap is a ready-made CredentialProvider backed by a map.
type CredentialMap map[models.Service]models.Credential

// Credential implements CredentialProvider.
func (m CredentialMap) Credential(service models.Service) (models.Credential, bool) {
	cred, ok := m[service]
	return cred, ok && !cred.IsZero()
}

// Filter carries advisory query hints for an album search. An adapter that
// does not support a given field ignores it silently; filters are hints, not
// a contract every adapter must satisfy.
type Filter struct {
	// Services selects the adapters to fan out to. A nil slice targets every
	// registered adapter; an explicitly empty slice targets none.
	Services []models.Service

	// ID restricts results to the album with this remote identifier.
	ID string

	// Name restricts results to albums with this exact title.
	Name string

	// CreatedAfter restricts results to albums created after this instant,
	// on services that expose a creation time.
	CreatedAfter time.Time
}

// MatchesAlbum applies the advisory ID/Name hints to one canonical album.
// CreatedAfter is applied by adapters against service-side timestamps, since
// the canonical Album does not carry one.
func (f Filter) MatchesAlbum(a models.Album) bool {
	if f.ID != "" && a.RemoteID != f.ID {
		return false
	}
	if f.Name != "" && !strings.EqualFold(f.Name, a.Title) {
		return false
	}
	return true
}

// Request is one not-yet-executed HTTP call against a service. Descriptor
// construction builds these; the fan-out executor is the only component that
// runs them.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Descriptor pairs a prepared request with a pure response transform. The
// transform runs once against the raw response body, yields canonical values
// or an error, and must not perform further I/O. The executor owns the
// descriptor during execution and discards it afterwards.
//
// Empty is set by adapters that do not support the requested capability; the
// executor then yields an empty result without touching the network, so a
// multi-service fan-out degrades gracefully.
type Descriptor[T any] struct {
	Service   models.Service
	Request   Request
	Transform func(body []byte) ([]T, error)
	Empty     bool
}

// EmptyDescriptor builds a descriptor that resolves to zero items without a
// network call.
func EmptyDescriptor[T any](service models.Service) Descriptor[T] {
	return Descriptor[T]{Service: service, Empty: true}
}

// Adapter translates canonical queries to and from one third-party photo
// service. Implementations hold their own endpoint configuration and signing
// details; nothing service-specific leaks past this interface.
type Adapter interface {
	// Name returns the service tag this adapter serves.
	Name() models.Service

	// FindAlbums builds the descriptor for an album search. The credential
	// may be the zero value for services that allow unauthenticated public
	// queries; an adapter that requires one returns a MissingCredential
	// error and no request is ever sent.
	FindAlbums(cred models.Credential, filter Filter) (Descriptor[models.Album], error)

	// FindAlbumImages builds the descriptor fetching one album's images. The
	// album must have been produced by this same adapter; passing a foreign
	// album is a programmer error answered with InvalidOwnership before any
	// network call.
	FindAlbumImages(album models.Album) (Descriptor[models.Image], error)

	// Available reports whether the service endpoint currently answers.
	// Used by readiness probes only; never consulted on the query path.
	Available(ctx context.Context) bool
}
