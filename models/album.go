package models

// Service identifies the photo service an album or image came from.
type Service string

const (
	ServiceFlickr   Service = "flickr"
	ServiceFacebook Service = "facebook"
)

// Credential is the per-service token/identifier bundle used to authenticate
// requests against one service. Fields a given service does not use stay empty.
// Values are read-only for the duration of a call.
type Credential struct {
	// UserID is the service-side account identifier (e.g. a Flickr NSID).
	UserID string `json:"user_id,omitempty"`

	// Token is the access token granted to the caller, where the service
	// requires one.
	Token string `json:"token,omitempty"`

	// Secret is the token secret for services that sign requests.
	Secret string `json:"secret,omitempty"`
}

// IsZero reports whether no credential material is present.
func (c Credential) IsZero() bool {
	return c.UserID == "" && c.Token == "" && c.Secret == ""
}

// Album represents a named collection of images on some service.
//
// RemoteID is opaque and service-assigned; it is meaningful only together with
// Service. Two albums from different services may share a RemoteID value
// coincidentally and are never the same album. Albums are constructed only by
// an adapter's response transform and are immutable afterwards, except for the
// lazy population of Images.
type Album struct {
	Title    string  `json:"title"`
	RemoteID string  `json:"remote_id"`
	Service  Service `json:"service"`

	// Owner is the credential context the album was fetched with, retained so
	// a follow-up image fetch can re-authenticate. It is not ownership of the
	// caller's user object.
	Owner Credential `json:"-"`

	// Images is populated lazily by the first image fetch for this album.
	Images []Image `json:"images,omitempty"`
}

// SameAs reports whether two albums refer to the same remote collection.
// Identity is the (Service, RemoteID) pair, never RemoteID alone.
func (a Album) SameAs(b Album) bool {
	return a.Service == b.Service && a.RemoteID == b.RemoteID
}
