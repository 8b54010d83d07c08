package models

// Image represents one photo within an album.
//
// URL is always present and non-empty for any Image handed to a caller; an
// adapter that cannot resolve a usable URL drops the item instead of emitting
// a partial Image. RemoteID is opaque, service-scoped, and may be empty for
// services that expose no stable per-photo identifier.
type Image struct {
	URL      string `json:"url"`
	RemoteID string `json:"remote_id,omitempty"`
}
