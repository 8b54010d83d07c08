package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kerrizor/buffet/models"
	"github.com/kerrizor/buffet/services"
	"github.com/kerrizor/buffet/services/providers"
)

const defaultBaseURL = "https://graph.facebook.com/v19.0"

// Config holds Graph API settings. Facebook has no application-level key for
// reads; every request authenticates with the caller's access token.
type Config struct {
	BaseURL string
}

// Adapter implements the providers.Adapter interface for the Facebook Graph API.
type Adapter struct {
	config Config
	client providers.HTTPClient
}

// New creates a Facebook adapter over the injected transport.
func New(config Config, client providers.HTTPClient) *Adapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return &Adapter{config: config, client: client}
}

// Name returns the service tag
func (a *Adapter) Name() models.Service {
	return models.ServiceFacebook
}

// FindAlbums builds the album listing descriptor. The Graph API has no
// unauthenticated read path, so an absent token is a missing credential, not
// an empty result.
func (a *Adapter) FindAlbums(cred models.Credential, filter providers.Filter) (providers.Descriptor[models.Album], error) {
	if cred.Token == "" {
		return providers.Descriptor[models.Album]{}, services.NewDomainError(
			services.ErrorTypeMissingCredential, "facebook access token required", nil)
	}

	subject := cred.UserID
	if subject == "" {
		subject = "me"
	}
	endpoint := fmt.Sprintf("%s/%s/albums?%s", a.config.BaseURL, url.PathEscape(subject), url.Values{
		"fields":       {"id,name,created_time"},
		"access_token": {cred.Token},
	}.Encode())

	return providers.Descriptor[models.Album]{
		Service: models.ServiceFacebook,
		Request: providers.Request{Method: http.MethodGet, URL: endpoint},
		Transform: func(body []byte) ([]models.Album, error) {
			var envelope albumsResponse
			if err := json.Unmarshal(body, &envelope); err != nil {
				return nil, services.NewMalformedResponseError("facebook album payload did not parse", err)
			}

			albums := make([]models.Album, 0, len(envelope.Data))
			for _, entry := range envelope.Data {
				if entry.ID == "" {
					continue
				}
				if !createdAfterMatch(filter.CreatedAfter, entry.CreatedTime) {
					continue
				}
				album := models.Album{
					Title:    entry.Name,
					RemoteID: entry.ID,
					Service:  models.ServiceFacebook,
					Owner:    cred,
				}
				if filter.MatchesAlbum(album) {
					albums = append(albums, album)
				}
			}
			return albums, nil
		},
	}, nil
}

// FindAlbumImages builds the photo listing descriptor for one album.
func (a *Adapter) FindAlbumImages(album models.Album) (providers.Descriptor[models.Image], error) {
	if album.Service != models.ServiceFacebook {
		return providers.Descriptor[models.Image]{}, services.NewDomainError(
			services.ErrorTypeInvalidOwnership,
			fmt.Sprintf("album belongs to %q, not facebook", album.Service), nil)
	}
	if album.Owner.Token == "" {
		return providers.Descriptor[models.Image]{}, services.NewDomainError(
			services.ErrorTypeMissingCredential, "facebook access token required", nil)
	}

	endpoint := fmt.Sprintf("%s/%s/photos?%s", a.config.BaseURL, url.PathEscape(album.RemoteID), url.Values{
		"fields":       {"id,source"},
		"access_token": {album.Owner.Token},
	}.Encode())

	return providers.Descriptor[models.Image]{
		Service: models.ServiceFacebook,
		Request: providers.Request{Method: http.MethodGet, URL: endpoint},
		Transform: func(body []byte) ([]models.Image, error) {
			var envelope photosResponse
			if err := json.Unmarshal(body, &envelope); err != nil {
				return nil, services.NewMalformedResponseError("facebook photo payload did not parse", err)
			}

			images := make([]models.Image, 0, len(envelope.Data))
			for _, entry := range envelope.Data {
				if entry.Source == "" {
					// no resolvable URL, drop rather than emit a partial Image
					continue
				}
				images = append(images, models.Image{URL: entry.Source, RemoteID: entry.ID})
			}
			return images, nil
		},
	}, nil
}

// Available probes the Graph API root.
func (a *Adapter) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL, nil)
	if err != nil {
		return false
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	// The unauthenticated root answers 400; anything under 500 means reachable.
	return resp.StatusCode < http.StatusInternalServerError
}

// Graph API wire types

type albumsResponse struct {
	Data []albumEntry `json:"data"`
}

type albumEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedTime string `json:"created_time"`
}

type photosResponse struct {
	Data []photoEntry `json:"data"`
}

type photoEntry struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

// createdAfterMatch applies the advisory CreatedAfter hint against the Graph
// API's ISO-8601 created_time. Missing or unparsable timestamps pass.
func createdAfterMatch(after time.Time, createdTime string) bool {
	if after.IsZero() || createdTime == "" {
		return true
	}
	created, err := time.Parse("2006-01-02T15:04:05-0700", createdTime)
	if err != nil {
		if created, err = time.Parse(time.RFC3339, createdTime); err != nil {
			return true
		}
	}
	return created.After(after)
}
