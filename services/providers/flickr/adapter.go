package flickr

import (
	"context"
	"crypto/md5"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/kerrizor/buffet/models"
	"github.com/kerrizor/buffet/services"
	"github.com/kerrizor/buffet/services/providers"
)

const (
	defaultBaseURL = "https://api.flickr.com/services/rest/"

	// photostreamID is the remote ID this adapter assigns to the implicit
	// "all photos" collection every Flickr account carries alongside its
	// named photosets. It is synthesized locally, never sent to Flickr.
	photostreamID = "photostream"

	photostreamTitle = "Photostream"
)

// Config holds the Flickr application credentials. APIKey identifies the
// application; Secret, when set, enables request signing.
type Config struct {
	APIKey  string
	Secret  string
	BaseURL string
}

// Adapter implements the providers.Adapter interface for Flickr's REST API.
type Adapter struct {
	config Config
	client providers.HTTPClient
}

// New creates a Flickr adapter over the injected transport. The transport is
// used only for availability probes; query traffic goes through the fan-out
// executor.
func New(config Config, client providers.HTTPClient) *Adapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return &Adapter{config: config, client: client}
}

// Name returns the service tag
func (a *Adapter) Name() models.Service {
	return models.ServiceFlickr
}

// FindAlbums builds the photoset listing descriptor. Flickr album listings
// are public, but the API still needs an application key and the account's
// NSID, so both must be present before a request can be formed. The implicit
// photostream is reported as one more album unless an explicit ID hint asks
// for a single named photoset.
func (a *Adapter) FindAlbums(cred models.Credential, filter providers.Filter) (providers.Descriptor[models.Album], error) {
	if a.config.APIKey == "" {
		return providers.Descriptor[models.Album]{}, services.NewDomainError(
			services.ErrorTypeMissingCredential, "flickr api key not configured", nil)
	}
	if cred.UserID == "" {
		return providers.Descriptor[models.Album]{}, services.NewDomainError(
			services.ErrorTypeMissingCredential, "flickr user id required", nil)
	}

	endpoint := a.endpoint(map[string]string{
		"method":  "flickr.photosets.getList",
		"user_id": cred.UserID,
	}, cred)

	return providers.Descriptor[models.Album]{
		Service: models.ServiceFlickr,
		Request: providers.Request{Method: http.MethodGet, URL: endpoint},
		Transform: func(body []byte) ([]models.Album, error) {
			rsp, err := parseEnvelope(body)
			if err != nil {
				return nil, err
			}
			if rsp.Photosets == nil {
				return nil, services.NewMalformedResponseError("flickr response is missing photosets", nil)
			}

			albums := make([]models.Album, 0, len(rsp.Photosets.Photosets)+1)
			for _, ps := range rsp.Photosets.Photosets {
				if !createdAfterMatch(filter.CreatedAfter, ps.DateCreate) {
					continue
				}
				album := models.Album{
					Title:    ps.Title,
					RemoteID: ps.ID,
					Service:  models.ServiceFlickr,
					Owner:    cred,
				}
				if filter.MatchesAlbum(album) {
					albums = append(albums, album)
				}
			}

			// The photostream only participates in open-ended searches; an
			// explicit ID hint targets a real photoset.
			if filter.ID == "" {
				stream := models.Album{
					Title:    photostreamTitle,
					RemoteID: photostreamID,
					Service:  models.ServiceFlickr,
					Owner:    cred,
				}
				if filter.MatchesAlbum(stream) {
					albums = append(albums, stream)
				}
			}
			return albums, nil
		},
	}, nil
}

// FindAlbumImages builds the photo listing descriptor for one album. The
// photostream and named photosets use different API methods and different
// envelope shapes; that branching stays inside this adapter.
func (a *Adapter) FindAlbumImages(album models.Album) (providers.Descriptor[models.Image], error) {
	if album.Service != models.ServiceFlickr {
		return providers.Descriptor[models.Image]{}, services.NewDomainError(
			services.ErrorTypeInvalidOwnership,
			fmt.Sprintf("album belongs to %q, not flickr", album.Service), nil)
	}
	if a.config.APIKey == "" {
		return providers.Descriptor[models.Image]{}, services.NewDomainError(
			services.ErrorTypeMissingCredential, "flickr api key not configured", nil)
	}

	var endpoint string
	if album.RemoteID == photostreamID {
		endpoint = a.endpoint(map[string]string{
			"method":  "flickr.people.getPublicPhotos",
			"user_id": album.Owner.UserID,
		}, album.Owner)
	} else {
		endpoint = a.endpoint(map[string]string{
			"method":      "flickr.photosets.getPhotos",
			"photoset_id": album.RemoteID,
		}, album.Owner)
	}

	return providers.Descriptor[models.Image]{
		Service: models.ServiceFlickr,
		Request: providers.Request{Method: http.MethodGet, URL: endpoint},
		Transform: func(body []byte) ([]models.Image, error) {
			rsp, err := parseEnvelope(body)
			if err != nil {
				return nil, err
			}

			var photos []flickrPhoto
			switch {
			case rsp.Photos != nil:
				photos = rsp.Photos.Photos
			case rsp.Photoset != nil:
				photos = rsp.Photoset.Photos
			default:
				return nil, services.NewMalformedResponseError("flickr response has no photo list", nil)
			}

			images := make([]models.Image, 0, len(photos))
			for _, p := range photos {
				u := photoURL(p)
				if u == "" {
					// unresolvable photo, drop rather than emit a partial Image
					continue
				}
				images = append(images, models.Image{URL: u, RemoteID: p.ID})
			}
			return images, nil
		},
	}, nil
}

// Available probes flickr.test.echo.
func (a *Adapter) Available(ctx context.Context) bool {
	endpoint := a.endpoint(map[string]string{"method": "flickr.test.echo"}, models.Credential{})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// endpoint assembles the REST URL for a method call, signing it when a
// shared secret is configured.
func (a *Adapter) endpoint(params map[string]string, cred models.Credential) string {
	params["api_key"] = a.config.APIKey
	if cred.Token != "" {
		params["auth_token"] = cred.Token
	}
	if a.config.Secret != "" {
		params["api_sig"] = sign(a.config.Secret, params)
	}

	values := url.Values{}
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}
	return a.config.BaseURL + "?" + values.Encode()
}

// sign computes the api_sig parameter: md5 over the shared secret followed by
// the parameters concatenated in key order.
func sign(secret string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "api_sig" || params[k] == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	payload := secret
	for _, k := range keys {
		payload += k + params[k]
	}
	return fmt.Sprintf("%x", md5.Sum([]byte(payload)))
}

// Flickr wire types. The REST envelope is <rsp stat="..."> wrapping either a
// payload element or an <err>.

type flickrResponse struct {
	XMLName   xml.Name         `xml:"rsp"`
	Stat      string           `xml:"stat,attr"`
	Err       *flickrError     `xml:"err"`
	Photosets *flickrPhotosets `xml:"photosets"`
	Photoset  *flickrPhotoset  `xml:"photoset"`
	Photos    *flickrPhotos    `xml:"photos"`
}

type flickrError struct {
	Code string `xml:"code,attr"`
	Msg  string `xml:"msg,attr"`
}

type flickrPhotosets struct {
	Photosets []flickrPhotoset `xml:"photoset"`
}

type flickrPhotoset struct {
	ID         string        `xml:"id,attr"`
	DateCreate string        `xml:"date_create,attr"`
	Title      string        `xml:"title"`
	Photos     []flickrPhoto `xml:"photo"`
}

type flickrPhotos struct {
	Photos []flickrPhoto `xml:"photo"`
}

type flickrPhoto struct {
	ID     string `xml:"id,attr"`
	Secret string `xml:"secret,attr"`
	Server string `xml:"server,attr"`
	Farm   string `xml:"farm,attr"`
}

// photoURL synthesizes the static-farm URL for the largest representation.
// Any missing component makes the photo unresolvable; callers drop it.
func photoURL(p flickrPhoto) string {
	if p.Farm == "" || p.Server == "" || p.ID == "" || p.Secret == "" {
		return ""
	}
	return fmt.Sprintf("https://farm%s.staticflickr.com/%s/%s_%s_b.jpg", p.Farm, p.Server, p.ID, p.Secret)
}

// parseEnvelope decodes the rsp envelope and maps Flickr-level failures.
func parseEnvelope(body []byte) (*flickrResponse, error) {
	var rsp flickrResponse
	if err := xml.Unmarshal(body, &rsp); err != nil {
		return nil, services.NewMalformedResponseError("flickr envelope did not parse", err)
	}
	if rsp.Stat != "ok" {
		msg := "flickr reported failure"
		code := ""
		if rsp.Err != nil {
			msg = rsp.Err.Msg
			code = rsp.Err.Code
		}
		return nil, services.NewTransportError(msg, nil).
			WithDetail("service", string(models.ServiceFlickr)).
			WithDetail("flickr_code", code)
	}
	return &rsp, nil
}

// createdAfterMatch applies the advisory CreatedAfter hint against the
// photoset's date_create attribute. Missing or unparsable timestamps pass.
func createdAfterMatch(after time.Time, dateCreate string) bool {
	if after.IsZero() || dateCreate == "" {
		return true
	}
	unix, err := strconv.ParseInt(dateCreate, 10, 64)
	if err != nil {
		return true
	}
	return time.Unix(unix, 0).After(after)
}
