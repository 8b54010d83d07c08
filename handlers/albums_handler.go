package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kerrizor/buffet/app"
	"github.com/kerrizor/buffet/middleware"
	"github.com/kerrizor/buffet/models"
	"github.com/kerrizor/buffet/services/providers"
	"github.com/kerrizor/buffet/utils"
)

// albumsQuery carries the filter hints parsed from the query string
type albumsQuery struct {
	ID   string `validate:"omitempty,max=100"`
	Name string `validate:"omitempty,max=200"`
}

// ImagesResponse is the response body for the album images endpoint
type ImagesResponse struct {
	Service string         `json:"service"`
	AlbumID string         `json:"album_id"`
	Images  []models.Image `json:"images"`
}

// ListAlbumsHandler handles GET /api/v1/albums.
// Query parameters: services (comma-separated), id, name, created_after.
// An absent services parameter targets every registered service; a present
// but empty one targets none.
func ListAlbumsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		query := albumsQuery{ID: q.Get("id"), Name: q.Get("name")}
		if err := utils.ValidateStruct(query); err != nil {
			HandleValidationError(w, err, deps.Logger)
			return
		}

		filter := providers.Filter{ID: query.ID, Name: query.Name}
		if q.Has("services") {
			filter.Services = parseServices(q.Get("services"))
		}
		if raw := q.Get("created_after"); raw != "" {
			ts, err := parseCreatedAfter(raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, "bad_request",
					"created_after must be an RFC3339 timestamp or a YYYY-MM-DD date")
				return
			}
			filter.CreatedAfter = ts
		}

		creds := middleware.GetCredentialsFromContext(r.Context())
		result, err := deps.Albums.Find(r.Context(), creds, filter)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteOK(w, result)
	}
}

// ListAlbumImagesHandler handles GET /api/v1/albums/{service}/{id}/images
func ListAlbumImagesHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		service := models.Service(chi.URLParam(r, "service"))
		id := chi.URLParam(r, "id")

		var owner models.Credential
		if creds := middleware.GetCredentialsFromContext(r.Context()); creds != nil {
			owner, _ = creds.Credential(service)
		}

		album := models.Album{Service: service, RemoteID: id, Owner: owner}
		images, err := deps.Albums.Images(r.Context(), &album)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteOK(w, ImagesResponse{
			Service: string(service),
			AlbumID: id,
			Images:  images,
		})
	}
}

// parseServices splits the comma-separated services parameter. An empty
// value yields an empty (non-nil) slice.
func parseServices(raw string) []models.Service {
	targets := []models.Service{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		targets = append(targets, models.Service(part))
	}
	return targets
}

// parseCreatedAfter accepts RFC3339 timestamps and bare dates
func parseCreatedAfter(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}
