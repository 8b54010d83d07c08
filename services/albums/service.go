package albums

import (
	"context"

	"go.uber.org/zap"

	"github.com/kerrizor/buffet/models"
	"github.com/kerrizor/buffet/services"
	"github.com/kerrizor/buffet/services/fanout"
	"github.com/kerrizor/buffet/services/providers"
)

// ServiceFailure reports one service's contribution failing during a fan-out.
// Failures ride alongside the merged success list; nothing is dropped
// silently.
type ServiceFailure struct {
	Service models.Service `json:"service"`
	Error   string         `json:"error"`
	Err     error          `json:"-"`
}

// FindResult carries whatever subset of services succeeded plus an explicit
// enumeration of which services failed and why.
type FindResult struct {
	Albums   []models.Album   `json:"albums"`
	Failures []ServiceFailure `json:"failures"`
}

// Service is the aggregation entry point: it selects adapters, collects their
// request descriptors, drives the fan-out executor, and merges per-service
// results into one ordered collection.
type Service struct {
	registry  *providers.Registry
	albumExec *fanout.Executor[models.Album]
	imageExec *fanout.Executor[models.Image]
	logger    *zap.Logger
}

// NewService creates the aggregator over a populated registry and an injected
// transport.
func NewService(registry *providers.Registry, client providers.HTTPClient, opts fanout.Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		registry:  registry,
		albumExec: fanout.NewExecutor[models.Album](client, opts, logger),
		imageExec: fanout.NewExecutor[models.Image](client, opts, logger),
		logger:    logger,
	}
}

// Find fans an album search out to the targeted services and merges the
// results. Output order is adapter-submission order, then within-adapter
// order as produced by each transform; it is never sorted by album
// attributes.
//
// A nil filter.Services targets every registered adapter; an explicitly
// empty slice targets none and yields an empty result. Per-service failures
// do not abort the merge.
func (s *Service) Find(ctx context.Context, creds providers.CredentialProvider, filter providers.Filter) (*FindResult, error) {
	targets := filter.Services
	if targets == nil {
		targets = s.registry.Services()
	}

	result := &FindResult{Albums: []models.Album{}, Failures: []ServiceFailure{}}
	if len(targets) == 0 {
		return result, nil
	}

	s.logger.Debug("building album fan-out",
		zap.Int("targets", len(targets)))

	descriptors := make([]providers.Descriptor[models.Album], 0, len(targets))
	submitted := make([]models.Service, 0, len(targets))
	for _, name := range targets {
		adapter, err := s.registry.Get(name)
		if err != nil {
			result.Failures = append(result.Failures, newFailure(name,
				services.NewDomainError(services.ErrorTypeNotFound, "service not registered", err)))
			continue
		}

		cred := lookupCredential(creds, name)
		desc, err := adapter.FindAlbums(cred, filter)
		if err != nil {
			// MissingCredential or AdapterUnimplemented; the request is
			// never sent but the failure is still reported per service.
			result.Failures = append(result.Failures, newFailure(name, err))
			continue
		}
		descriptors = append(descriptors, desc)
		submitted = append(submitted, name)
	}

	outcomes, err := s.albumExec.Execute(ctx, descriptors)
	if err != nil {
		return nil, err
	}

	for i, outcome := range outcomes {
		if outcome.Err != nil {
			result.Failures = append(result.Failures, newFailure(submitted[i], outcome.Err))
			continue
		}
		result.Albums = append(result.Albums, outcome.Items...)
	}

	s.logger.Info("album search merged",
		zap.Int("albums", len(result.Albums)),
		zap.Int("failures", len(result.Failures)))
	return result, nil
}

// Images fetches one album's photos through its owning adapter, going through
// the same executor path as Find so a single request and a batch share one
// code path. The result is memoized on the album; a second call returns the
// cached list without touching the network.
func (s *Service) Images(ctx context.Context, album *models.Album) ([]models.Image, error) {
	if album == nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "album is required", nil)
	}
	if album.Images != nil {
		return album.Images, nil
	}

	adapter, err := s.registry.Get(album.Service)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeNotFound, "service not registered", err).
			WithDetail("service", string(album.Service))
	}

	desc, err := adapter.FindAlbumImages(*album)
	if err != nil {
		return nil, err
	}

	outcomes, err := s.imageExec.Execute(ctx, []providers.Descriptor[models.Image]{desc})
	if err != nil {
		return nil, err
	}
	if outcomes[0].Err != nil {
		return nil, outcomes[0].Err
	}

	album.Images = outcomes[0].Items
	return album.Images, nil
}

// lookupCredential tolerates a nil provider; the adapter decides whether a
// zero credential is acceptable for its service.
func lookupCredential(creds providers.CredentialProvider, service models.Service) models.Credential {
	if creds == nil {
		return models.Credential{}
	}
	cred, ok := creds.Credential(service)
	if !ok {
		return models.Credential{}
	}
	return cred
}

func newFailure(service models.Service, err error) ServiceFailure {
	return ServiceFailure{Service: service, Error: err.Error(), Err: err}
}
