package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kerrizor/buffet/config"
	"github.com/kerrizor/buffet/middleware"
	"github.com/kerrizor/buffet/models"
	"github.com/kerrizor/buffet/services/albums"
	"github.com/kerrizor/buffet/services/fanout"
	"github.com/kerrizor/buffet/services/providers"
	"github.com/kerrizor/buffet/services/providers/facebook"
	"github.com/kerrizor/buffet/services/providers/flickr"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config     *config.Config
	Logger     *zap.Logger
	HTTPClient providers.HTTPClient

	// Photo services
	Registry *providers.Registry
	Albums   *albums.Service

	// Request-scoped credential resolution
	Credentials *middleware.CredentialsMiddleware
}

// servicesFile is the on-disk shape of the enabled-services list
type servicesFile struct {
	Services []string `yaml:"services"`
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:     cfg,
		Logger:     logger,
		HTTPClient: &http.Client{},
	}

	if err := deps.initRegistry(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize service registry: %w", err)
	}

	deps.initCredentials(cfg)

	deps.Albums = albums.NewService(deps.Registry, deps.HTTPClient, fanout.Options{
		MaxConcurrent:  cfg.Fanout.MaxConcurrent,
		RequestTimeout: cfg.Fanout.RequestTimeout,
	}, logger)

	logger.Info("all dependencies initialized successfully",
		zap.Int("services", deps.Registry.Count()))
	return deps, nil
}

// initRegistry reads the enabled-services file and registers an adapter for
// each named service. Registration order in the file is the merge order of
// aggregated results.
func (d *Dependencies) initRegistry(cfg *config.Config) error {
	enabled, err := loadServicesFile(cfg.ServicesFile)
	if err != nil {
		return err
	}

	registry := providers.NewRegistry()
	for _, name := range enabled {
		var adapter providers.Adapter
		switch models.Service(name) {
		case models.ServiceFlickr:
			adapter = flickr.New(flickr.Config{
				APIKey:  cfg.Providers.Flickr.APIKey,
				Secret:  cfg.Providers.Flickr.Secret,
				BaseURL: cfg.Providers.Flickr.BaseURL,
			}, d.HTTPClient)
		case models.ServiceFacebook:
			adapter = facebook.New(facebook.Config{
				BaseURL: cfg.Providers.Facebook.BaseURL,
			}, d.HTTPClient)
		default:
			return fmt.Errorf("unknown service %q in %s", name, cfg.ServicesFile)
		}

		if err := registry.Register(adapter); err != nil {
			return fmt.Errorf("registering %s: %w", name, err)
		}
		d.Logger.Info("registered photo service", zap.String("service", name))
	}

	if registry.Count() == 0 {
		d.Logger.Warn("no photo services enabled")
	}

	d.Registry = registry
	return nil
}

// initCredentials builds the server-side default credentials and the
// middleware that overlays per-request header credentials on top of them
func (d *Dependencies) initCredentials(cfg *config.Config) {
	defaults := providers.CredentialMap{}

	flickrDefault := models.Credential{
		UserID: cfg.Providers.Flickr.DefaultUserID,
		Token:  cfg.Providers.Flickr.DefaultToken,
	}
	if !flickrDefault.IsZero() {
		defaults[models.ServiceFlickr] = flickrDefault
	}

	facebookDefault := models.Credential{
		Token: cfg.Providers.Facebook.DefaultToken,
	}
	if !facebookDefault.IsZero() {
		defaults[models.ServiceFacebook] = facebookDefault
	}

	d.Credentials = middleware.NewCredentialsMiddleware(defaults, d.Logger)
}

// loadServicesFile parses the YAML list of enabled services
func loadServicesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading services file %s: %w", path, err)
	}

	var parsed servicesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing services file %s: %w", path, err)
	}
	return parsed.Services, nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	return nil
}
