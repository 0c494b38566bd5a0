package core

import (
	"context"
	"fmt"

	"github.com/sutter-pierre/dialog-integrations/internal/client"
	"github.com/sutter-pierre/dialog-integrations/internal/model"
	"github.com/sutter-pierre/dialog-integrations/internal/settings"
)

// ClientFactory builds a registry client from organization settings
type ClientFactory func(s *settings.OrganizationSettings) RegistryClient

// DefaultClientFactory builds the HTTP registry client
func DefaultClientFactory(s *settings.OrganizationSettings) RegistryClient {
	return client.New(s.BaseURL, s.ClientID, s.ClientSecret)
}

// Service wires organization names to adapters, settings and registry
// clients. It is the facade the CLI and the control API run integrations
// through.
type Service struct {
	registry *AdapterRegistry
	factory  ClientFactory
}

// NewService creates a service over a registry. A nil factory uses the
// HTTP registry client.
func NewService(registry *AdapterRegistry, factory ClientFactory) *Service {
	if factory == nil {
		factory = DefaultClientFactory
	}
	return &Service{registry: registry, factory: factory}
}

// Organizations returns the organizations an adapter is registered for
func (s *Service) Organizations() []string {
	return s.registry.Organizations()
}

// Integrate runs the full integration pipeline for one organization
func (s *Service) Integrate(ctx context.Context, organization string) (*model.IntegrationReport, error) {
	engine, err := s.engineFor(organization)
	if err != nil {
		return nil, err
	}
	return engine.Integrate(ctx)
}

// Publish runs publish-all for one organization
func (s *Service) Publish(ctx context.Context, organization string) (*model.PublishReport, error) {
	engine, err := s.engineFor(organization)
	if err != nil {
		return nil, err
	}
	return engine.Publish(ctx)
}

func (s *Service) engineFor(organization string) (*Engine, error) {
	adapter, exists := s.registry.Get(organization)
	if !exists {
		return nil, fmt.Errorf("no integration found for organization %q", organization)
	}

	orgSettings, err := settings.ForOrganization(organization)
	if err != nil {
		return nil, err
	}

	return NewEngine(adapter, s.factory(orgSettings)), nil
}
