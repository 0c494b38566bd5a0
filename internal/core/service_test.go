package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sutter-pierre/dialog-integrations/internal/model"
	"github.com/sutter-pierre/dialog-integrations/internal/settings"
)

func TestServiceIntegrateUnknownOrganization(t *testing.T) {
	service := NewService(NewAdapterRegistry(), nil)

	_, err := service.Integrate(context.Background(), "nowhere")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no integration found")
}

func TestServiceIntegrateFailsOnMissingSettings(t *testing.T) {
	t.Setenv("DIALOG_BASE_URL", "")

	registry := NewAdapterRegistry()
	require.NoError(t, registry.Register(&fakeAdapter{organization: "brest"}))
	service := NewService(registry, nil)

	_, err := service.Integrate(context.Background(), "brest")

	var cfgErr *settings.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestServiceIntegrateRunsEngine(t *testing.T) {
	t.Setenv("DIALOG_BASE_URL", "https://dialog.example.org")
	t.Setenv("DIALOG_BREST_CLIENT_ID", "id")
	t.Setenv("DIALOG_BREST_CLIENT_SECRET", "secret")

	registry := NewAdapterRegistry()
	require.NoError(t, registry.Register(&fakeAdapter{
		organization: "brest",
		records:      []model.FlatRecord{validRecord("A")},
	}))

	fake := &fakeRegistry{}
	service := NewService(registry, func(s *settings.OrganizationSettings) RegistryClient {
		assert.Equal(t, "https://dialog.example.org", s.BaseURL)
		return fake
	})

	report, err := service.Integrate(context.Background(), "brest")

	require.NoError(t, err)
	assert.Equal(t, 1, report.Submitted)
	assert.Equal(t, []string{"A-0"}, fake.submitted)
}

func TestServicePublishRunsEngine(t *testing.T) {
	t.Setenv("DIALOG_BASE_URL", "https://dialog.example.org")
	t.Setenv("DIALOG_BREST_CLIENT_ID", "id")
	t.Setenv("DIALOG_BREST_CLIENT_SECRET", "secret")

	registry := NewAdapterRegistry()
	require.NoError(t, registry.Register(&fakeAdapter{organization: "brest"}))

	fake := &fakeRegistry{known: []string{"A-0"}}
	service := NewService(registry, func(s *settings.OrganizationSettings) RegistryClient {
		return fake
	})

	report, err := service.Publish(context.Background(), "brest")

	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, []string{"A-0"}, fake.published)
}
