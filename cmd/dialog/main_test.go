package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildServiceRegistersAdapters(t *testing.T) {
	service, err := buildService()

	require.NoError(t, err)
	assert.Equal(t, []string{"brest", "sarthe"}, service.Organizations())
}

func TestListCommandPrintsOrganizations(t *testing.T) {
	cmd := rootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"list"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "brest\nsarthe\n", out.String())
}

func TestVersionCommand(t *testing.T) {
	cmd := rootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, version+"\n", out.String())
}

func TestIntegrateUnknownOrganizationFails(t *testing.T) {
	cmd := rootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"integrate", "nantes"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no integration found")
}
