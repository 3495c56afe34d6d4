package utils_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/temirov/goldencheck/internal/utils"
)

func TestCommandContextAccessorConfigurationFilePath(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, missing := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, missing)

	executionContext := accessor.WithConfigurationFilePath(context.Background(), "/etc/goldencheck/config.yaml")
	configurationFilePath, available := accessor.ConfigurationFilePath(executionContext)
	require.True(testInstance, available)
	require.Equal(testInstance, "/etc/goldencheck/config.yaml", configurationFilePath)
}

func TestCommandContextAccessorRunIdentifier(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	executionContext := accessor.WithRunIdentifier(context.Background())
	firstLookup := accessor.RunIdentifier(executionContext)
	secondLookup := accessor.RunIdentifier(executionContext)
	require.Equal(testInstance, firstLookup, secondLookup)

	_, parseError := uuid.Parse(firstLookup)
	require.NoError(testInstance, parseError)

	require.NotEqual(testInstance, accessor.RunIdentifier(context.Background()), accessor.RunIdentifier(context.Background()))
}
