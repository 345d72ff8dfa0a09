package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DealDesk-Platform/Document-Service/internal/configuration"
	"github.com/DealDesk-Platform/Document-Service/internal/filestore"
	"github.com/DealDesk-Platform/Document-Service/internal/storage"
)

func TestBuildFileStoreDefaultsToLocal(t *testing.T) {
	cfg := &configuration.Config{}
	cfg.Upload.Backend = "local"
	cfg.Upload.Root = t.TempDir()

	files := buildFileStore(cfg)
	require.NotNil(t, files)
	_, ok := files.(*filestore.LocalStore)
	assert.True(t, ok)
}

func TestBuildMetadataStoreWithDatabaseDisabled(t *testing.T) {
	cfg := &configuration.Config{}
	cfg.Database.Enabled = false

	store := buildMetadataStore(cfg)
	require.NotNil(t, store)
	_, ok := store.(*storage.MemoryStore)
	assert.True(t, ok)
}
