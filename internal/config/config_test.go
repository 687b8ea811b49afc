package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("CATALOG_PAGES", "")
	t.Setenv("MODEL_TTL", "")
	t.Setenv("CATALOG_NODE_ADDR", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 5, cfg.CatalogPages)
	assert.Equal(t, 30*time.Minute, cfg.ModelTTL)
	assert.Empty(t, cfg.CatalogNodeAddr)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CATALOG_PAGES", "2")
	t.Setenv("BREAKER_FAILURES", "7")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("CATALOG_NODE_ADDR", "catalog1:9001")

	cfg := Load()

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 2, cfg.CatalogPages)
	assert.Equal(t, uint32(7), cfg.BreakerFailures)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "catalog1:9001", cfg.CatalogNodeAddr)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CATALOG_PAGE_SIZE", "lots")
	t.Setenv("MODEL_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 40, cfg.CatalogPageSize)
	assert.Equal(t, 30*time.Minute, cfg.ModelTTL)
}
