package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if c.ChunkSize != 1000 {
		t.Errorf("chunk_size = %d, want 1000", c.ChunkSize)
	}
	if c.BatchSize != 4 {
		t.Errorf("batch_size = %d, want 4", c.BatchSize)
	}
	if c.EvictLagBatches != 2 {
		t.Errorf("evict_lag_batches = %d, want 2", c.EvictLagBatches)
	}
	if c.RetryMaxAttempts != 3 {
		t.Errorf("retry_max_attempts = %d, want 3", c.RetryMaxAttempts)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &Global{
		APIKey:       "secret",
		DefaultModel: "test/model",
		ChunkSize:    250,
		BatchSize:    2,
	}
	if err := Save(in, path); err != nil {
		t.Fatal(err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.APIKey != "secret" || out.DefaultModel != "test/model" {
		t.Errorf("loaded = %+v", out)
	}
	if out.ChunkSize != 250 {
		t.Errorf("chunk_size = %d, want 250", out.ChunkSize)
	}
}

func TestEnvOverride(t *testing.T) {
	os.Setenv("GRIDMEND_CHUNK_SIZE", "77")
	defer os.Unsetenv("GRIDMEND_CHUNK_SIZE")
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if c.ChunkSize != 77 {
		t.Errorf("chunk_size = %d, want env override 77", c.ChunkSize)
	}
}
