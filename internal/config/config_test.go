package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small"},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database.addrs")
	}
}

func TestValidate_ExtractorNeedsModel(t *testing.T) {
	cfg := validConfig()
	cfg.Extractor.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled extractor without model")
	}
}

func TestValidate_PageSizeOrdering(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultPageSize = 200
	cfg.Search.MaxPageSize = 100

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default page size above max")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Search.PoolSize != 50 {
		t.Errorf("PoolSize = %d, want 50", cfg.Search.PoolSize)
	}
	if cfg.Search.DefaultPageSize != 20 || cfg.Search.MaxPageSize != 100 {
		t.Errorf("page sizes = %d/%d, want 20/100",
			cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	}
	if cfg.Search.Heuristic.TopScore != 0.85 ||
		cfg.Search.Heuristic.AvgTop3 != 0.65 ||
		cfg.Search.Heuristic.StrongScore != 0.75 ||
		cfg.Search.Heuristic.StrongHitsBase != 3 {
		t.Errorf("heuristic defaults = %+v", cfg.Search.Heuristic)
	}
	if cfg.Storage.KeyPrefix != "vintner:" {
		t.Errorf("KeyPrefix = %q", cfg.Storage.KeyPrefix)
	}
}

func TestGuardrailKeywords(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Guardrail.DefaultKeywords = []string{"wine"}
	cfg.Search.Guardrail.Tenants = map[string][]string{
		"spirits": {"whiskey", "gin"},
	}

	if kw := cfg.GuardrailKeywords("spirits"); len(kw) != 2 {
		t.Errorf("tenant keywords = %v", kw)
	}
	if kw := cfg.GuardrailKeywords("other"); len(kw) != 1 || kw[0] != "wine" {
		t.Errorf("default keywords = %v", kw)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VINTNER_ADDR", "redis:6379")

	in := []byte("addr: ${TEST_VINTNER_ADDR}\nkey: ${TEST_VINTNER_UNSET:-fallback}\n")
	out := string(expandEnvVars(in))

	want := "addr: redis:6379\nkey: fallback\n"
	if out != want {
		t.Errorf("expanded = %q, want %q", out, want)
	}
}

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("ENV", "")

	if env := GetEnv(); env != "local" {
		t.Errorf("GetEnv = %q, want local", env)
	}

	t.Setenv("ENV", "prod")
	if env := GetEnv(); env != "prod" {
		t.Errorf("GetEnv = %q, want prod", env)
	}
}
