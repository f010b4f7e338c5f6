package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lennartvogel/foldview/pkg/layered"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	if cfg.Threshold != want.Threshold || cfg.Buffer != want.Buffer || cfg.Server.Addr != want.Server.Addr {
		t.Errorf("got %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
threshold = 0.35
buffer = 250
direction = "down"

[server]
addr = ":9000"

[store]
backend = "redis"
redis_addr = "localhost:6379"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Threshold != 0.35 || cfg.Buffer != 250 {
		t.Errorf("fold settings = %v/%v, want 0.35/250", cfg.Threshold, cfg.Buffer)
	}
	if cfg.LayoutDirection() != layered.Down {
		t.Errorf("direction = %v, want down", cfg.LayoutDirection())
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
	if cfg.Store.Backend != "redis" || cfg.Store.RedisAddr != "localhost:6379" {
		t.Errorf("store = %+v", cfg.Store)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", `threshold = `},
		{"threshold out of range", `threshold = 1.5`},
		{"unknown direction", `direction = "diagonal"`},
		{"unknown backend", "[store]\nbackend = \"etcd\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestOpenStoreBackends(t *testing.T) {
	if st, err := openStore(t.Context(), StoreConfig{Backend: "none"}); err != nil || st != nil {
		t.Errorf("none backend: st=%v err=%v", st, err)
	}
	if st, err := openStore(t.Context(), StoreConfig{Backend: "memory"}); err != nil || st == nil {
		t.Errorf("memory backend: st=%v err=%v", st, err)
	}
	st, err := openStore(t.Context(), StoreConfig{Backend: "file", Dir: t.TempDir()})
	if err != nil || st == nil {
		t.Fatalf("file backend: st=%v err=%v", st, err)
	}
	st.Close()
}
