package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Server struct {
		Redis struct {
			Addr           string        `koanf:"addr"`
			ReadBufferSize int           `koanf:"read_buffer_size"`
			IdleTimeout    time.Duration `koanf:"idle_timeout"`
			Strict         bool          `koanf:"strict"`
		} `koanf:"redis"`
	} `koanf:"server"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func defaults() *testConfig {
	cfg := &testConfig{}
	cfg.Server.Redis.Addr = "127.0.0.1:6379"
	cfg.Server.Redis.ReadBufferSize = 512
	cfg.Server.Redis.IdleTimeout = 5 * time.Minute
	cfg.Log.Level = "info"
	return cfg
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader(WithEnvPrefix("TEST_"), WithConfigFile("/path/to/config.yaml"))
	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want TEST_", l.envPrefix)
	}
	if l.FilePath() != "/path/to/config.yaml" {
		t.Errorf("FilePath() = %q", l.FilePath())
	}
	if NewLoader().envPrefix != DefaultEnvPrefix {
		t.Error("default prefix not applied")
	}
}

func TestLoader_DefaultsSurvive(t *testing.T) {
	cfg := defaults()
	l := NewLoader(WithEnvPrefix("RESPKV_TEST_NONE_"))
	if err := l.Load(cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Redis.Addr != "127.0.0.1:6379" || cfg.Server.Redis.ReadBufferSize != 512 {
		t.Errorf("defaults lost: %+v", cfg.Server.Redis)
	}
	if !l.IsLoaded() {
		t.Error("IsLoaded() = false after Load")
	}
}

func TestLoader_File(t *testing.T) {
	path := writeConfig(t, `
server:
  redis:
    addr: "0.0.0.0:7000"
    idle_timeout: 30s
log:
  level: debug
`)
	cfg := defaults()
	l := NewLoader(WithConfigFile(path), WithEnvPrefix("RESPKV_TEST_NONE_"))
	if err := l.Load(cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Redis.Addr != "0.0.0.0:7000" {
		t.Errorf("Addr = %q", cfg.Server.Redis.Addr)
	}
	if cfg.Server.Redis.IdleTimeout != 30*time.Second {
		t.Errorf("IdleTimeout = %v", cfg.Server.Redis.IdleTimeout)
	}
	if cfg.Server.Redis.ReadBufferSize != 512 {
		t.Errorf("ReadBufferSize = %d, default should survive", cfg.Server.Redis.ReadBufferSize)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
	if l.GetString("log.level") != "debug" {
		t.Errorf("GetString(log.level) = %q", l.GetString("log.level"))
	}
}

func TestLoader_MissingFile(t *testing.T) {
	l := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml")))
	if err := l.Load(defaults()); err == nil {
		t.Fatal("Load() with a missing file should fail")
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  redis:\n    addr: \"0.0.0.0:7000\"\n")
	t.Setenv("RESPKV_T1_SERVER_REDIS_ADDR", "10.0.0.1:6000")
	t.Setenv("RESPKV_T1_SERVER_REDIS_READ_BUFFER_SIZE", "4096")
	t.Setenv("RESPKV_T1_SERVER_REDIS_STRICT", "true")

	cfg := defaults()
	l := NewLoader(WithConfigFile(path), WithEnvPrefix("RESPKV_T1_"))
	if err := l.Load(cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Redis.Addr != "10.0.0.1:6000" {
		t.Errorf("Addr = %q, env should win", cfg.Server.Redis.Addr)
	}
	if cfg.Server.Redis.ReadBufferSize != 4096 {
		t.Errorf("ReadBufferSize = %d", cfg.Server.Redis.ReadBufferSize)
	}
	if !cfg.Server.Redis.Strict {
		t.Error("Strict not set from env")
	}
	if l.GetInt("server.redis.read_buffer_size") != 4096 {
		t.Errorf("GetInt = %d", l.GetInt("server.redis.read_buffer_size"))
	}
}

func TestLoader_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("RESPKV_T2_LOG_LEVEL", "warn")

	cfg := defaults()
	l := NewLoader(
		WithEnvPrefix("RESPKV_T2_"),
		WithFlags(map[string]any{"log.level": "error", "server.redis.addr": ":1234"}),
	)
	if err := l.Load(cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Level = %q, flag should win", cfg.Log.Level)
	}
	if cfg.Server.Redis.Addr != ":1234" {
		t.Errorf("Addr = %q", cfg.Server.Redis.Addr)
	}
}

func TestLoader_ReloadStartsClean(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	l := NewLoader(WithConfigFile(path), WithEnvPrefix("RESPKV_TEST_NONE_"))
	if err := l.Load(defaults()); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("server:\n  redis:\n    strict: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := defaults()
	if err := l.Load(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q, stale key from the previous load", cfg.Log.Level)
	}
	if !cfg.Server.Redis.Strict {
		t.Error("Strict not picked up on reload")
	}
}

func TestEnvKeysOf(t *testing.T) {
	keys := envKeysOf(&testConfig{})
	want := map[string]string{
		"server_redis_addr":             "server.redis.addr",
		"server_redis_read_buffer_size": "server.redis.read_buffer_size",
		"server_redis_idle_timeout":     "server.redis.idle_timeout",
		"log_level":                     "log.level",
	}
	for env, key := range want {
		if keys[env] != key {
			t.Errorf("keys[%q] = %q, want %q", env, keys[env], key)
		}
	}
	if len(envKeysOf(42)) != 0 {
		t.Error("non-struct target should yield no keys")
	}
}

func TestMapProvider(t *testing.T) {
	m, err := mapProvider{"a.b": 1, "a.c": "x", "d": true}.Read()
	if err != nil {
		t.Fatal(err)
	}
	a, ok := m["a"].(map[string]any)
	if !ok || a["b"] != 1 || a["c"] != "x" || m["d"] != true {
		t.Errorf("Read() = %v", m)
	}
	if _, err := (mapProvider{}).ReadBytes(); err != ErrReadBytesNotSupported {
		t.Errorf("ReadBytes() error = %v", err)
	}
}
