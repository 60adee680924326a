package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./hottest100.db" {
			t.Errorf("expected database path ./hottest100.db, got %s", config.Database.Path)
		}

		if config.Data.Path != "data/songs.json" {
			t.Errorf("expected data path data/songs.json, got %s", config.Data.Path)
		}

		if config.Sync.MaxRetries != 0 || config.Sync.MaxWait.Duration != 0 {
			t.Errorf("expected unbounded retries by default, got %d / %v", config.Sync.MaxRetries, config.Sync.MaxWait)
		}

		if config.Sync.ChunkSize != 100 {
			t.Errorf("expected chunk size 100, got %d", config.Sync.ChunkSize)
		}

		if !config.Database.History {
			t.Error("expected history to be enabled by default")
		}

		if config.Credentials.Spotify.ClientID != "" {
			t.Errorf("expected empty client_id, got %s", config.Credentials.Spotify.ClientID)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[sync]
max_retries = 5
max_wait = "90s"
requests_per_second = 2.5

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://127.0.0.1:8888/callback"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Sync.MaxRetries != 5 {
			t.Errorf("expected max_retries 5, got %d", config.Sync.MaxRetries)
		}

		if config.Sync.MaxWait.Duration != 90*time.Second {
			t.Errorf("expected max_wait 90s, got %v", config.Sync.MaxWait)
		}

		if config.Sync.ChunkSize != 100 {
			t.Errorf("expected default chunk size to survive, got %d", config.Sync.ChunkSize)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
	})

	t.Run("LoadConfig rejects bad duration", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		os.WriteFile(configPath, []byte("[sync]\nmax_wait = \"soon\"\n"), 0644)

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfigOrDefault missing file", func(t *testing.T) {
		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Data.Path != "data/songs.json" {
			t.Errorf("expected defaults, got %+v", config.Data)
		}
	})
}

func TestValidate(t *testing.T) {
	env := map[string]string{
		EnvClientID:     "id",
		EnvClientSecret: "secret",
		EnvRedirectURI:  "http://127.0.0.1:8888/callback",
	}

	tc := []struct {
		name    string
		unset   []string
		missing []string
	}{
		{name: "all present"},
		{name: "one missing", unset: []string{EnvClientSecret}, missing: []string{EnvClientSecret}},
		{
			name:    "all missing",
			unset:   []string{EnvRedirectURI, EnvClientID, EnvClientSecret},
			missing: []string{EnvClientID, EnvClientSecret, EnvRedirectURI},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.ApplyEnv(func(k string) string {
				for _, u := range tt.unset {
					if u == k {
						return ""
					}
				}
				return env[k]
			})

			err := config.Validate()
			if len(tt.missing) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var mce *MissingConfigError
			if !errors.As(err, &mce) {
				t.Fatalf("expected MissingConfigError, got %v", err)
			}
			if len(mce.Names) != len(tt.missing) {
				t.Fatalf("expected %v, got %v", tt.missing, mce.Names)
			}
			for i := range tt.missing {
				if mce.Names[i] != tt.missing[i] {
					t.Errorf("name %d: expected %s, got %s", i, tt.missing[i], mce.Names[i])
				}
			}
		})
	}

	t.Run("env overrides file", func(t *testing.T) {
		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "from-file"
		config.ApplyEnv(func(k string) string { return env[k] })

		if config.Credentials.Spotify.ClientID != "id" {
			t.Errorf("expected env client id, got %s", config.Credentials.Spotify.ClientID)
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	os.WriteFile(path, []byte("HOTTEST100_TEST_VALUE=loaded\n"), 0644)
	t.Setenv("HOTTEST100_TEST_VALUE", "")
	os.Unsetenv("HOTTEST100_TEST_VALUE")

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("HOTTEST100_TEST_VALUE"); got != "loaded" {
		t.Errorf("expected loaded, got %q", got)
	}
}

func TestToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	if _, err := LoadToken(path); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}
	if err := SaveToken(path, token); err != nil {
		t.Fatalf("failed to save token: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("token file should exist: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	loaded, err := LoadToken(path)
	if err != nil {
		t.Fatalf("failed to load token: %v", err)
	}
	if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
		t.Errorf("unexpected token: %+v", loaded)
	}
}
