package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
)

// cheapParams keeps argon2 fast in tests.
var cheapParams = HashParams{Time: 1, Memory: 64, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestGenerateAPIKey_Live(t *testing.T) {
	t.Parallel()

	key, err := generateAPIKey(EnvLive, cheapParams)
	if err != nil {
		t.Fatalf("generateAPIKey failed: %v", err)
	}

	if !strings.HasPrefix(key.Plaintext, "plx_live_") {
		t.Errorf("key should start with plx_live_, got: %s", key.Plaintext)
	}
	if len(key.Prefix) != KeyPrefixLen {
		t.Errorf("prefix should be %d chars, got: %d", KeyPrefixLen, len(key.Prefix))
	}
	if !strings.HasPrefix(key.Hash, "$argon2id$v=") {
		t.Errorf("hash should be in PHC format, got: %s", key.Hash)
	}
	if !strings.Contains(key.Plaintext, "_"+key.Prefix+"_") {
		t.Error("plaintext should contain prefix")
	}
	if _, err := ulid.Parse(key.ID); err != nil {
		t.Errorf("key id should be a ULID: %v", err)
	}

	ok, err := VerifyKey(key.Plaintext, key.Hash)
	if err != nil || !ok {
		t.Errorf("generated key does not verify against its hash (ok=%v, err=%v)", ok, err)
	}
}

func TestGenerateAPIKey_EnvFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{EnvTest, "plx_test_"},
		{EnvLive, "plx_live_"},
		{"", "plx_live_"},
		{"staging", "plx_live_"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()
			key, err := generateAPIKey(tt.env, cheapParams)
			if err != nil {
				t.Fatalf("generateAPIKey failed: %v", err)
			}
			if !strings.HasPrefix(key.Plaintext, tt.want) {
				t.Errorf("expected %s prefix for env %q, got: %s", tt.want, tt.env, key.Plaintext)
			}
		})
	}
}

func TestGenerateAPIKey_UniqueSecrets(t *testing.T) {
	t.Parallel()

	const numKeys = 50
	secrets := make(map[string]bool, numKeys)
	ids := make(map[string]bool, numKeys)

	for i := 0; i < numKeys; i++ {
		key, err := generateAPIKey(EnvLive, cheapParams)
		if err != nil {
			t.Fatalf("generateAPIKey failed: %v", err)
		}

		parsed, err := ParseAPIKey(key.Plaintext)
		if err != nil {
			t.Fatalf("generated key does not parse: %v", err)
		}
		if secrets[parsed.Secret] {
			t.Errorf("duplicate secret at iteration %d", i)
		}
		if ids[key.ID] {
			t.Errorf("duplicate id at iteration %d", i)
		}
		secrets[parsed.Secret] = true
		ids[key.ID] = true
	}
}

func TestParseAPIKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		key        string
		wantEnv    string
		wantPrefix string
		wantErr    error
	}{
		{
			name:       "valid live key",
			key:        "plx_live_abc123_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b",
			wantEnv:    "live",
			wantPrefix: "abc123",
		},
		{
			name:       "valid test key",
			key:        "plx_test_def456_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b",
			wantEnv:    "test",
			wantPrefix: "def456",
		},
		{name: "foreign prefix", key: "pk_live_abc123_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b", wantErr: ErrInvalidKeyFormat},
		{name: "wrong env", key: "plx_prod_abc123_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b", wantErr: ErrInvalidKeyFormat},
		{name: "short prefix", key: "plx_live_abc_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b", wantErr: ErrInvalidKeyFormat},
		{name: "short secret", key: "plx_live_abc123_4f8d2e1b", wantErr: ErrInvalidKeyFormat},
		{name: "long secret", key: "plx_live_abc123_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1bx", wantErr: ErrInvalidKeyFormat},
		{name: "uppercase hex", key: "plx_live_ABC123_4F8D2E1B9C7A5F3D2E1B9C7A5F3D2E1B", wantErr: ErrInvalidKeyFormat},
		{name: "empty string", key: "", wantErr: ErrInvalidKeyFormat},
		{name: "env only", key: "plx_live_", wantErr: ErrInvalidKeyFormat},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			parsed, err := ParseAPIKey(tt.key)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseAPIKey(%q) error = %v, want %v", tt.key, err, tt.wantErr)
				}
				if ValidateKeyFormat(tt.key) {
					t.Errorf("ValidateKeyFormat(%q) = true, want false", tt.key)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseAPIKey(%q) unexpected error: %v", tt.key, err)
			}
			if parsed.Env != tt.wantEnv {
				t.Errorf("Env = %s, want %s", parsed.Env, tt.wantEnv)
			}
			if parsed.Prefix != tt.wantPrefix {
				t.Errorf("Prefix = %s, want %s", parsed.Prefix, tt.wantPrefix)
			}
			if !ValidateKeyFormat(tt.key) {
				t.Errorf("ValidateKeyFormat(%q) = false, want true", tt.key)
			}
		})
	}
}
