package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
		check   func(*testing.T, *Config)
	}{
		{
			name:    "missing jwt secret",
			env:     map[string]string{"JWT_SECRET": ""},
			wantErr: "JWT_SECRET",
		},
		{
			name: "defaults",
			env:  map[string]string{"JWT_SECRET": "secret"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "8080", cfg.Port)
				assert.Equal(t, StorageDisk, cfg.StorageDriver)
				assert.Equal(t, time.Duration(0), cfg.CVCacheTTL)
				assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
				assert.Equal(t, 24, cfg.JWTExpirationHours)
				assert.True(t, cfg.IsDevelopment())
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"JWT_SECRET":           "secret",
				"PORT":                 "9090",
				"CV_CACHE_TTL_SECONDS": "120",
				"ENVIRONMENT":          "production",
				"REDIS_URL":            "redis://localhost:6379/1",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "9090", cfg.Port)
				assert.Equal(t, 2*time.Minute, cfg.CVCacheTTL)
				assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
				assert.False(t, cfg.IsDevelopment())
			},
		},
		{
			name:    "s3 without bucket",
			env:     map[string]string{"JWT_SECRET": "secret", "STORAGE_DRIVER": "s3", "S3_BUCKET": ""},
			wantErr: "S3_BUCKET",
		},
		{
			name:    "unknown storage driver",
			env:     map[string]string{"JWT_SECRET": "secret", "STORAGE_DRIVER": "ftp"},
			wantErr: "STORAGE_DRIVER",
		},
		{
			name:    "bcrypt cost out of range",
			env:     map[string]string{"JWT_SECRET": "secret", "BCRYPT_COST": "2"},
			wantErr: "BCRYPT_COST",
		},
		{
			name: "invalid int falls back to default",
			env:  map[string]string{"JWT_SECRET": "secret", "JWT_EXPIRATION_HOURS": "soon"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 24, cfg.JWTExpirationHours)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
