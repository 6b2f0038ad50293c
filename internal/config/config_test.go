package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.JWTIssuer != "truedial-auth" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "truedial-auth")
	}
	if cfg.JWTAudience != "truedial-api" {
		t.Errorf("JWTAudience = %q, want %q", cfg.JWTAudience, "truedial-api")
	}
	if cfg.JWTAccessTTL != "24h" {
		t.Errorf("JWTAccessTTL = %q, want %q", cfg.JWTAccessTTL, "24h")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.OTLPEndpoint != "" {
		t.Errorf("OTLPEndpoint = %q, want empty", cfg.OTLPEndpoint)
	}
	if cfg.SeedUsers != 20 {
		t.Errorf("SeedUsers = %d, want 20", cfg.SeedUsers)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("JWT_ISSUER", "custom-issuer")
	os.Setenv("BCRYPT_COST", "14")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.JWTIssuer != "custom-issuer" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "custom-issuer")
	}
	if cfg.BcryptCost != 14 {
		t.Errorf("BcryptCost = %d, want 14", cfg.BcryptCost)
	}
}

func TestLoad_BcryptCostRange(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  int
		err   bool
	}{
		{"valid min", "4", 4, false},
		{"valid max", "31", 31, false},
		{"valid middle", "12", 12, false},
		{"too low", "3", 0, true},
		{"too high", "32", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("BCRYPT_COST", tc.value)

			cfg, err := Load()
			if tc.err {
				if err == nil {
					t.Fatalf("Load with BCRYPT_COST=%s should fail", tc.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.BcryptCost != tc.want {
				t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, tc.want)
			}
		})
	}
}

func TestLoad_ProductionRequiresKeys(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("Load in production without JWT keys should fail")
	}

	os.Setenv("JWT_PRIVATE_KEY", "/etc/truedial/jwt.key")
	os.Setenv("JWT_PUBLIC_KEY", "/etc/truedial/jwt.pub")
	if _, err := Load(); err != nil {
		t.Fatalf("Load in production with JWT keys: %v", err)
	}
}

func TestAccessTTL(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"unset", "", 24 * time.Hour},
		{"invalid", "not-a-duration", 24 * time.Hour},
		{"negative", "-5m", 24 * time.Hour},
		{"valid", "15m", 15 * time.Minute},
		{"hours", "48h", 48 * time.Hour},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{JWTAccessTTL: tc.value}
			if got := cfg.AccessTTL(); got != tc.want {
				t.Errorf("AccessTTL() = %v, want %v", got, tc.want)
			}
		})
	}
}
