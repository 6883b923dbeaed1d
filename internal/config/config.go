package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atendo/backend/internal/models"
)

// EnvProduction is the APP_ENV value that enables strict startup checks.
const EnvProduction = "production"

// devJWTSecret signs tokens when no JWT_SECRET is set outside production.
// Startup fails rather than falling back to it in production mode.
const devJWTSecret = "dev-only-insecure-secret"

// Default single-tenant provisioning used for local iteration when no
// explicit identity is configured. The hash verifies "123456".
const (
	defaultLoginEmail   = "admin@empresa.com"
	defaultLoginHash    = "$2b$10$sxI6Ai8icfl0P3tKdF67wOsCmweeQvr314iAs/wIb3DDvowy60qP."
	defaultUserName     = "Administrador"
	defaultCompanyName  = "Sua Empresa"
	defaultCompanyPlan  = models.PlanPro
	defaultIdentityID   = "1"
	defaultTenantID     = "1"
	defaultJWTTTLHours  = 24
	defaultStoreTimeout = 5 * time.Second
)

// Provision pairs a provisioned identity with its tenant. The slice form
// keeps the identity→tenant mapping open to 1:N later without a redesign.
type Provision struct {
	Identity models.Identity
	Tenant   models.Tenant
}

// provisionEntry is the identities-file wire format. It exists because the
// password hash is deliberately unexported from models.Identity JSON.
type provisionEntry struct {
	User struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Name         string `json:"name"`
		Role         string `json:"role"`
		PasswordHash string `json:"password_hash"`
	} `json:"user"`
	Tenant models.Tenant `json:"tenant"`
}

// Config holds runtime configuration sourced from env vars. It is built once
// at startup and treated as read-only afterwards.
type Config struct {
	Port              string
	Environment       string
	DatabaseURL       string
	JWTSecret         string
	JWTIssuer         string
	JWTTTL            time.Duration
	CORSOrigins       []string
	StoreTimeout      time.Duration
	StrictTenantScope bool
	Provisions        []Provision
}

// Load reads configuration from the environment and fails fast on anything
// that would make the process unsafe to run.
func Load() (Config, error) {
	cfg := Config{
		Port:        fallback(os.Getenv("PORT"), "8080"),
		Environment: fallback(os.Getenv("APP_ENV"), "development"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:   fallback(os.Getenv("JWT_ISSUER"), "atendo-backend"),
		CORSOrigins: parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}

	hours := fallback(os.Getenv("JWT_TTL_HOURS"), "")
	if ttlHours, err := strconv.Atoi(hours); err == nil && ttlHours > 0 {
		cfg.JWTTTL = time.Duration(ttlHours) * time.Hour
	} else {
		cfg.JWTTTL = defaultJWTTTLHours * time.Hour
	}

	seconds := fallback(os.Getenv("STORE_TIMEOUT_SECONDS"), "")
	if timeoutSec, err := strconv.Atoi(seconds); err == nil && timeoutSec > 0 {
		cfg.StoreTimeout = time.Duration(timeoutSec) * time.Second
	} else {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	cfg.StrictTenantScope = strings.EqualFold(os.Getenv("STRICT_TENANT_SCOPE"), "true")

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		if cfg.Production() {
			return Config{}, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = devJWTSecret
	}

	provisions, err := loadProvisions(cfg.Production())
	if err != nil {
		return Config{}, err
	}
	cfg.Provisions = provisions

	return cfg, nil
}

// Production reports whether strict startup checks apply.
func (c Config) Production() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// loadProvisions resolves identity→tenant provisioning from IDENTITIES_FILE
// when set, otherwise from the single-client env vars.
func loadProvisions(production bool) ([]Provision, error) {
	if path := strings.TrimSpace(os.Getenv("IDENTITIES_FILE")); path != "" {
		return loadProvisionsFile(path)
	}

	hash := strings.TrimSpace(os.Getenv("CLIENT_LOGIN_PASSWORD_HASH"))
	if hash == "" {
		if production {
			return nil, errors.New("CLIENT_LOGIN_PASSWORD_HASH or IDENTITIES_FILE is required in production")
		}
		hash = defaultLoginHash
	}

	p := Provision{
		Identity: models.Identity{
			ID:           defaultIdentityID,
			Email:        fallback(os.Getenv("CLIENT_LOGIN_EMAIL"), defaultLoginEmail),
			Name:         fallback(os.Getenv("CLIENT_USER_NAME"), defaultUserName),
			Role:         models.RoleAdmin,
			PasswordHash: hash,
		},
		Tenant: models.Tenant{
			ID:   fallback(os.Getenv("CLIENT_TENANT_ID"), defaultTenantID),
			Name: fallback(os.Getenv("CLIENT_COMPANY_NAME"), defaultCompanyName),
			Plan: fallback(os.Getenv("CLIENT_PLAN_TYPE"), defaultCompanyPlan),
		},
	}
	return validateProvisions([]Provision{p})
}

func loadProvisionsFile(path string) ([]Provision, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read identities file: %w", err)
	}
	var entries []provisionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse identities file: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("identities file contains no entries")
	}

	provisions := make([]Provision, 0, len(entries))
	for _, e := range entries {
		provisions = append(provisions, Provision{
			Identity: models.Identity{
				ID:           e.User.ID,
				Email:        e.User.Email,
				Name:         e.User.Name,
				Role:         e.User.Role,
				PasswordHash: e.User.PasswordHash,
			},
			Tenant: e.Tenant,
		})
	}
	return validateProvisions(provisions)
}

func validateProvisions(provisions []Provision) ([]Provision, error) {
	seen := make(map[string]bool, len(provisions))
	for i, p := range provisions {
		if p.Identity.ID == "" || p.Identity.Email == "" || p.Identity.PasswordHash == "" {
			return nil, fmt.Errorf("provision %d: identity id, email, and password hash are required", i)
		}
		if p.Identity.Role == "" {
			provisions[i].Identity.Role = models.RoleAdmin
		} else if !models.ValidRole(p.Identity.Role) {
			return nil, fmt.Errorf("provision %d: unknown role %q", i, p.Identity.Role)
		}
		if p.Tenant.ID == "" {
			return nil, fmt.Errorf("provision %d: tenant id is required", i)
		}
		if p.Tenant.Plan == "" {
			provisions[i].Tenant.Plan = models.PlanStarter
		} else if !models.ValidPlan(p.Tenant.Plan) {
			return nil, fmt.Errorf("provision %d: unknown plan %q", i, p.Tenant.Plan)
		}
		email := strings.ToLower(strings.TrimSpace(p.Identity.Email))
		if seen[email] {
			return nil, fmt.Errorf("provision %d: duplicate email %q", i, p.Identity.Email)
		}
		seen[email] = true
	}
	return provisions, nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
