package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/atendo/backend/internal/config"
	"github.com/atendo/backend/internal/models"
)

// dummyHash is compared against when the email is unknown so that the
// unknown-email path costs a bcrypt round just like a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// entry is the resolved identity/tenant pair for one provisioned login.
type entry struct {
	identity models.Identity
	tenant   models.Tenant
}

// CredentialStore resolves emails to provisioned identities and checks
// passwords. It is built once at startup and read-only afterwards.
type CredentialStore struct {
	byEmail map[string]entry
}

// NewCredentialStore indexes the provisioned identities by normalized email.
func NewCredentialStore(provisions []config.Provision) *CredentialStore {
	byEmail := make(map[string]entry, len(provisions))
	for _, p := range provisions {
		byEmail[normalizeEmail(p.Identity.Email)] = entry{identity: p.Identity, tenant: p.Tenant}
	}
	return &CredentialStore{byEmail: byEmail}
}

// FindByEmail looks up an identity and its tenant. Absence is a normal
// outcome; callers must treat it the same as a failed password check.
func (s *CredentialStore) FindByEmail(email string) (models.Identity, models.Tenant, bool) {
	e, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return models.Identity{}, models.Tenant{}, false
	}
	return e.identity, e.tenant, true
}

// FindByID looks up an identity by its id, used when resolving a verified
// token back to its provisioned identity.
func (s *CredentialStore) FindByID(id string) (models.Identity, models.Tenant, bool) {
	for _, e := range s.byEmail {
		if e.identity.ID == id {
			return e.identity, e.tenant, true
		}
	}
	return models.Identity{}, models.Tenant{}, false
}

// Authenticate confirms the password for the given email. Unknown emails and
// wrong passwords are indistinguishable in both result and cost: the unknown
// path still runs a full bcrypt comparison against a dummy hash.
func (s *CredentialStore) Authenticate(email, password string) (models.Identity, models.Tenant, bool) {
	e, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return models.Identity{}, models.Tenant{}, false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(e.identity.PasswordHash), []byte(password)); err != nil {
		return models.Identity{}, models.Tenant{}, false
	}
	return e.identity, e.tenant, true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
