package models

// Roles assignable to an identity. Provisioning data outside this set is
// rejected at startup.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Plan tiers a tenant can be provisioned with.
const (
	PlanStarter    = "starter"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Identity is an authenticatable principal. The password hash never leaves
// the credential store and is excluded from JSON output.
type Identity struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
}

// Tenant is the isolation boundary that scopes record access.
type Tenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Plan string `json:"plan"`
}

// ValidRole reports whether role is a known identity role.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleViewer
}

// ValidPlan reports whether plan is a known tenant plan tier.
func ValidPlan(plan string) bool {
	return plan == PlanStarter || plan == PlanPro || plan == PlanEnterprise
}
