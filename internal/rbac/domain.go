package rbac

// Role represents a high-level permission grouping provisioned at the identity provider.
type Role struct {
	Name        string
	Description string
	Permissions []string
}

// Permission represents an atomic capability carried in the token's permissions claim.
type Permission struct {
	Name        string
	Description string
}
