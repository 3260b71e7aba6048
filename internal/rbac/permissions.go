package rbac

import (
	"slices"
	"strings"
)

// Permission names.
const (
	PermGetActors    = "get:actors"
	PermPostActors   = "post:actors"
	PermPatchActors  = "patch:actors"
	PermDeleteActors = "delete:actors"
	PermGetMovies    = "get:movies"
	PermPostMovies   = "post:movies"
	PermPatchMovies  = "patch:movies"
	PermDeleteMovies = "delete:movies"
)

// Role names.
const (
	RoleAssistant = "assistant"
	RoleDirector  = "director"
)

var permissions = []Permission{
	{Name: PermGetActors, Description: "List and view actors"},
	{Name: PermPostActors, Description: "Create actors"},
	{Name: PermPatchActors, Description: "Update actors"},
	{Name: PermDeleteActors, Description: "Delete actors"},
	{Name: PermGetMovies, Description: "List and view movies"},
	{Name: PermPostMovies, Description: "Create movies"},
	{Name: PermPatchMovies, Description: "Update movies"},
	{Name: PermDeleteMovies, Description: "Delete movies"},
}

var roles = []Role{
	{
		Name:        RoleAssistant,
		Description: "Can view actors and movies",
		Permissions: []string{PermGetActors, PermGetMovies},
	},
	{
		Name:        RoleDirector,
		Description: "Full control over actors and movies",
		Permissions: []string{
			PermGetActors, PermPostActors, PermPatchActors, PermDeleteActors,
			PermGetMovies, PermPostMovies, PermPatchMovies, PermDeleteMovies,
		},
	},
}

// Permissions returns the permission catalogue.
func Permissions() []Permission {
	return slices.Clone(permissions)
}

// Roles returns the role definitions.
func Roles() []Role {
	out := make([]Role, len(roles))
	for i, r := range roles {
		r.Permissions = slices.Clone(r.Permissions)
		out[i] = r
	}
	return out
}

// PermissionsFor returns the permissions granted to the named role.
func PermissionsFor(role string) ([]string, bool) {
	role = strings.TrimSpace(strings.ToLower(role))
	for _, r := range roles {
		if r.Name == role {
			return slices.Clone(r.Permissions), true
		}
	}
	return nil, false
}
