package graph

import (
	"fmt"
	"strings"
)

// ComponentType classifies an architecture-diagram component.
// The enumeration is closed: labels that do not map to a known type are
// assigned TypeUnknown rather than rejected, so analysis stays total over
// arbitrary detector output.
type ComponentType string

const (
	// TypeServer is an application or web server.
	TypeServer ComponentType = "server"

	// TypeDatabase is a datastore of any kind.
	TypeDatabase ComponentType = "database"

	// TypeUser is a human actor or end-user client.
	TypeUser ComponentType = "user"

	// TypeLoadBalancer is a traffic-distribution component.
	TypeLoadBalancer ComponentType = "load_balancer"

	// TypeAPI is an API gateway or service API surface.
	TypeAPI ComponentType = "api"

	// TypeUnknown is the guaranteed fallback for unrecognized labels.
	TypeUnknown ComponentType = "unknown"
)

// IsValid returns true if the component type is valid.
func (t ComponentType) IsValid() bool {
	switch t {
	case TypeServer, TypeDatabase, TypeUser, TypeLoadBalancer, TypeAPI, TypeUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the component type.
func (t ComponentType) String() string {
	return string(t)
}

// DisplayName returns a human-readable display name for the component type.
func (t ComponentType) DisplayName() string {
	switch t {
	case TypeServer:
		return "Server"
	case TypeDatabase:
		return "Database"
	case TypeUser:
		return "User"
	case TypeLoadBalancer:
		return "Load Balancer"
	case TypeAPI:
		return "API"
	case TypeUnknown:
		return "Unknown"
	default:
		return string(t)
	}
}

// ParseComponentType parses a string into a ComponentType value.
// Returns an error if the string is not a valid component type.
func ParseComponentType(s string) (ComponentType, error) {
	t := ComponentType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid component type: %s", s)
	}
	return t, nil
}

// AllComponentTypes returns all valid component types.
func AllComponentTypes() []ComponentType {
	return []ComponentType{
		TypeServer,
		TypeDatabase,
		TypeUser,
		TypeLoadBalancer,
		TypeAPI,
		TypeUnknown,
	}
}

// labelAliases maps normalized detector labels to component types.
// Lookup is a table with a guaranteed default rather than a conditional
// chain, so new aliases are additions, not logic changes.
var labelAliases = map[string]ComponentType{
	"server":             TypeServer,
	"web server":         TypeServer,
	"webserver":          TypeServer,
	"app server":         TypeServer,
	"application server": TypeServer,
	"microservice":       TypeServer,
	"service":            TypeServer,

	"database":   TypeDatabase,
	"db":         TypeDatabase,
	"datastore":  TypeDatabase,
	"data store": TypeDatabase,
	"cache":      TypeDatabase,
	"storage":    TypeDatabase,

	"user":    TypeUser,
	"users":   TypeUser,
	"client":  TypeUser,
	"actor":   TypeUser,
	"browser": TypeUser,
	"mobile":  TypeUser,

	"load balancer": TypeLoadBalancer,
	"loadbalancer":  TypeLoadBalancer,
	"lb":            TypeLoadBalancer,

	"api":         TypeAPI,
	"api gateway": TypeAPI,
	"gateway":     TypeAPI,
	"rest api":    TypeAPI,
	"endpoint":    TypeAPI,
}

// MapLabel maps a raw detector label to a component type. Matching is
// case-insensitive on the trimmed label, with separators normalized to
// spaces. Unmapped labels become TypeUnknown, never an error.
func MapLabel(label string) ComponentType {
	key := strings.ToLower(strings.TrimSpace(label))
	key = strings.ReplaceAll(key, "_", " ")
	key = strings.ReplaceAll(key, "-", " ")

	if t, ok := labelAliases[key]; ok {
		return t
	}
	return TypeUnknown
}
