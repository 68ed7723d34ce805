package finding

import "fmt"

// Category is one of the six STRIDE threat categories.
type Category string

const (
	// CategorySpoofing indicates an attacker may impersonate the
	// component or its users.
	CategorySpoofing Category = "spoofing"

	// CategoryTampering indicates data in transit or at rest may be
	// modified.
	CategoryTampering Category = "tampering"

	// CategoryRepudiation indicates actions may be performed without
	// adequate audit records.
	CategoryRepudiation Category = "repudiation"

	// CategoryInformationDisclosure indicates sensitive data may be
	// exposed.
	CategoryInformationDisclosure Category = "information_disclosure"

	// CategoryDenialOfService indicates the component may be made
	// unavailable.
	CategoryDenialOfService Category = "denial_of_service"

	// CategoryElevationOfPrivilege indicates an attacker may gain
	// unauthorized access or permissions.
	CategoryElevationOfPrivilege Category = "elevation_of_privilege"
)

// IsValid returns true if the category is valid.
func (c Category) IsValid() bool {
	switch c {
	case CategorySpoofing,
		CategoryTampering,
		CategoryRepudiation,
		CategoryInformationDisclosure,
		CategoryDenialOfService,
		CategoryElevationOfPrivilege:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// DisplayName returns a human-readable display name for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategorySpoofing:
		return "Spoofing"
	case CategoryTampering:
		return "Tampering"
	case CategoryRepudiation:
		return "Repudiation"
	case CategoryInformationDisclosure:
		return "Information Disclosure"
	case CategoryDenialOfService:
		return "Denial of Service"
	case CategoryElevationOfPrivilege:
		return "Elevation of Privilege"
	default:
		return string(c)
	}
}

// Letter returns the single STRIDE letter for the category.
func (c Category) Letter() string {
	switch c {
	case CategorySpoofing:
		return "S"
	case CategoryTampering:
		return "T"
	case CategoryRepudiation:
		return "R"
	case CategoryInformationDisclosure:
		return "I"
	case CategoryDenialOfService:
		return "D"
	case CategoryElevationOfPrivilege:
		return "E"
	default:
		return "?"
	}
}

// ParseCategory parses a string into a Category value.
// Returns an error if the string is not a valid category.
func ParseCategory(s string) (Category, error) {
	category := Category(s)
	if !category.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return category, nil
}

// AllCategories returns all valid categories in STRIDE order.
func AllCategories() []Category {
	return []Category{
		CategorySpoofing,
		CategoryTampering,
		CategoryRepudiation,
		CategoryInformationDisclosure,
		CategoryDenialOfService,
		CategoryElevationOfPrivilege,
	}
}
