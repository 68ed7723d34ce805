package finding

import "testing"

func TestCategory_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		want     bool
	}{
		{"spoofing is valid", CategorySpoofing, true},
		{"tampering is valid", CategoryTampering, true},
		{"repudiation is valid", CategoryRepudiation, true},
		{"information_disclosure is valid", CategoryInformationDisclosure, true},
		{"denial_of_service is valid", CategoryDenialOfService, true},
		{"elevation_of_privilege is valid", CategoryElevationOfPrivilege, true},
		{"empty is invalid", Category(""), false},
		{"unknown is invalid", Category("phishing"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.category.IsValid(); got != tt.want {
				t.Errorf("Category.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategory_Letter(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		want     string
	}{
		{"spoofing letter", CategorySpoofing, "S"},
		{"tampering letter", CategoryTampering, "T"},
		{"repudiation letter", CategoryRepudiation, "R"},
		{"information disclosure letter", CategoryInformationDisclosure, "I"},
		{"denial of service letter", CategoryDenialOfService, "D"},
		{"elevation of privilege letter", CategoryElevationOfPrivilege, "E"},
		{"invalid letter", Category("bogus"), "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.category.Letter(); got != tt.want {
				t.Errorf("Category.Letter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	if _, err := ParseCategory("spoofing"); err != nil {
		t.Errorf("ParseCategory(spoofing) error = %v", err)
	}
	if _, err := ParseCategory("Spoofing"); err == nil {
		t.Error("ParseCategory(Spoofing) should fail, categories are lowercase")
	}
	if _, err := ParseCategory(""); err == nil {
		t.Error("ParseCategory(empty) should fail")
	}
}

func TestAllCategories_STRIDEOrder(t *testing.T) {
	categories := AllCategories()
	if len(categories) != 6 {
		t.Fatalf("len(AllCategories()) = %d, want 6", len(categories))
	}

	letters := ""
	for _, c := range categories {
		letters += c.Letter()
	}
	if letters != "STRIDE" {
		t.Errorf("AllCategories() letters = %q, want STRIDE", letters)
	}
}
