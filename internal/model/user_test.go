package model

import "testing"

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"demo@example.com", "demo@example.com", false},
		{"  Demo@Example.COM ", "demo@example.com", false},
		{"", "", true},
		{"not-an-email", "", true},
		{"Demo <demo@example.com>", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeEmail(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeEmail(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	u := User{FirstName: "Jane", LastName: "Doe"}
	if got := u.DisplayName(); got != "Jane Doe" {
		t.Errorf("expected 'Jane Doe', got %q", got)
	}

	u = User{FirstName: "Jane"}
	if got := u.DisplayName(); got != "Jane" {
		t.Errorf("expected 'Jane', got %q", got)
	}
}

func TestEnumValidation(t *testing.T) {
	for _, s := range []string{GearStatusActive, GearStatusInactive, GearStatusInRepair, GearStatusBorrowed, GearStatusLentOut} {
		if !ValidGearStatus(s) {
			t.Errorf("expected %q to be a valid status", s)
		}
	}
	// Statuses are case-sensitive.
	if ValidGearStatus("active") {
		t.Error("expected lowercase status to be rejected")
	}
	if !ValidImageType(ImageTypeReceipt) || ValidImageType("thumbnail") {
		t.Error("image type validation mismatch")
	}
	if !ValidAccessLevel(AccessEdit) || ValidAccessLevel("admin") {
		t.Error("access level validation mismatch")
	}
	if !ValidFrequencyUnit("") || !ValidFrequencyUnit(FrequencyMonths) || ValidFrequencyUnit("hours") {
		t.Error("frequency unit validation mismatch")
	}
}

func TestGearItemValidate(t *testing.T) {
	rating := func(n int) *int { return &n }
	price := func(f float64) *float64 { return &f }

	valid := GearItem{Name: "Stratocaster", CategoryID: "c1", Status: GearStatusActive}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid item, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*GearItem)
	}{
		{"missing name", func(g *GearItem) { g.Name = "  " }},
		{"missing category", func(g *GearItem) { g.CategoryID = "" }},
		{"bad status", func(g *GearItem) { g.Status = "Sold" }},
		{"rating too low", func(g *GearItem) { g.ConditionRating = rating(0) }},
		{"rating too high", func(g *GearItem) { g.ConditionRating = rating(11) }},
		{"negative value", func(g *GearItem) { g.CurrentValue = price(-1) }},
	}

	for _, tt := range tests {
		item := valid
		tt.mutate(&item)
		if err := item.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
