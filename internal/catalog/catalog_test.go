package catalog

import (
	"testing"
)

func TestLoadListings(t *testing.T) {
	listings, err := LoadListings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if listings.Len() == 0 {
		t.Fatal("expected seed listings to be present")
	}

	seen := make(map[int]bool, listings.Len())
	for _, listing := range listings.Items {
		if seen[listing.ID] {
			t.Fatalf("duplicate listing id %d", listing.ID)
		}
		seen[listing.ID] = true
	}
}

func TestLoadProfiles(t *testing.T) {
	profiles, err := LoadProfiles()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profiles.Len() == 0 {
		t.Fatal("expected seed profiles to be present")
	}

	for _, profile := range profiles.Items {
		if len(profile.Hobbies) == 0 {
			t.Fatalf("profile %d has no hobbies", profile.ID)
		}
	}
}

func TestFindByID(t *testing.T) {
	listings, err := LoadListings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := listings.Items[0]
	if got := listings.FindByID(first.ID); got != first {
		t.Fatalf("expected to find listing %d", first.ID)
	}

	if got := listings.FindByID(-1); got != nil {
		t.Fatalf("expected nil for unknown id, got %+v", got)
	}
}

func TestFeatured(t *testing.T) {
	listings := &Listings{Items: []*Listing{
		{ID: 1, IsFeatured: true},
		{ID: 2},
		{ID: 3, IsFeatured: true},
	}}

	featured := listings.Featured()
	if len(featured) != 2 || featured[0].ID != 1 || featured[1].ID != 3 {
		t.Fatalf("unexpected featured set: %+v", featured)
	}
}

func TestLocationsAreDistinct(t *testing.T) {
	listings := &Listings{Items: []*Listing{
		{Location: "North Campus"},
		{Location: "Midtown"},
		{Location: "North Campus"},
	}}

	locations := listings.Locations()
	if len(locations) != 2 || locations[0] != "North Campus" || locations[1] != "Midtown" {
		t.Fatalf("unexpected locations: %v", locations)
	}
}

func TestProfileFacets(t *testing.T) {
	profiles := &Profiles{Items: []*Profile{
		{Year: "3rd Year", Branch: "Design", Hobbies: []string{"Music", "Reading"}},
		{Year: "1st Year", Branch: "Design", Hobbies: []string{"Reading"}},
	}}

	years := profiles.Years()
	if len(years) != 2 || years[0] != "1st Year" || years[1] != "3rd Year" {
		t.Fatalf("expected sorted years, got %v", years)
	}

	if branches := profiles.Branches(); len(branches) != 1 || branches[0] != "Design" {
		t.Fatalf("unexpected branches: %v", branches)
	}

	hobbies := profiles.Hobbies()
	if len(hobbies) != 2 || hobbies[0] != "Music" || hobbies[1] != "Reading" {
		t.Fatalf("unexpected hobbies: %v", hobbies)
	}
}

func TestValidateListingRejectsBadRatings(t *testing.T) {
	listing := &Listing{ID: 1, Name: "Test", Type: RoomType1RK, SafetyRating: 5.5}
	if err := validateListing(listing); err == nil {
		t.Fatal("expected error for out-of-range safety rating")
	}

	listing.SafetyRating = 4.0
	listing.Type = "LOFT"
	if err := validateListing(listing); err == nil {
		t.Fatal("expected error for unknown room type")
	}
}

func TestValidateProfile(t *testing.T) {
	if err := ValidateProfile(&Profile{Name: " ", Age: 20}); err == nil {
		t.Fatal("expected error for blank name")
	}

	if err := ValidateProfile(&Profile{Name: "Priya", Age: -1}); err == nil {
		t.Fatal("expected error for negative age")
	}

	if err := ValidateProfile(&Profile{Name: "Priya", Age: 20}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
