package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

//go:embed data/listings.json
var listingsSeed []byte

//go:embed data/roommates.json
var roommatesSeed []byte

// LoadListings parses the embedded listing seed data and verifies its
// invariants. The result is treated as read-only for the process lifetime.
func LoadListings() (*Listings, error) {
	var items []*Listing
	if err := json.Unmarshal(listingsSeed, &items); err != nil {
		return nil, fmt.Errorf("parse listings seed: %w", err)
	}

	for _, listing := range items {
		if err := validateListing(listing); err != nil {
			return nil, fmt.Errorf("listing %d: %w", listing.ID, err)
		}
	}

	return &Listings{Items: items}, nil
}

// LoadProfiles parses the embedded roommate seed data and verifies its
// invariants.
func LoadProfiles() (*Profiles, error) {
	var items []*Profile
	if err := json.Unmarshal(roommatesSeed, &items); err != nil {
		return nil, fmt.Errorf("parse roommates seed: %w", err)
	}

	for _, profile := range items {
		if err := ValidateProfile(profile); err != nil {
			return nil, fmt.Errorf("profile %d: %w", profile.ID, err)
		}
	}

	return &Profiles{Items: items}, nil
}

func validateListing(l *Listing) error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if l.Price < 0 {
		return fmt.Errorf("price must be non-negative, got %d", l.Price)
	}
	if !lo.Contains(roomTypes, l.Type) {
		return fmt.Errorf("unknown room type %q", l.Type)
	}
	if l.SafetyRating < 0 || l.SafetyRating > 5 {
		return fmt.Errorf("safety rating must be within [0,5], got %g", l.SafetyRating)
	}
	if l.Landlord.Rating < 0 || l.Landlord.Rating > 5 {
		return fmt.Errorf("landlord rating must be within [0,5], got %g", l.Landlord.Rating)
	}
	for _, review := range l.Landlord.Reviews {
		if review.Rating < 0 || review.Rating > 5 {
			return fmt.Errorf("review %d rating must be within [0,5], got %g", review.ID, review.Rating)
		}
	}
	return nil
}

// ValidateProfile checks the invariants shared by catalog candidates and
// caller-supplied seeker profiles.
func ValidateProfile(p *Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.Age < 0 {
		return fmt.Errorf("age must be non-negative, got %d", p.Age)
	}
	return nil
}
