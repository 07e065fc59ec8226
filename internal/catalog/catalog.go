package catalog

import (
	"sort"

	"github.com/samber/lo"
)

// RoomType is the fixed room category tag carried by every listing.
type RoomType string

const (
	RoomType1RK  RoomType = "1RK"
	RoomType1BHK RoomType = "1BHK"
	RoomType2BHK RoomType = "2BHK"
	RoomTypePG   RoomType = "PG"
)

// roomTypes holds every recognized category for validation on load.
var roomTypes = []RoomType{RoomType1RK, RoomType1BHK, RoomType2BHK, RoomTypePG}

// Review is a single tenant review attached to a landlord.
type Review struct {
	ID         int     `json:"id"`
	Author     string  `json:"author"`
	Rating     float64 `json:"rating"`
	Comment    string  `json:"comment"`
	IsVerified bool    `json:"isVerified"`
}

// Landlord aggregates the owner's display name, rating and review history.
type Landlord struct {
	Name    string   `json:"name"`
	Rating  float64  `json:"rating"`
	Reviews []Review `json:"reviews"`
}

// Listing is a rentable property record. Listings are immutable and loaded
// once from the embedded seed data.
type Listing struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Price        int      `json:"price"`
	Type         RoomType `json:"type"`
	Amenities    []string `json:"amenities"`
	Highlights   []string `json:"highlights"`
	Tags         []string `json:"tags"`
	IsFeatured   bool     `json:"isFeatured"`
	Images       []string `json:"images"`
	SafetyRating float64  `json:"safetyRating"`
	Landlord     Landlord `json:"landlord"`
}

// Profile describes a roommate candidate, and doubles as the seeker profile
// submitted to the compatibility ranking flow.
type Profile struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Age          int      `json:"age"`
	Year         string   `json:"year"`
	Branch       string   `json:"branch"`
	Hobbies      []string `json:"hobbies"`
	Personality  string   `json:"personality"`
	SocialHabits string   `json:"socialHabits"`
}

type Listings struct {
	Items []*Listing
}

func (l *Listings) Len() int { return len(l.Items) }

func (l *Listings) FindByID(id int) *Listing {
	for _, listing := range l.Items {
		if listing.ID == id {
			return listing
		}
	}
	return nil
}

// Featured returns the listings flagged for the landing page, in catalog order.
func (l *Listings) Featured() []*Listing {
	return lo.Filter(l.Items, func(item *Listing, _ int) bool {
		return item.IsFeatured
	})
}

// Locations returns the distinct listing locations in first-seen order.
func (l *Listings) Locations() []string {
	return lo.Uniq(lo.Map(l.Items, func(item *Listing, _ int) string {
		return item.Location
	}))
}

type Profiles struct {
	Items []*Profile
}

func (p *Profiles) Len() int { return len(p.Items) }

func (p *Profiles) FindByID(id int) *Profile {
	for _, profile := range p.Items {
		if profile.ID == id {
			return profile
		}
	}
	return nil
}

// Branches returns the distinct branch labels in first-seen order.
func (p *Profiles) Branches() []string {
	return lo.Uniq(lo.Map(p.Items, func(item *Profile, _ int) string {
		return item.Branch
	}))
}

// Years returns the distinct year-of-study labels, sorted.
func (p *Profiles) Years() []string {
	years := lo.Uniq(lo.Map(p.Items, func(item *Profile, _ int) string {
		return item.Year
	}))
	sort.Strings(years)
	return years
}

// Hobbies returns every distinct hobby label across all profiles,
// in first-seen order.
func (p *Profiles) Hobbies() []string {
	return lo.Uniq(lo.FlatMap(p.Items, func(item *Profile, _ int) []string {
		return item.Hobbies
	}))
}
