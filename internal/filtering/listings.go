package filtering

import (
	"strings"

	"github.com/safestay/safestay/internal/catalog"
)

// The "all" sentinel (or an empty value) means a dimension is inactive and
// must never exclude records.
const sentinelAll = "all"

// ListingQuery carries the active filter values for a listing search. Zero
// values and the "all" sentinel deactivate the corresponding dimension.
type ListingQuery struct {
	Search    string
	Budget    string
	Location  string
	RoomType  string
	MinSafety float64
}

// ListingSteps builds the full listing filter pipeline for the query. The
// step order mirrors the browse page: search first, then the narrower
// dimensions.
func ListingSteps(q ListingQuery) []Filter[*catalog.Listing] {
	return []Filter[*catalog.Listing]{
		NewListingSearch(q.Search),
		NewBudget(q.Budget),
		NewLocation(q.Location),
		NewRoomType(q.RoomType),
		NewMinSafety(q.MinSafety),
	}
}

// NewListingSearch matches a case-insensitive substring against the listing
// name or location.
func NewListingSearch(query string) Filter[*catalog.Listing] {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return passThrough[*catalog.Listing]("search", "empty query")
	}

	return &predicateFilter[*catalog.Listing]{
		name: "search",
		keep: func(l *catalog.Listing) bool {
			return strings.Contains(strings.ToLower(l.Name), query) ||
				strings.Contains(strings.ToLower(l.Location), query)
		},
	}
}

// NewBudget applies a parsed budget token to the listing price. A token that
// fails to parse deactivates the dimension instead of failing the pipeline.
func NewBudget(token string) Filter[*catalog.Listing] {
	token = strings.TrimSpace(token)
	if token == "" || strings.EqualFold(token, sentinelAll) {
		return passThrough[*catalog.Listing]("budget", "no budget selected")
	}

	keep, err := parseBudget(token)
	if err != nil {
		return passThrough[*catalog.Listing]("budget", err.Error())
	}

	return &predicateFilter[*catalog.Listing]{
		name: "budget",
		keep: func(l *catalog.Listing) bool { return keep(l.Price) },
	}
}

// NewLocation keeps listings whose location equals the selected one.
func NewLocation(location string) Filter[*catalog.Listing] {
	location = strings.TrimSpace(location)
	if location == "" || strings.EqualFold(location, sentinelAll) {
		return passThrough[*catalog.Listing]("location", "no location selected")
	}

	return &predicateFilter[*catalog.Listing]{
		name: "location",
		keep: func(l *catalog.Listing) bool { return l.Location == location },
	}
}

// NewRoomType keeps listings of the selected room category.
func NewRoomType(roomType string) Filter[*catalog.Listing] {
	roomType = strings.TrimSpace(roomType)
	if roomType == "" || strings.EqualFold(roomType, sentinelAll) {
		return passThrough[*catalog.Listing]("room_type", "no room type selected")
	}

	return &predicateFilter[*catalog.Listing]{
		name: "room_type",
		keep: func(l *catalog.Listing) bool { return string(l.Type) == roomType },
	}
}

// NewMinSafety keeps listings rated at or above the selected safety floor.
func NewMinSafety(min float64) Filter[*catalog.Listing] {
	if min <= 0 {
		return passThrough[*catalog.Listing]("min_safety", "no safety floor selected")
	}

	return &predicateFilter[*catalog.Listing]{
		name: "min_safety",
		keep: func(l *catalog.Listing) bool { return l.SafetyRating >= min },
	}
}
