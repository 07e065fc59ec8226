package filtering

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/safestay/safestay/internal/catalog"
)

func testProfiles() []*catalog.Profile {
	return []*catalog.Profile{
		{ID: 1, Name: "Jessica", Year: "2nd Year", Branch: "Computer Science", Hobbies: []string{"Reading", "Yoga"}},
		{ID: 2, Name: "Priya", Year: "3rd Year", Branch: "Electronics", Hobbies: []string{"Music", "Badminton"}},
		{ID: 3, Name: "Mei", Year: "2nd Year", Branch: "Design", Hobbies: []string{"Painting", "Reading"}},
		{ID: 4, Name: "Fatima", Year: "1st Year", Branch: "Computer Science", Hobbies: []string{"Gaming"}},
	}
}

func runRoommateQuery(t *testing.T, q RoommateQuery) []*catalog.Profile {
	t.Helper()

	left, err := Run(context.Background(), zap.NewNop(), RoommateSteps(q), testProfiles())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return left
}

func assertProfileIDs(t *testing.T, got []*catalog.Profile, want ...int) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("expected %d profiles, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			ids := make([]int, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			t.Fatalf("expected ids %v, got %v", want, ids)
		}
	}
}

func TestProfileSearchMatchesNameOnly(t *testing.T) {
	assertProfileIDs(t, runRoommateQuery(t, RoommateQuery{Search: "pri"}), 2)

	// Branch labels are not searched.
	assertProfileIDs(t, runRoommateQuery(t, RoommateQuery{Search: "design"}))
}

func TestYearSentinels(t *testing.T) {
	assertProfileIDs(t, runRoommateQuery(t, RoommateQuery{Year: "any"}), 1, 2, 3, 4)
	assertProfileIDs(t, runRoommateQuery(t, RoommateQuery{Year: "all"}), 1, 2, 3, 4)
	assertProfileIDs(t, runRoommateQuery(t, RoommateQuery{Year: "2nd Year"}), 1, 3)
}

func TestBranchesAnyMatch(t *testing.T) {
	q := RoommateQuery{Branches: []string{"Design", "Electronics"}}
	assertProfileIDs(t, runRoommateQuery(t, q), 2, 3)
}

func TestHobbiesAnyMatch(t *testing.T) {
	// One shared hobby is enough.
	q := RoommateQuery{Hobbies: []string{"Reading", "Gaming"}}
	assertProfileIDs(t, runRoommateQuery(t, q), 1, 3, 4)
}

func TestEmptySelectionsKeepEverything(t *testing.T) {
	q := RoommateQuery{Branches: []string{}, Hobbies: []string{""}}
	assertProfileIDs(t, runRoommateQuery(t, q), 1, 2, 3, 4)
}

func TestRoommateDimensionsCombineWithAnd(t *testing.T) {
	q := RoommateQuery{
		Year:    "2nd Year",
		Hobbies: []string{"Reading"},
		Search:  "mei",
	}
	assertProfileIDs(t, runRoommateQuery(t, q), 3)
}
