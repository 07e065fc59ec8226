package server

import (
	"net/http"

	"github.com/safestay/safestay/internal/ai"
	"github.com/safestay/safestay/internal/catalog"
	"github.com/safestay/safestay/internal/filtering"
)

type roommatesResponse struct {
	Items  []*catalog.Profile `json:"items"`
	Total  int                `json:"total"`
	Facets roommateFacets     `json:"facets"`
}

type roommateFacets struct {
	Years    []string `json:"years"`
	Branches []string `json:"branches"`
	Hobbies  []string `json:"hobbies"`
}

func (s *Server) getRoommates(w http.ResponseWriter, r *http.Request) error {
	params := r.URL.Query()

	query := filtering.RoommateQuery{
		Search:   params.Get("search"),
		Year:     params.Get("year"),
		Branches: params["branch"],
		Hobbies:  params["hobby"],
	}

	filtered, err := filtering.Run(r.Context(), s.logger, filtering.RoommateSteps(query), s.profiles.Items)
	if err != nil {
		return errBadRequest("invalid roommate query: %v", err)
	}

	writeJSON(r.Context(), w, http.StatusOK, roommatesResponse{
		Items: filtered,
		Total: len(filtered),
		Facets: roommateFacets{
			Years:    s.profiles.Years(),
			Branches: s.profiles.Branches(),
			Hobbies:  s.profiles.Hobbies(),
		},
	})
	return nil
}

type matchRequest struct {
	Seeker       *catalog.Profile `json:"seeker" validate:"required"`
	CandidateIDs []int            `json:"candidateIds"`
}

type matchResponse struct {
	Recommendations []*ai.Recommendation `json:"recommendations"`
}

// postMatch ranks roommate candidates against the submitted seeker profile.
// With no explicit candidate list the whole catalog is ranked, minus the
// seeker's own profile when it names a catalog entry.
func (s *Server) postMatch(w http.ResponseWriter, r *http.Request) error {
	if s.ranker == nil {
		return errNotConfigured("roommate matching")
	}

	var req matchRequest
	if err := readBody(r, &req); err != nil {
		return err
	}
	if err := catalog.ValidateProfile(req.Seeker); err != nil {
		return errBadRequest("invalid seeker profile: %v", err)
	}

	candidates, err := s.matchCandidates(req)
	if err != nil {
		return err
	}

	ctx, cancel := s.aiContext(r.Context())
	defer cancel()

	recommendations, err := s.ranker.Rank(ctx, req.Seeker, candidates)
	if err != nil {
		return errUpstream(err, "roommate matching")
	}

	writeJSON(r.Context(), w, http.StatusOK, matchResponse{Recommendations: recommendations})
	return nil
}

func (s *Server) matchCandidates(req matchRequest) ([]*catalog.Profile, error) {
	if len(req.CandidateIDs) == 0 {
		candidates := make([]*catalog.Profile, 0, s.profiles.Len())
		for _, profile := range s.profiles.Items {
			if req.Seeker.ID != 0 && profile.ID == req.Seeker.ID {
				continue
			}
			candidates = append(candidates, profile)
		}
		if len(candidates) == 0 {
			return nil, errBadRequest("no roommate candidates available")
		}
		return candidates, nil
	}

	candidates := make([]*catalog.Profile, 0, len(req.CandidateIDs))
	for _, id := range req.CandidateIDs {
		profile := s.profiles.FindByID(id)
		if profile == nil {
			return nil, errBadRequest("unknown candidate id %d", id)
		}
		candidates = append(candidates, profile)
	}
	return candidates, nil
}
