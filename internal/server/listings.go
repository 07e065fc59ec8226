package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/safestay/safestay/internal/ai"
	"github.com/safestay/safestay/internal/catalog"
	"github.com/safestay/safestay/internal/filtering"
)

type listingsResponse struct {
	Items     []*catalog.Listing `json:"items"`
	Total     int                `json:"total"`
	Locations []string           `json:"locations"`
}

func (s *Server) getListings(w http.ResponseWriter, r *http.Request) error {
	params := r.URL.Query()

	query := filtering.ListingQuery{
		Search:   params.Get("search"),
		Budget:   params.Get("budget"),
		Location: params.Get("location"),
		RoomType: params.Get("type"),
	}

	if raw := params.Get("min_safety"); raw != "" {
		minSafety, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errBadRequest("min_safety must be a number, got %q", raw)
		}
		query.MinSafety = minSafety
	}

	items := s.listings.Items
	if params.Get("featured") == "true" {
		items = s.listings.Featured()
	}

	filtered, err := filtering.Run(r.Context(), s.logger, filtering.ListingSteps(query), items)
	if err != nil {
		return errBadRequest("invalid listing query: %v", err)
	}

	writeJSON(r.Context(), w, http.StatusOK, listingsResponse{
		Items:     filtered,
		Total:     len(filtered),
		Locations: s.listings.Locations(),
	})
	return nil
}

func (s *Server) getListing(w http.ResponseWriter, r *http.Request) error {
	id, err := intParam(r, "id")
	if err != nil {
		return err
	}

	listing := s.listings.FindByID(id)
	if listing == nil {
		return errNotFound("listing %d not found", id)
	}

	writeJSON(r.Context(), w, http.StatusOK, listing)
	return nil
}

type summaryResponse struct {
	ListingID int    `json:"listingId"`
	Summary   string `json:"summary"`
}

func (s *Server) postReviewSummary(w http.ResponseWriter, r *http.Request) error {
	if s.summarizer == nil {
		return errNotConfigured("review summarization")
	}

	id, err := intParam(r, "id")
	if err != nil {
		return err
	}

	listing := s.listings.FindByID(id)
	if listing == nil {
		return errNotFound("listing %d not found", id)
	}

	ctx, cancel := s.aiContext(r.Context())
	defer cancel()

	summary, err := s.summarizer.Summarize(ctx, reviewText(listing))
	if err != nil {
		if errors.Is(err, ai.ErrNoReviewContent) {
			return errBadRequest("listing %d has no reviews to summarize", id)
		}
		return errUpstream(err, "review summarization")
	}

	writeJSON(r.Context(), w, http.StatusOK, summaryResponse{
		ListingID: id,
		Summary:   summary,
	})
	return nil
}

// reviewText flattens a listing's reviews into the text block handed to the
// summarizer. Blank comments are dropped.
func reviewText(listing *catalog.Listing) string {
	comments := lo.FilterMap(listing.Landlord.Reviews, func(review catalog.Review, _ int) (string, bool) {
		comment := strings.TrimSpace(review.Comment)
		return comment, comment != ""
	})
	return strings.Join(comments, "\n\n")
}

type reportRequest struct {
	IssueType   string `json:"issueType" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (s *Server) postReport(w http.ResponseWriter, r *http.Request) error {
	if s.reports == nil {
		return errNotConfigured("listing reports")
	}

	id, err := intParam(r, "id")
	if err != nil {
		return err
	}
	if s.listings.FindByID(id) == nil {
		return errNotFound("listing %d not found", id)
	}

	var req reportRequest
	if err := readBody(r, &req); err != nil {
		return err
	}

	report, err := s.reports.SubmitReport(r.Context(), id, req.IssueType, req.Description)
	if err != nil {
		return errStore(err, "could not store report")
	}

	writeJSON(r.Context(), w, http.StatusCreated, report)
	return nil
}

func (s *Server) getReports(w http.ResponseWriter, r *http.Request) error {
	if s.reports == nil {
		return errNotConfigured("listing reports")
	}

	id, err := intParam(r, "id")
	if err != nil {
		return err
	}
	if s.listings.FindByID(id) == nil {
		return errNotFound("listing %d not found", id)
	}

	reports, err := s.reports.ReportsForListing(r.Context(), id)
	if err != nil {
		return errStore(err, "could not load reports")
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"items": reports,
		"total": len(reports),
	})
	return nil
}
