package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/xid"
	"go.uber.org/zap"
)

// ReportStatusNew is the status every freshly submitted report carries.
// Triage happens outside the service.
const ReportStatusNew = "new"

// Report is a user-submitted problem report about a listing.
type Report struct {
	ID          string    `json:"id"`
	ListingID   int       `json:"listingId"`
	IssueType   string    `json:"issueType"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func reportKey(id string) string {
	return keyPrefix + "report:" + id
}

func listingReportsKey(listingID int) string {
	return keyPrefix + "reports:listing:" + strconv.Itoa(listingID)
}

// SubmitReport stores a new report and indexes it under its listing. The
// report ID is generated here so submissions are unconditionally unique.
func (s *Store) SubmitReport(ctx context.Context, listingID int, issueType, description string) (*Report, error) {
	report := &Report{
		ID:          xid.New().String(),
		ListingID:   listingID,
		IssueType:   issueType,
		Description: description,
		Status:      ReportStatusNew,
		CreatedAt:   time.Now().UTC(),
	}

	fields := map[string]any{
		"listingId":   report.ListingID,
		"issueType":   report.IssueType,
		"description": report.Description,
		"status":      report.Status,
		"createdAt":   report.CreatedAt.Format(time.RFC3339Nano),
	}

	if err := s.rdb.HSet(ctx, reportKey(report.ID), fields).Err(); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}

	if err := s.rdb.SAdd(ctx, listingReportsKey(listingID), report.ID).Err(); err != nil {
		return nil, fmt.Errorf("index report: %w", err)
	}

	s.logger.Info("report submitted",
		zap.String("report_id", report.ID),
		zap.Int("listing_id", listingID),
		zap.String("issue_type", issueType),
	)

	return report, nil
}

// ReportsForListing returns every report filed against a listing, newest
// first. Dangling index entries are skipped.
func (s *Store) ReportsForListing(ctx context.Context, listingID int) ([]*Report, error) {
	ids, err := s.rdb.SMembers(ctx, listingReportsKey(listingID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	reports := make([]*Report, 0, len(ids))
	for _, id := range ids {
		fields, err := s.rdb.HGetAll(ctx, reportKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("load report %s: %w", id, err)
		}
		if len(fields) == 0 {
			continue
		}

		report, err := reportFromFields(id, fields)
		if err != nil {
			s.logger.Warn("skipping malformed report",
				zap.String("report_id", id),
				zap.Error(err),
			)
			continue
		}
		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})

	return reports, nil
}

func reportFromFields(id string, fields map[string]string) (*Report, error) {
	listingID, err := strconv.Atoi(fields["listingId"])
	if err != nil {
		return nil, fmt.Errorf("parse listing id: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields["createdAt"])
	if err != nil {
		return nil, fmt.Errorf("parse creation time: %w", err)
	}

	return &Report{
		ID:          id,
		ListingID:   listingID,
		IssueType:   fields["issueType"],
		Description: fields["description"],
		Status:      fields["status"],
		CreatedAt:   createdAt,
	}, nil
}
