package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func userParam(r *http.Request) (string, error) {
	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if userID == "" {
		return "", errBadRequest("userID is required")
	}
	return userID, nil
}

func (s *Server) getSaved(w http.ResponseWriter, r *http.Request) error {
	if s.saved == nil {
		return errNotConfigured("saved listings")
	}

	userID, err := userParam(r)
	if err != nil {
		return err
	}

	ids, err := s.saved.SavedListings(r.Context(), userID)
	if err != nil {
		return errStore(err, "could not load saved listings")
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"items": ids,
		"total": len(ids),
	})
	return nil
}

func (s *Server) putSaved(w http.ResponseWriter, r *http.Request) error {
	if s.saved == nil {
		return errNotConfigured("saved listings")
	}

	userID, err := userParam(r)
	if err != nil {
		return err
	}
	id, err := intParam(r, "listingID")
	if err != nil {
		return err
	}
	if s.listings.FindByID(id) == nil {
		return errNotFound("listing %d not found", id)
	}

	if err := s.saved.SaveListing(r.Context(), userID, strconv.Itoa(id)); err != nil {
		return errStore(err, "could not save listing")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) deleteSaved(w http.ResponseWriter, r *http.Request) error {
	if s.saved == nil {
		return errNotConfigured("saved listings")
	}

	userID, err := userParam(r)
	if err != nil {
		return err
	}
	id, err := intParam(r, "listingID")
	if err != nil {
		return err
	}

	if err := s.saved.UnsaveListing(r.Context(), userID, strconv.Itoa(id)); err != nil {
		return errStore(err, "could not remove saved listing")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// watchSaved streams saved-listings snapshots as server-sent events. One
// event per change, starting with the current snapshot, until the client
// disconnects.
func (s *Server) watchSaved(w http.ResponseWriter, r *http.Request) error {
	if s.saved == nil {
		return errNotConfigured("saved listings")
	}

	userID, err := userParam(r)
	if err != nil {
		return err
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("response writer does not support streaming")
	}

	snapshots, err := s.saved.WatchSaved(r.Context(), userID)
	if err != nil {
		return errStore(err, "could not watch saved listings")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for snapshot := range snapshots {
		payload, err := json.Marshal(snapshot)
		if err != nil {
			// Snapshot came from our own store; treat as corrupt and stop.
			return nil
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return nil
		}
		flusher.Flush()
	}

	return nil
}
