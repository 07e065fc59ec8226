package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

func savedKey(userID string) string {
	return keyPrefix + "saved:" + userID
}

func savedChannel(userID string) string {
	return keyPrefix + "saved:events:" + userID
}

// SaveListing adds the listing to the user's saved set and publishes the new
// snapshot to the user's change channel.
func (s *Store) SaveListing(ctx context.Context, userID, listingID string) error {
	if err := s.rdb.SAdd(ctx, savedKey(userID), listingID).Err(); err != nil {
		return fmt.Errorf("save listing: %w", err)
	}

	return s.publishSnapshot(ctx, userID)
}

// UnsaveListing removes the listing from the user's saved set and publishes
// the new snapshot.
func (s *Store) UnsaveListing(ctx context.Context, userID, listingID string) error {
	if err := s.rdb.SRem(ctx, savedKey(userID), listingID).Err(); err != nil {
		return fmt.Errorf("unsave listing: %w", err)
	}

	return s.publishSnapshot(ctx, userID)
}

// SavedListings returns the user's saved listing IDs, sorted for a stable
// presentation.
func (s *Store) SavedListings(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.rdb.SMembers(ctx, savedKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list saved listings: %w", err)
	}

	sort.Strings(ids)
	return ids, nil
}

// WatchSaved subscribes to the user's saved-listings changes. The returned
// channel first delivers the current snapshot, then one snapshot per change,
// and closes when ctx is done.
func (s *Store) WatchSaved(ctx context.Context, userID string) (<-chan []string, error) {
	initial, err := s.SavedListings(ctx, userID)
	if err != nil {
		return nil, err
	}

	pubsub := s.rdb.Subscribe(ctx, savedChannel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe to saved listings: %w", err)
	}

	snapshots := make(chan []string, 1)
	snapshots <- initial

	go func() {
		defer close(snapshots)
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}

				var snapshot []string
				if err := json.Unmarshal([]byte(msg.Payload), &snapshot); err != nil {
					s.logger.Warn("malformed saved-listings event",
						zap.String("user_id", userID),
						zap.Error(err),
					)
					continue
				}

				select {
				case snapshots <- snapshot:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return snapshots, nil
}

func (s *Store) publishSnapshot(ctx context.Context, userID string) error {
	snapshot, err := s.SavedListings(ctx, userID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal saved-listings snapshot: %w", err)
	}

	if err := s.rdb.Publish(ctx, savedChannel(userID), payload).Err(); err != nil {
		return fmt.Errorf("publish saved-listings snapshot: %w", err)
	}

	return nil
}
