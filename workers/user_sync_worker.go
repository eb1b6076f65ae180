// workers/user_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"movie-vote-system/logging"
	"movie-vote-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// remoteUser matches the JSON the auth service exposes for mirroring.
type remoteUser struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type userChangesResponse struct {
	Users []remoteUser `json:"users"`
}

// UserSyncWorker keeps the local users mirror fresh so vote admission can
// existence-check without a network hop. Incremental pulls use the newest
// local updated_at as the cursor.
type UserSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	serviceToken string
	httpClient   *http.Client
}

func NewUserSyncWorker(db *gorm.DB, baseURL, serviceToken string) *UserSyncWorker {
	return &UserSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      baseURL,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *UserSyncWorker) Start(ctx context.Context) {
	logging.Log.Info("🔁 Starting user sync worker (auth service → users)…")

	// Backfill from the beginning of time, then go incremental.
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		logging.Log.Warnf("[USER_SYNC] initial sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.lastSyncTime()); err != nil {
				logging.Log.Errorf("[USER_SYNC] sync batch failed: %v", err)
			}
		case <-ctx.Done():
			logging.Log.Info("⏹️ User sync worker stopped")
			return
		}
	}
}

func (w *UserSyncWorker) lastSyncTime() time.Time {
	var last time.Time
	err := w.db.Model(&models.User{}).Select("MAX(updated_at)").Scan(&last).Error
	if err != nil || last.IsZero() {
		return time.Unix(0, 0)
	}
	return last
}

func (w *UserSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid user sync base URL %q: %w", w.baseURL, err)
	}
	endpoint := base.JoinPath("/api/v1/public/profiles")
	q := endpoint.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("user sync request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("user sync non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var changes userChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&changes); err != nil {
		return fmt.Errorf("decode user sync response: %w", err)
	}
	if len(changes.Users) == 0 {
		return nil
	}

	var upserted int
	for _, remote := range changes.Users {
		user := models.User{
			ID:                remote.ID,
			Username:          remote.Username,
			Email:             remote.Email,
			ProfilePictureURL: remote.ProfilePictureURL,
			CreatedAt:         remote.CreatedAt,
			UpdatedAt:         remote.UpdatedAt,
		}
		err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "email", "profile_picture_url", "updated_at",
			}),
		}).Create(&user).Error
		if err != nil {
			logging.Log.Warnf("[USER_SYNC] ⚠️ upsert failed (id=%q): %v", remote.ID, err)
			continue
		}
		upserted++
	}

	logging.Log.Infof("[USER_SYNC] ✅ synced %d user(s), %d upserted", len(changes.Users), upserted)
	return nil
}
