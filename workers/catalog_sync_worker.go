// workers/catalog_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"movie-vote-system/logging"
	"movie-vote-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogSyncWorker mirrors the external movie catalog (genre list + popular
// pages) into the local movies/genres tables. Upserts are keyed by the
// catalog's external id, so re-running a sync is idempotent. The locally
// owned vote_count column is never part of the update set — a re-sync must
// not clobber our ledger-backed counter.
type CatalogSyncWorker struct {
	db         *gorm.DB
	baseURL    string
	apiKey     string
	pages      int
	httpClient *http.Client
}

func NewCatalogSyncWorker(db *gorm.DB, baseURL, apiKey string, pages int) *CatalogSyncWorker {
	if pages <= 0 {
		pages = 1
	}
	return &CatalogSyncWorker{
		db:      db,
		baseURL: baseURL,
		apiKey:  apiKey,
		pages:   pages,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type catalogGenreList struct {
	Genres []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

type catalogMoviePage struct {
	Page    int `json:"page"`
	Results []struct {
		ID           int64   `json:"id"`
		Title        string  `json:"title"`
		PosterPath   string  `json:"poster_path"`
		BackdropPath string  `json:"backdrop_path"`
		Overview     string  `json:"overview"`
		Popularity   float64 `json:"popularity"`
		VoteAverage  float64 `json:"vote_average"`
		ReleaseDate  string  `json:"release_date"` // "2006-01-02"
		GenreIDs     []int64 `json:"genre_ids"`
	} `json:"results"`
}

// Start runs an initial backfill and then re-syncs on the given interval
// until the context is cancelled.
func (w *CatalogSyncWorker) Start(ctx context.Context, interval time.Duration) {
	logging.Log.Info("🔁 Starting catalog sync worker (catalog → movies/genres)…")

	if err := w.SyncOnce(ctx); err != nil {
		logging.Log.Warnf("[CATALOG] initial sync failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.SyncOnce(ctx); err != nil {
				logging.Log.Errorf("[CATALOG] sync failed: %v", err)
			}
		case <-ctx.Done():
			logging.Log.Info("⏹️ Catalog sync worker stopped")
			return
		}
	}
}

// SyncOnce pulls the genre list and the configured number of popular pages.
func (w *CatalogSyncWorker) SyncOnce(ctx context.Context) error {
	if err := w.syncGenres(ctx); err != nil {
		return fmt.Errorf("genre sync: %w", err)
	}

	var total int
	for page := 1; page <= w.pages; page++ {
		n, err := w.syncPage(ctx, page)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}
		total += n
	}
	logging.Log.Infof("[CATALOG] ✅ synced %d movie(s) across %d page(s)", total, w.pages)
	return nil
}

func (w *CatalogSyncWorker) syncGenres(ctx context.Context) error {
	var list catalogGenreList
	if err := w.getJSON(ctx, "/genre/movie/list", nil, &list); err != nil {
		return err
	}

	for _, g := range list.Genres {
		genre := models.Genre{ID: g.ID, Name: g.Name}
		if err := w.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&genre).Error; err != nil {
			return err
		}
	}
	return nil
}

func (w *CatalogSyncWorker) syncPage(ctx context.Context, page int) (int, error) {
	var result catalogMoviePage
	params := url.Values{"page": []string{strconv.Itoa(page)}}
	if err := w.getJSON(ctx, "/movie/popular", params, &result); err != nil {
		return 0, err
	}

	var upserted int
	for _, r := range result.Results {
		// Catalog titles arrive in mixed Unicode forms (decomposed jamo for
		// Korean releases); normalize so lookups and slugs are stable.
		title := norm.NFC.String(r.Title)

		movie := models.Movie{
			ID:           uuid.NewString(),
			ExternalID:   r.ID,
			Title:        title,
			Slug:         slug.Make(title),
			PosterPath:   r.PosterPath,
			BackdropPath: r.BackdropPath,
			Overview:     r.Overview,
			Popularity:   r.Popularity,
			VoteAverage:  r.VoteAverage,
		}
		if r.ReleaseDate != "" {
			if rd, err := time.Parse("2006-01-02", r.ReleaseDate); err == nil {
				movie.ReleaseDate = &rd
			}
		}

		err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "slug", "poster_path", "backdrop_path", "overview",
				"popularity", "vote_average", "release_date", "updated_at",
			}),
		}).Create(&movie).Error
		if err != nil {
			logging.Log.Warnf("[CATALOG] ⚠️ upsert failed (external_id=%d, title=%q): %v", r.ID, title, err)
			continue
		}

		if len(r.GenreIDs) > 0 {
			var saved models.Movie
			if err := w.db.First(&saved, "external_id = ?", r.ID).Error; err == nil {
				genres := make([]models.Genre, 0, len(r.GenreIDs))
				for _, id := range r.GenreIDs {
					genres = append(genres, models.Genre{ID: id})
				}
				if err := w.db.Model(&saved).Association("Genres").Replace(genres); err != nil {
					logging.Log.Warnf("[CATALOG] ⚠️ genre link failed (external_id=%d): %v", r.ID, err)
				}
			}
		}
		upserted++
	}
	return upserted, nil
}

// getJSON fetches one catalog endpoint with simple attempt backoff; the
// catalog rate-limits aggressively, so transient failures are expected.
func (w *CatalogSyncWorker) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid catalog base URL %q: %w", w.baseURL, err)
	}
	endpoint := base.JoinPath(path)
	q := endpoint.Query()
	q.Set("api_key", w.apiKey)
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	endpoint.RawQuery = q.Encode()

	const maxAttempts = 3
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(time.Duration(attempt-1) * 2 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, "GET", endpoint.String(), nil)
		if err != nil {
			return err
		}

		resp, err := w.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("catalog returned %d: %s", resp.StatusCode, string(body))
			continue
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("decode catalog response: %w", err)
			continue
		}
		return nil
	}
	return fmt.Errorf("catalog request failed after %d attempts: %w", maxAttempts, lastErr)
}
