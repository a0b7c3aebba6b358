package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/shared"
)

const videoColumns = `id, title, description, instructor_name, duration_minutes, difficulty_level, category, thumbnail_url, video_url`

// VideoRepository keeps an offline copy of the catalog.
//
// Rows carry a position so List returns videos in the order the backend sent them.
type VideoRepository struct {
	db *sql.DB
}

// NewVideoRepository creates a new [VideoRepository] with the given database connection
func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// ReplaceAll swaps the cached catalog for videos in a single transaction.
// Invalid videos abort the swap and leave the previous cache intact.
func (r *VideoRepository) ReplaceAll(ctx context.Context, videos []models.Video) error {
	for _, v := range videos {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM videos"); err != nil {
			return fmt.Errorf("failed to clear video cache: %w", err)
		}

		query := `
			INSERT INTO videos (position, ` + videoColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		for i, v := range videos {
			_, err := tx.ExecContext(ctx, query,
				i,
				v.ID,
				v.Title,
				v.Description,
				v.InstructorName,
				v.DurationMinutes,
				string(v.Difficulty),
				v.Category,
				nullString(v.ThumbnailURL),
				nullString(v.VideoURL),
			)
			if err != nil {
				return fmt.Errorf("failed to cache video %s: %w", v.ID, err)
			}
		}
		return nil
	})
}

// List returns the cached catalog in backend order.
func (r *VideoRepository) List(ctx context.Context) ([]models.Video, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+videoColumns+" FROM videos ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to list cached videos: %w", err)
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// Get returns a cached video by id, or [shared.ErrVideoNotFound].
func (r *VideoRepository) Get(ctx context.Context, id string) (models.Video, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+videoColumns+" FROM videos WHERE id = ?", id)
	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Video{}, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, id)
	}
	return v, err
}

// Count returns the number of cached videos.
func (r *VideoRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM videos").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cached videos: %w", err)
	}
	return n, nil
}

// Clear empties the cache.
func (r *VideoRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM videos"); err != nil {
		return fmt.Errorf("failed to clear video cache: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(s scanner) (models.Video, error) {
	var (
		v          models.Video
		difficulty string
		thumbnail  sql.NullString
		videoURL   sql.NullString
	)
	err := s.Scan(&v.ID, &v.Title, &v.Description, &v.InstructorName, &v.DurationMinutes, &difficulty, &v.Category, &thumbnail, &videoURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Video{}, err
		}
		return models.Video{}, fmt.Errorf("failed to scan video: %w", err)
	}
	v.Difficulty = models.Difficulty(difficulty)
	v.ThumbnailURL = thumbnail.String
	v.VideoURL = videoURL.String
	return v, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
