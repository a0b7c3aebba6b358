package main

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/fitx/internal/formatter"
	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/shared"
	"github.com/desertthunder/fitx/internal/tasks"
)

// featuredLimit is the number of videos on the home page.
const featuredLimit = 6

// criteria builds the filter from --query, then lets the individual flags override it.
func criteria(cmd *cli.Command) (models.FilterCriteria, error) {
	var c models.FilterCriteria
	if q := cmd.String("query"); q != "" {
		values, err := url.ParseQuery(q)
		if err != nil {
			return c, fmt.Errorf("%w: --query: %v", shared.ErrInvalidFlag, err)
		}
		c = models.CriteriaFromQuery(values)
	}
	if v := cmd.String("category"); v != "" {
		c.Category = v
	}
	if v := cmd.String("difficulty"); v != "" {
		c.Difficulty = models.Difficulty(v)
	}
	if v := cmd.String("search"); v != "" {
		c.Search = v
	}

	d, err := models.ParseDifficulty(c.Difficulty.String())
	if err != nil {
		return c, fmt.Errorf("%w: %w", shared.ErrInvalidFlag, err)
	}
	c.Difficulty = d
	return c, nil
}

// loadVideos fetches the catalog, or reads the cached copy when offline.
func (r *Runner) loadVideos(ctx context.Context, limit int, offline bool) ([]models.Video, error) {
	if offline {
		if r.videos == nil {
			return nil, fmt.Errorf("%w: no local cache configured", shared.ErrServiceUnavailable)
		}
		videos, err := r.videos.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(videos) == 0 {
			r.logger.Warn("video cache is empty, run `fitx cache videos` first")
		}
		if limit > 0 && limit < len(videos) {
			videos = videos[:limit]
		}
		return videos, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.API.Timeout())
	defer cancel()

	r.logger.Debug("fetching videos", "limit", limit)
	videos, err := r.catalog.ListVideos(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load videos: %w", err)
	}
	return videos, nil
}

func (r *Runner) renderVideos(videos []models.Video, format string) error {
	f, err := formatter.ParseFormat(format)
	if err != nil {
		return err
	}
	data, err := formatter.RenderVideos(videos, f)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// VideosList prints the catalog narrowed by the filter flags.
func (r *Runner) VideosList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	c, err := criteria(cmd)
	if err != nil {
		return err
	}

	videos, err := r.loadVideos(ctx, int(cmd.Int("limit")), cmd.Bool("offline"))
	if err != nil {
		return err
	}

	r.app.SetVideos(videos)
	r.app.SetCriteria(c)
	visible := tasks.Apply(r.app.Videos(), r.app.Criteria())
	r.logger.Debug("filtered videos", "total", len(videos), "visible", len(visible))

	return r.renderVideos(visible, cmd.String("format"))
}

// VideosFeatured prints the first videos of the catalog.
func (r *Runner) VideosFeatured(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		limit = featuredLimit
	}
	videos, err := r.loadVideos(ctx, limit, false)
	if err != nil {
		return err
	}
	if len(videos) > limit {
		videos = videos[:limit]
	}
	return r.renderVideos(videos, cmd.String("format"))
}

func (r *Runner) getVideo(ctx context.Context, id string) (models.Video, error) {
	if id == "" {
		return models.Video{}, fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}
	ctx, cancel := context.WithTimeout(ctx, r.config.API.Timeout())
	defer cancel()
	return r.catalog.GetVideo(ctx, id)
}

// VideosShow prints one video and, when logged in, whether it is a favorite.
func (r *Runner) VideosShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	v, err := r.getVideo(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	flow := tasks.NewFavoriteFlow(r.catalog, r.app.Auth, v.ID, r.config.API.Timeout())
	favorited, checkErr := flow.Check(ctx)
	if checkErr != nil {
		r.logger.Warn("could not check favorite status", "video", v.ID, "error", checkErr)
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			models.Video
			Favorited bool `json:"favorited"`
		}{v, favorited}, true)
	}

	r.writePlainHeader(v.Title)
	r.writePlain("ID: %s\n", v.ID)
	r.writePlain("Instructor: %s\n", v.InstructorName)
	r.writePlain("Category: %s\n", v.Category)
	r.writePlain("Difficulty: %s\n", v.Difficulty)
	r.writePlain("Duration: %s\n", shared.FormatMinutes(v.DurationMinutes))
	if v.VideoURL != "" {
		r.writePlain("URL: %s\n", v.VideoURL)
	}
	switch {
	case !r.app.Auth.IsLoggedIn():
		r.writePlain("Favorite: log in to use favorites\n")
	case flow.State() == tasks.Favorited:
		r.writePlain("Favorite: ★ yes\n")
	case flow.State() == tasks.NotFavorited:
		r.writePlain("Favorite: ☆ no\n")
	case checkErr != nil:
		r.writePlain("Favorite: unknown (%v)\n", checkErr)
	default:
		r.writePlain("Favorite: unknown\n")
	}
	if v.Description != "" {
		r.writePlainln("%s", v.Description)
	}
	return nil
}

// VideosOpen opens the video's playback URL in the default browser.
func (r *Runner) VideosOpen(ctx context.Context, cmd *cli.Command) error {
	v, err := r.getVideo(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	if v.VideoURL == "" {
		return fmt.Errorf("%w: video %s has no playback URL", shared.ErrInvalidInput, v.ID)
	}
	r.logger.Info("opening video", "id", v.ID, "url", v.VideoURL)
	if err := r.openURL(v.VideoURL); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return r.writePlain("Opened %s\n", v.VideoURL)
}

// VideosFavorite toggles (or with --check reports) the favorite status of a video.
func (r *Runner) VideosFavorite(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	flow := tasks.NewFavoriteFlow(r.catalog, r.app.Auth, id, r.config.API.Timeout())

	if cmd.Bool("check") {
		favorited, err := flow.Check(ctx)
		if err != nil {
			return err
		}
		if favorited {
			return r.writePlain("★ %s is a favorite\n", id)
		}
		return r.writePlain("☆ %s is not a favorite\n", id)
	}

	favorited, err := flow.Toggle(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("favorite toggled", "video", id, "favorited", favorited)
	if favorited {
		return r.writePlain("★ Added %s to favorites\n", id)
	}
	return r.writePlain("☆ Removed %s from favorites\n", id)
}

// VideosFavorites lists the session user's favorite videos.
func (r *Runner) VideosFavorites(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	s, err := r.app.Auth.Require()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.API.Timeout())
	defer cancel()

	favs, err := r.catalog.ListFavoriteVideos(ctx, s)
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	videos := make([]models.Video, 0, len(favs))
	for _, f := range favs {
		v := f.Video
		if v.ID == "" {
			v.ID = f.VideoID
		}
		videos = append(videos, v)
	}
	return r.renderVideos(videos, cmd.String("format"))
}

// VideosExport writes the filtered catalog to a file, or a directory for markdown.
func (r *Runner) VideosExport(ctx context.Context, cmd *cli.Command) error {
	c, err := criteria(cmd)
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	videos, err := r.loadVideos(ctx, 0, false)
	if err != nil {
		return err
	}
	videos = tasks.Apply(videos, c)

	output := cmd.String("output")
	if format == formatter.FormatMarkdown {
		if output == "" {
			output = "videos_export"
		}
		client := r.httpClient
		if !cmd.Bool("thumbnails") {
			client = nil
		}
		warn := func(id string, err error) {
			r.logger.Warn("thumbnail download failed", "video", id, "error", err)
		}
		result, err := formatter.WriteVideoMarkdownExport(ctx, client, videos, output, warn)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d videos to %s (%d files)\n", len(videos), result.Directory, len(result.Files))
	}

	if output == "" {
		output = "videos." + format
	}
	data, err := formatter.RenderVideos(videos, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return r.writePlain("✓ Exported %d videos to %s\n", len(videos), output)
}
