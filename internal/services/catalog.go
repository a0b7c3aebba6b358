package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/shared"
)

// Catalog is the backend surface the client consumes.
//
// Calls that act on behalf of a user take the [models.Session] explicitly and fail with
// [shared.ErrAuthRequired] before any request when it is empty.
type Catalog interface {
	ListVideos(ctx context.Context, limit int) ([]models.Video, error)
	GetVideo(ctx context.Context, id string) (models.Video, error)
	ListExercises(ctx context.Context) ([]models.Exercise, error)

	ListWorkouts(ctx context.Context, s models.Session) ([]models.Workout, error)
	GetWorkout(ctx context.Context, s models.Session, id string) (models.Workout, error)
	CreateWorkout(ctx context.Context, s models.Session, w models.Workout) (models.Workout, error)
	UpdateWorkout(ctx context.Context, s models.Session, w models.Workout) (models.Workout, error)
	DeleteWorkout(ctx context.Context, s models.Session, id string) error
	AddWorkoutExercise(ctx context.Context, s models.Session, workoutID string, we models.WorkoutExercise) (models.WorkoutExercise, error)
	RemoveWorkoutExercise(ctx context.Context, s models.Session, workoutID, workoutExerciseID string) error

	ListFavorites(ctx context.Context, s models.Session) (models.FavoriteSet, error)
	ListFavoriteVideos(ctx context.Context, s models.Session) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, s models.Session, videoID string) error
	RemoveFavorite(ctx context.Context, s models.Session, videoID string) error

	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	UpdateProfile(ctx context.Context, s models.Session, p models.Profile) (models.Profile, error)

	Login(ctx context.Context, creds models.Credentials) (models.Session, error)
	Signup(ctx context.Context, req models.SignupRequest) (string, error)
}

// CatalogClient implements [Catalog] over HTTP.
type CatalogClient struct {
	api        *APIService
	headerMode string
}

var _ Catalog = (*CatalogClient)(nil)

// NewCatalogClient creates a client sending identity headers in headerMode.
func NewCatalogClient(api *APIService, headerMode string) *CatalogClient {
	if headerMode == "" {
		headerMode = shared.AuthHeaderUserID
	}
	return &CatalogClient{api: api, headerMode: headerMode}
}

// call sends in as JSON (when non-nil) and decodes a 2xx body into out (when non-nil).
func (c *CatalogClient) call(ctx context.Context, method, path string, s *models.Session, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	var header http.Header
	if s != nil {
		if !s.Valid() {
			return shared.ErrAuthRequired
		}
		header = AuthHeaders(c.headerMode, *s)
	}

	resp, err := c.api.Do(ctx, method, path, body, header)
	if err != nil {
		return err
	}
	if err := resp.Err(method, path); err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// notFound rewraps a 404 under sentinel so callers can match either.
func notFound(err, sentinel error) error {
	if shared.RemoteStatus(err) == http.StatusNotFound {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

// ListVideos fetches the catalog. limit > 0 asks for at most that many.
func (c *CatalogClient) ListVideos(ctx context.Context, limit int) ([]models.Video, error) {
	path := "/videos"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	videos := []models.Video{}
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &videos); err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return videos, nil
}

func (c *CatalogClient) GetVideo(ctx context.Context, id string) (models.Video, error) {
	var v models.Video
	if err := c.call(ctx, http.MethodGet, "/videos/"+url.PathEscape(id), nil, nil, &v); err != nil {
		return models.Video{}, notFound(err, shared.ErrVideoNotFound)
	}
	return v, nil
}

func (c *CatalogClient) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	var exercises []models.Exercise
	if err := c.call(ctx, http.MethodGet, "/exercises", nil, nil, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (c *CatalogClient) ListWorkouts(ctx context.Context, s models.Session) ([]models.Workout, error) {
	var workouts []models.Workout
	if err := c.call(ctx, http.MethodGet, "/workouts", &s, nil, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// GetWorkout fetches a workout with its exercises in order.
func (c *CatalogClient) GetWorkout(ctx context.Context, s models.Session, id string) (models.Workout, error) {
	var w models.Workout
	if err := c.call(ctx, http.MethodGet, "/workouts/"+url.PathEscape(id), &s, nil, &w); err != nil {
		return models.Workout{}, notFound(err, shared.ErrWorkoutNotFound)
	}
	return w, nil
}

func (c *CatalogClient) CreateWorkout(ctx context.Context, s models.Session, w models.Workout) (models.Workout, error) {
	body := workoutBody(w)

	var created models.Workout
	if err := c.call(ctx, http.MethodPost, "/workouts", &s, body, &created); err != nil {
		return models.Workout{}, err
	}
	return created, nil
}

func (c *CatalogClient) UpdateWorkout(ctx context.Context, s models.Session, w models.Workout) (models.Workout, error) {
	if w.ID == "" {
		return models.Workout{}, fmt.Errorf("%w: workout id", shared.ErrMissingArgument)
	}

	var updated models.Workout
	if err := c.call(ctx, http.MethodPut, "/workouts/"+url.PathEscape(w.ID), &s, workoutBody(w), &updated); err != nil {
		return models.Workout{}, notFound(err, shared.ErrWorkoutNotFound)
	}
	if updated.ID == "" {
		updated = w
	}
	return updated, nil
}

func (c *CatalogClient) DeleteWorkout(ctx context.Context, s models.Session, id string) error {
	return notFound(c.call(ctx, http.MethodDelete, "/workouts/"+url.PathEscape(id), &s, nil, nil), shared.ErrWorkoutNotFound)
}

func (c *CatalogClient) AddWorkoutExercise(ctx context.Context, s models.Session, workoutID string, we models.WorkoutExercise) (models.WorkoutExercise, error) {
	body := map[string]any{
		"exercise_id":  we.ExerciseID,
		"sets":         we.Sets,
		"reps":         we.Reps,
		"rest_seconds": we.RestSeconds,
		"order_index":  we.OrderIndex,
	}

	var created models.WorkoutExercise
	path := "/workouts/" + url.PathEscape(workoutID) + "/exercises"
	if err := c.call(ctx, http.MethodPost, path, &s, body, &created); err != nil {
		return models.WorkoutExercise{}, notFound(err, shared.ErrWorkoutNotFound)
	}
	return created, nil
}

func (c *CatalogClient) RemoveWorkoutExercise(ctx context.Context, s models.Session, workoutID, workoutExerciseID string) error {
	path := "/workouts/" + url.PathEscape(workoutID) + "/exercises/" + url.PathEscape(workoutExerciseID)
	return c.call(ctx, http.MethodDelete, path, &s, nil, nil)
}

// ListFavorites returns the ids of the user's favorited videos.
func (c *CatalogClient) ListFavorites(ctx context.Context, s models.Session) (models.FavoriteSet, error) {
	favs, err := c.ListFavoriteVideos(ctx, s)
	if err != nil {
		return nil, err
	}
	return models.NewFavoriteSet(favs), nil
}

// ListFavoriteVideos returns favorites joined with their videos.
func (c *CatalogClient) ListFavoriteVideos(ctx context.Context, s models.Session) ([]models.Favorite, error) {
	favs := []models.Favorite{}
	if err := c.call(ctx, http.MethodGet, "/favorites", &s, nil, &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

func (c *CatalogClient) AddFavorite(ctx context.Context, s models.Session, videoID string) error {
	return c.call(ctx, http.MethodPost, "/favorites", &s, map[string]string{"video_id": videoID}, nil)
}

func (c *CatalogClient) RemoveFavorite(ctx context.Context, s models.Session, videoID string) error {
	return c.call(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(videoID), &s, nil, nil)
}

// GetProfile is public and sends no identity.
func (c *CatalogClient) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	var p models.Profile
	if err := c.call(ctx, http.MethodGet, "/profiles/"+url.PathEscape(userID), nil, nil, &p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// UpdateProfile writes the editable fields of p. Only the session's own profile may be updated.
func (c *CatalogClient) UpdateProfile(ctx context.Context, s models.Session, p models.Profile) (models.Profile, error) {
	if s.Valid() && p.ID != s.UserID {
		return models.Profile{}, fmt.Errorf("%w: cannot update another user's profile", shared.ErrForbidden)
	}

	body := map[string]string{
		"full_name":  p.FullName,
		"bio":        p.Bio,
		"avatar_url": p.AvatarURL,
	}

	var updated models.Profile
	if err := c.call(ctx, http.MethodPut, "/profiles/"+url.PathEscape(p.ID), &s, body, &updated); err != nil {
		if shared.RemoteStatus(err) == http.StatusForbidden {
			return models.Profile{}, fmt.Errorf("%w: %w", shared.ErrForbidden, err)
		}
		return models.Profile{}, err
	}
	return updated, nil
}

type loginResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
}

// Login exchanges credentials for a session. Rejected credentials wrap [shared.ErrAuthFailed].
func (c *CatalogClient) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	if err := creds.Validate(); err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	var resp loginResponse
	if err := c.call(ctx, http.MethodPost, "/auth/login", nil, creds, &resp); err != nil {
		if status := shared.RemoteStatus(err); status == http.StatusUnauthorized || status == http.StatusBadRequest {
			return models.Session{}, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
		}
		return models.Session{}, err
	}

	if resp.UserID == "" {
		return models.Session{}, fmt.Errorf("%w: login response carried no user id", shared.ErrAuthFailed)
	}

	token := resp.AccessToken
	if token == "" {
		token = resp.Token
	}
	return models.Session{
		UserID:      resp.UserID,
		Token:       token,
		Username:    resp.Username,
		DisplayName: resp.FullName,
	}, nil
}

// Signup registers an account and returns the new user id.
func (c *CatalogClient) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	var resp struct {
		UserID string `json:"user_id"`
	}
	if err := c.call(ctx, http.MethodPost, "/auth/signup", nil, req, &resp); err != nil {
		return "", err
	}
	if resp.UserID == "" {
		return "", errors.New("signup response carried no user id")
	}
	return resp.UserID, nil
}

func workoutBody(w models.Workout) map[string]any {
	return map[string]any{
		"name":             w.Name,
		"description":      w.Description,
		"difficulty_level": string(w.Difficulty),
		"duration_minutes": w.DurationMinutes,
	}
}
