package testing

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/shared"
)

// MockCatalog is a stateful in-memory double for [services.Catalog].
//
// It behaves like the backend for the happy path and records how often each method ran.
// Errs injects a failure per method name; Gate, when non-nil, holds every call until a value
// is received from it or the context ends. Entered receives the method name as each call starts.
type MockCatalog struct {
	mu sync.Mutex

	Videos    []models.Video
	Exercises []models.Exercise
	Workouts  []models.Workout
	Favorites models.FavoriteSet
	Profiles  map[string]models.Profile
	Session   models.Session
	SignupID  string

	Errs    map[string]error
	Gate    chan struct{}
	Entered chan string

	calls  map[string]int
	nextID int
}

// Calls returns how many times method was invoked.
func (m *MockCatalog) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls returns the number of invocations across all methods.
func (m *MockCatalog) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *MockCatalog) enter(ctx context.Context, method string) error {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
	gate, entered := m.Gate, m.Entered
	err := m.Errs[method]
	m.mu.Unlock()

	if entered != nil {
		entered <- method
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (m *MockCatalog) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func requireSession(s models.Session) error {
	if !s.Valid() {
		return &shared.RemoteError{Status: 401, Message: "User ID required"}
	}
	return nil
}

func (m *MockCatalog) ListVideos(ctx context.Context, limit int) ([]models.Video, error) {
	if err := m.enter(ctx, "ListVideos"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	videos := slices.Clone(m.Videos)
	if limit > 0 && limit < len(videos) {
		videos = videos[:limit]
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return videos, nil
}

func (m *MockCatalog) GetVideo(ctx context.Context, id string) (models.Video, error) {
	if err := m.enter(ctx, "GetVideo"); err != nil {
		return models.Video{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.Videos {
		if v.ID == id {
			return v, nil
		}
	}
	return models.Video{}, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, id)
}

func (m *MockCatalog) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	if err := m.enter(ctx, "ListExercises"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.Exercises), nil
}

func (m *MockCatalog) ListWorkouts(ctx context.Context, s models.Session) ([]models.Workout, error) {
	if err := m.enter(ctx, "ListWorkouts"); err != nil {
		return nil, err
	}
	if err := requireSession(s); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Workout
	for _, w := range m.Workouts {
		if w.UserID == "" || w.UserID == s.UserID {
			w.Exercises = nil
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *MockCatalog) GetWorkout(ctx context.Context, s models.Session, id string) (models.Workout, error) {
	if err := m.enter(ctx, "GetWorkout"); err != nil {
		return models.Workout{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.workoutIndex(id)
	if i < 0 {
		return models.Workout{}, fmt.Errorf("%w: %s", shared.ErrWorkoutNotFound, id)
	}
	w := m.Workouts[i]
	w.Exercises = slices.Clone(w.Exercises)
	return w, nil
}

func (m *MockCatalog) CreateWorkout(ctx context.Context, s models.Session, w models.Workout) (models.Workout, error) {
	if err := m.enter(ctx, "CreateWorkout"); err != nil {
		return models.Workout{}, err
	}
	if err := requireSession(s); err != nil {
		return models.Workout{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w = w.WithDefaults()
	w.ID = m.id("w")
	w.UserID = s.UserID
	m.Workouts = append(m.Workouts, w)
	return w, nil
}

func (m *MockCatalog) UpdateWorkout(ctx context.Context, s models.Session, w models.Workout) (models.Workout, error) {
	if err := m.enter(ctx, "UpdateWorkout"); err != nil {
		return models.Workout{}, err
	}
	if err := requireSession(s); err != nil {
		return models.Workout{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.workoutIndex(w.ID)
	if i < 0 {
		return models.Workout{}, fmt.Errorf("%w: %s", shared.ErrWorkoutNotFound, w.ID)
	}
	w.UserID = m.Workouts[i].UserID
	w.Exercises = m.Workouts[i].Exercises
	m.Workouts[i] = w
	return w, nil
}

func (m *MockCatalog) DeleteWorkout(ctx context.Context, s models.Session, id string) error {
	if err := m.enter(ctx, "DeleteWorkout"); err != nil {
		return err
	}
	if err := requireSession(s); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.workoutIndex(id); i >= 0 {
		m.Workouts = slices.Delete(m.Workouts, i, i+1)
	}
	return nil
}

func (m *MockCatalog) AddWorkoutExercise(ctx context.Context, s models.Session, workoutID string, we models.WorkoutExercise) (models.WorkoutExercise, error) {
	if err := m.enter(ctx, "AddWorkoutExercise"); err != nil {
		return models.WorkoutExercise{}, err
	}
	if err := requireSession(s); err != nil {
		return models.WorkoutExercise{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.workoutIndex(workoutID)
	if i < 0 {
		return models.WorkoutExercise{}, fmt.Errorf("%w: %s", shared.ErrWorkoutNotFound, workoutID)
	}
	we.ID = m.id("we")
	we.WorkoutID = workoutID
	for _, e := range m.Exercises {
		if e.ID == we.ExerciseID {
			we.Exercise = &e
		}
	}
	m.Workouts[i].Exercises = append(m.Workouts[i].Exercises, we)
	return we, nil
}

func (m *MockCatalog) RemoveWorkoutExercise(ctx context.Context, s models.Session, workoutID, workoutExerciseID string) error {
	if err := m.enter(ctx, "RemoveWorkoutExercise"); err != nil {
		return err
	}
	if err := requireSession(s); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.workoutIndex(workoutID)
	if i < 0 {
		return fmt.Errorf("%w: %s", shared.ErrWorkoutNotFound, workoutID)
	}
	m.Workouts[i].Exercises = slices.DeleteFunc(m.Workouts[i].Exercises, func(we models.WorkoutExercise) bool {
		return we.ID == workoutExerciseID
	})
	return nil
}

func (m *MockCatalog) ListFavorites(ctx context.Context, s models.Session) (models.FavoriteSet, error) {
	if err := m.enter(ctx, "ListFavorites"); err != nil {
		return nil, err
	}
	if err := requireSession(s); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(models.FavoriteSet, len(m.Favorites))
	for id := range m.Favorites {
		set[id] = struct{}{}
	}
	return set, nil
}

func (m *MockCatalog) ListFavoriteVideos(ctx context.Context, s models.Session) ([]models.Favorite, error) {
	if err := m.enter(ctx, "ListFavoriteVideos"); err != nil {
		return nil, err
	}
	if err := requireSession(s); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	favs := []models.Favorite{}
	for _, v := range m.Videos {
		if m.Favorites.Has(v.ID) {
			favs = append(favs, models.Favorite{UserID: s.UserID, VideoID: v.ID, Video: v})
		}
	}
	return favs, nil
}

func (m *MockCatalog) AddFavorite(ctx context.Context, s models.Session, videoID string) error {
	if err := m.enter(ctx, "AddFavorite"); err != nil {
		return err
	}
	if err := requireSession(s); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Favorites == nil {
		m.Favorites = make(models.FavoriteSet)
	}
	m.Favorites[videoID] = struct{}{}
	return nil
}

func (m *MockCatalog) RemoveFavorite(ctx context.Context, s models.Session, videoID string) error {
	if err := m.enter(ctx, "RemoveFavorite"); err != nil {
		return err
	}
	if err := requireSession(s); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Favorites, videoID)
	return nil
}

func (m *MockCatalog) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	if err := m.enter(ctx, "GetProfile"); err != nil {
		return models.Profile{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Profiles[userID]
	if !ok {
		return models.Profile{}, &shared.RemoteError{Method: "GET", Path: "/profiles/" + userID, Status: 404, Message: "Profile not found"}
	}
	return p, nil
}

func (m *MockCatalog) UpdateProfile(ctx context.Context, s models.Session, p models.Profile) (models.Profile, error) {
	if err := m.enter(ctx, "UpdateProfile"); err != nil {
		return models.Profile{}, err
	}
	if s.UserID != p.ID {
		return models.Profile{}, &shared.RemoteError{Method: "PUT", Path: "/profiles/" + p.ID, Status: 403, Message: "Unauthorized"}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Profiles == nil {
		m.Profiles = make(map[string]models.Profile)
	}
	current := m.Profiles[p.ID]
	current.ID = p.ID
	current.FullName, current.Bio, current.AvatarURL = p.FullName, p.Bio, p.AvatarURL
	m.Profiles[p.ID] = current
	return current, nil
}

func (m *MockCatalog) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	if err := m.enter(ctx, "Login"); err != nil {
		return models.Session{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Session.Valid() {
		return models.Session{}, fmt.Errorf("%w: %w", shared.ErrAuthFailed,
			&shared.RemoteError{Method: "POST", Path: "/auth/login", Status: 401, Message: "Invalid credentials"})
	}
	return m.Session, nil
}

func (m *MockCatalog) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	if err := m.enter(ctx, "Signup"); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SignupID == "" {
		return m.id("u"), nil
	}
	return m.SignupID, nil
}

func (m *MockCatalog) workoutIndex(id string) int {
	return slices.IndexFunc(m.Workouts, func(w models.Workout) bool { return w.ID == id })
}
