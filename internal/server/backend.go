package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/shared"
)

type account struct {
	userID string
	email  string
	hash   []byte
}

// Backend is an in-memory FitHub API.
type Backend struct {
	mu        sync.RWMutex
	videos    []models.Video
	exercises []models.Exercise
	workouts  []*models.Workout
	favorites map[string][]string
	profiles  map[string]models.Profile
	accounts  map[string]account

	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	logger     *log.Logger
	now        func() time.Time
}

// BackendOption configures a [Backend].
type BackendOption func(*Backend)

// WithTokenSecret sets the HMAC key and lifetime of issued access tokens.
func WithTokenSecret(secret string, ttl time.Duration) BackendOption {
	return func(b *Backend) {
		b.secret = []byte(secret)
		if ttl > 0 {
			b.tokenTTL = ttl
		}
	}
}

// WithBcryptCost sets the password hashing cost. Tests use [bcrypt.MinCost].
func WithBcryptCost(cost int) BackendOption {
	return func(b *Backend) { b.bcryptCost = cost }
}

// WithClock overrides the time source used for token issuance and checks.
func WithClock(now func() time.Time) BackendOption {
	return func(b *Backend) { b.now = now }
}

// NewBackend creates a backend seeded with f.
func NewBackend(f Fixture, logger *log.Logger, opts ...BackendOption) (*Backend, error) {
	b := &Backend{
		videos:     slices.Clone(f.Videos),
		exercises:  slices.Clone(f.Exercises),
		favorites:  make(map[string][]string),
		profiles:   make(map[string]models.Profile),
		accounts:   make(map[string]account),
		secret:     []byte("dev-secret-change-me"),
		tokenTTL:   time.Hour,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	for _, a := range f.Accounts {
		if _, err := b.register(a); err != nil {
			return nil, fmt.Errorf("failed to seed account %s: %w", a.Email, err)
		}
	}
	return b, nil
}

// Routes registers every endpoint under prefix (e.g. "/api") on r.
func (b *Backend) Routes(r Router, prefix string) {
	r.Handle(http.MethodPost, prefix+"/auth/signup", http.HandlerFunc(b.signup))
	r.Handle(http.MethodPost, prefix+"/auth/login", http.HandlerFunc(b.login))

	r.Handle(http.MethodGet, prefix+"/videos", http.HandlerFunc(b.listVideos))
	r.Handle(http.MethodGet, prefix+"/videos/{id}", http.HandlerFunc(b.getVideo))
	r.Handle(http.MethodGet, prefix+"/exercises", http.HandlerFunc(b.listExercises))

	r.Handle(http.MethodGet, prefix+"/workouts", b.authed(b.listWorkouts))
	r.Handle(http.MethodPost, prefix+"/workouts", b.authed(b.createWorkout))
	r.Handle(http.MethodGet, prefix+"/workouts/{id}", http.HandlerFunc(b.getWorkout))
	r.Handle(http.MethodPut, prefix+"/workouts/{id}", b.authed(b.updateWorkout))
	r.Handle(http.MethodDelete, prefix+"/workouts/{id}", b.authed(b.deleteWorkout))
	r.Handle(http.MethodPost, prefix+"/workouts/{id}/exercises", b.authed(b.addWorkoutExercise))
	r.Handle(http.MethodDelete, prefix+"/workouts/{id}/exercises/{exerciseId}", b.authed(b.removeWorkoutExercise))

	r.Handle(http.MethodGet, prefix+"/favorites", b.authed(b.listFavorites))
	r.Handle(http.MethodPost, prefix+"/favorites", b.authed(b.addFavorite))
	r.Handle(http.MethodDelete, prefix+"/favorites/{videoId}", b.authed(b.removeFavorite))

	r.Handle(http.MethodGet, prefix+"/profiles/{id}", http.HandlerFunc(b.getProfile))
	r.Handle(http.MethodPut, prefix+"/profiles/{id}", http.HandlerFunc(b.updateProfile))
}

// Handler returns a router serving the backend under /api with request logging and CORS.
func (b *Backend) Handler() http.Handler {
	r := NewBasicRouter()
	r.Use(RequestLogger(b.logger))
	b.Routes(r, "/api")
	return CORS(r)
}

type authedHandler func(w http.ResponseWriter, r *http.Request, userID string)

// authed rejects requests that carry no identity with 401.
func (b *Backend) authed(h authedHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := b.identify(r)
		if userID == "" {
			b.respondError(w, http.StatusUnauthorized, "User ID required")
			return
		}
		h(w, r, userID)
	})
}

// identify reads X-User-ID, then a bearer token issued by this backend.
func (b *Backend) identify(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}

	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return ""
	}

	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return b.secret, nil
	}, jwt.WithTimeFunc(b.now))
	if err != nil {
		b.logger.Warn("rejected bearer token", "error", err)
		return ""
	}
	return claims.Subject
}

func (b *Backend) issueToken(userID string) (string, error) {
	now := b.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(b.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
}

func (b *Backend) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		b.logger.Error("encode response body", "status", status, "error", err)
	}
}

func (b *Backend) respondError(w http.ResponseWriter, status int, msg string) {
	b.respondJSON(w, status, map[string]string{"error": msg})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

var errAccountExists = errors.New("account already exists")

// register must be called without b.mu held.
func (b *Backend) register(a Account) (string, error) {
	email := strings.ToLower(strings.TrimSpace(a.Email))
	if email == "" || a.Password == "" || a.Username == "" {
		return "", errors.New("missing required fields")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), b.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.accounts[email]; ok {
		return "", errAccountExists
	}
	for _, p := range b.profiles {
		if p.Username == a.Username {
			return "", errAccountExists
		}
	}

	userID := a.UserID
	if userID == "" {
		userID = shared.GenerateID()
	}
	b.accounts[email] = account{userID: userID, email: email, hash: hash}
	b.profiles[userID] = models.Profile{ID: userID, Username: a.Username, FullName: a.FullName}
	return userID, nil
}

func (b *Backend) signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := decode(r, &req); err != nil {
		b.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		b.respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	userID, err := b.register(Account{Email: req.Email, Password: req.Password, Username: req.Username, FullName: req.FullName})
	switch {
	case errors.Is(err, errAccountExists):
		b.respondError(w, http.StatusConflict, err.Error())
	case err != nil:
		b.respondError(w, http.StatusInternalServerError, err.Error())
	default:
		b.respondJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully", "user_id": userID})
	}
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decode(r, &creds); err != nil {
		b.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := creds.Validate(); err != nil {
		b.respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	b.mu.RLock()
	acct, ok := b.accounts[strings.ToLower(strings.TrimSpace(creds.Email))]
	profile := b.profiles[acct.userID]
	b.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(creds.Password)) != nil {
		b.respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := b.issueToken(acct.userID)
	if err != nil {
		b.respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	b.respondJSON(w, http.StatusOK, map[string]string{
		"message":      "Login successful",
		"user_id":      acct.userID,
		"access_token": token,
		"username":     profile.Username,
		"full_name":    profile.FullName,
	})
}

func (b *Backend) listVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := models.FilterCriteria{Category: q.Get("category"), Difficulty: models.Difficulty(q.Get("difficulty"))}

	b.mu.RLock()
	videos := []models.Video{}
	for _, v := range b.videos {
		if c.Matches(v) {
			videos = append(videos, v)
		}
	}
	b.mu.RUnlock()

	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 && limit < len(videos) {
		videos = videos[:limit]
	}
	b.respondJSON(w, http.StatusOK, videos)
}

func (b *Backend) findVideo(id string) (models.Video, bool) {
	i := slices.IndexFunc(b.videos, func(v models.Video) bool { return v.ID == id })
	if i < 0 {
		return models.Video{}, false
	}
	return b.videos[i], true
}

func (b *Backend) getVideo(w http.ResponseWriter, r *http.Request) {
	b.mu.RLock()
	v, ok := b.findVideo(r.PathValue("id"))
	b.mu.RUnlock()

	if !ok {
		b.respondError(w, http.StatusNotFound, "Video not found")
		return
	}
	b.respondJSON(w, http.StatusOK, v)
}

func (b *Backend) listExercises(w http.ResponseWriter, _ *http.Request) {
	b.mu.RLock()
	exercises := slices.Clone(b.exercises)
	b.mu.RUnlock()

	if exercises == nil {
		exercises = []models.Exercise{}
	}
	b.respondJSON(w, http.StatusOK, exercises)
}

func (b *Backend) findWorkout(id string) *models.Workout {
	for _, w := range b.workouts {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (b *Backend) listWorkouts(w http.ResponseWriter, _ *http.Request, userID string) {
	b.mu.RLock()
	workouts := []models.Workout{}
	for _, wo := range b.workouts {
		if wo.UserID == userID {
			summary := *wo
			summary.Exercises = nil
			workouts = append(workouts, summary)
		}
	}
	b.mu.RUnlock()

	b.respondJSON(w, http.StatusOK, workouts)
}

func (b *Backend) createWorkout(w http.ResponseWriter, r *http.Request, userID string) {
	var in models.Workout
	if err := decode(r, &in); err != nil {
		b.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in = in.WithDefaults()
	if err := in.Validate(); err != nil {
		b.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created := models.Workout{
		ID:              shared.GenerateID(),
		UserID:          userID,
		Name:            in.Name,
		Description:     in.Description,
		Difficulty:      in.Difficulty,
		DurationMinutes: in.DurationMinutes,
	}

	b.mu.Lock()
	b.workouts = append(b.workouts, &created)
	b.mu.Unlock()

	b.respondJSON(w, http.StatusCreated, created)
}

// getWorkout returns the workout with its exercises ordered by order_index, each joined with its exercise.
func (b *Backend) getWorkout(w http.ResponseWriter, r *http.Request) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	wo := b.findWorkout(r.PathValue("id"))
	if wo == nil {
		b.respondError(w, http.StatusNotFound, "Workout not found")
		return
	}

	out := *wo
	out.Exercises = slices.Clone(wo.Exercises)
	slices.SortStableFunc(out.Exercises, func(a, c models.WorkoutExercise) int { return a.OrderIndex - c.OrderIndex })
	for i := range out.Exercises {
		if j := slices.IndexFunc(b.exercises, func(e models.Exercise) bool { return e.ID == out.Exercises[i].ExerciseID }); j >= 0 {
			e := b.exercises[j]
			out.Exercises[i].Exercise = &e
		}
	}
	b.respondJSON(w, http.StatusOK, out)
}

// ownedWorkout must be called with b.mu held.
func (b *Backend) ownedWorkout(w http.ResponseWriter, id, userID string) *models.Workout {
	wo := b.findWorkout(id)
	if wo == nil {
		b.respondError(w, http.StatusNotFound, "Workout not found")
		return nil
	}
	if wo.UserID != userID {
		b.respondError(w, http.StatusForbidden, "Unauthorized")
		return nil
	}
	return wo
}

func (b *Backend) updateWorkout(w http.ResponseWriter, r *http.Request, userID string) {
	var in models.Workout
	if err := decode(r, &in); err != nil {
		b.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := in.Validate(); err != nil {
		b.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	wo := b.ownedWorkout(w, r.PathValue("id"), userID)
	if wo == nil {
		return
	}
	wo.Name, wo.Description = in.Name, in.Description
	if in.Difficulty != "" {
		wo.Difficulty = in.Difficulty
	}
	if in.DurationMinutes > 0 {
		wo.DurationMinutes = in.DurationMinutes
	}

	out := *wo
	out.Exercises = nil
	b.respondJSON(w, http.StatusOK, out)
}

func (b *Backend) deleteWorkout(w http.ResponseWriter, r *http.Request, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := r.PathValue("id")
	if b.ownedWorkout(w, id, userID) == nil {
		return
	}
	b.workouts = slices.DeleteFunc(b.workouts, func(wo *models.Workout) bool { return wo.ID == id })
	b.respondJSON(w, http.StatusOK, map[string]string{"message": "Workout deleted"})
}

func (b *Backend) addWorkoutExercise(w http.ResponseWriter, r *http.Request, userID string) {
	var in models.WorkoutExercise
	if err := decode(r, &in); err != nil {
		b.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in = in.WithDefaults()
	if err := in.Validate(); err != nil {
		b.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	wo := b.ownedWorkout(w, r.PathValue("id"), userID)
	if wo == nil {
		return
	}
	if !slices.ContainsFunc(b.exercises, func(e models.Exercise) bool { return e.ID == in.ExerciseID }) {
		b.respondError(w, http.StatusBadRequest, "Unknown exercise")
		return
	}

	created := models.WorkoutExercise{
		ID:          shared.GenerateID(),
		WorkoutID:   wo.ID,
		ExerciseID:  in.ExerciseID,
		Sets:        in.Sets,
		Reps:        in.Reps,
		RestSeconds: in.RestSeconds,
		OrderIndex:  in.OrderIndex,
	}
	wo.Exercises = append(wo.Exercises, created)
	b.respondJSON(w, http.StatusCreated, created)
}

func (b *Backend) removeWorkoutExercise(w http.ResponseWriter, r *http.Request, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wo := b.ownedWorkout(w, r.PathValue("id"), userID)
	if wo == nil {
		return
	}

	id := r.PathValue("exerciseId")
	before := len(wo.Exercises)
	wo.Exercises = slices.DeleteFunc(wo.Exercises, func(we models.WorkoutExercise) bool { return we.ID == id })
	if len(wo.Exercises) == before {
		b.respondError(w, http.StatusNotFound, "Exercise not found in workout")
		return
	}
	b.respondJSON(w, http.StatusOK, map[string]string{"message": "Exercise removed"})
}

// listFavorites returns rows joined with their video, like the relational backend does.
func (b *Backend) listFavorites(w http.ResponseWriter, _ *http.Request, userID string) {
	b.mu.RLock()
	rows := []map[string]any{}
	for _, videoID := range b.favorites[userID] {
		row := map[string]any{"user_id": userID, "video_id": videoID}
		if v, ok := b.findVideo(videoID); ok {
			row["id"] = v.ID
			row["title"] = v.Title
			row["description"] = v.Description
			row["instructor_name"] = v.InstructorName
			row["duration_minutes"] = v.DurationMinutes
			row["difficulty_level"] = v.Difficulty
			row["category"] = v.Category
			row["thumbnail_url"] = v.ThumbnailURL
			row["video_url"] = v.VideoURL
		}
		rows = append(rows, row)
	}
	b.mu.RUnlock()

	b.respondJSON(w, http.StatusOK, rows)
}

func (b *Backend) addFavorite(w http.ResponseWriter, r *http.Request, userID string) {
	var in struct {
		VideoID string `json:"video_id"`
	}
	if err := decode(r, &in); err != nil || in.VideoID == "" {
		b.respondError(w, http.StatusBadRequest, "video_id is required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.findVideo(in.VideoID); !ok {
		b.respondError(w, http.StatusNotFound, "Video not found")
		return
	}
	if !slices.Contains(b.favorites[userID], in.VideoID) {
		b.favorites[userID] = append(b.favorites[userID], in.VideoID)
	}
	b.respondJSON(w, http.StatusCreated, map[string]string{"id": shared.GenerateID(), "user_id": userID, "video_id": in.VideoID})
}

func (b *Backend) removeFavorite(w http.ResponseWriter, r *http.Request, userID string) {
	b.mu.Lock()
	videoID := r.PathValue("videoId")
	b.favorites[userID] = slices.DeleteFunc(b.favorites[userID], func(id string) bool { return id == videoID })
	b.mu.Unlock()

	b.respondJSON(w, http.StatusOK, map[string]string{"message": "Favorite removed"})
}

func (b *Backend) getProfile(w http.ResponseWriter, r *http.Request) {
	b.mu.RLock()
	p, ok := b.profiles[r.PathValue("id")]
	b.mu.RUnlock()

	if !ok {
		b.respondError(w, http.StatusNotFound, "Profile not found")
		return
	}
	b.respondJSON(w, http.StatusOK, p)
}

func (b *Backend) updateProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if b.identify(r) != id {
		b.respondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	var in struct {
		FullName  string `json:"full_name"`
		Bio       string `json:"bio"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := decode(r, &in); err != nil {
		b.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b.mu.Lock()
	p, ok := b.profiles[id]
	if ok {
		p.FullName, p.Bio, p.AvatarURL = in.FullName, in.Bio, in.AvatarURL
		b.profiles[id] = p
	}
	b.mu.Unlock()

	if !ok {
		b.respondError(w, http.StatusNotFound, "Profile not found")
		return
	}
	b.respondJSON(w, http.StatusOK, p)
}
