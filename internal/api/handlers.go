package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"nutiai.com/nutiai-server/internal/app"
	"nutiai.com/nutiai-server/internal/auth"
	"nutiai.com/nutiai-server/internal/core"
	"nutiai.com/nutiai-server/internal/media"
	"nutiai.com/nutiai-server/internal/models"
	"nutiai.com/nutiai-server/internal/realtime"
	"nutiai.com/nutiai-server/internal/remote"
)

// Gateway is the model-backed part of the app.
type Gateway interface {
	GenerateMealPlan(ctx context.Context, profile models.DietProfile) (models.MealPlan, error)
	EstimateFromImage(ctx context.Context, data []byte, mimeType string) (models.MealEstimate, error)
	EstimateFromItems(ctx context.Context, items []models.FoodItem) (models.MealEstimate, error)
	GenerateWorkout(ctx context.Context, params models.WorkoutParams) (models.Workout, error)
	GetAdvice(ctx context.Context, message string, history []models.ChatMessage) (string, error)
	GenerateRecipe(ctx context.Context, ingredients []string) (models.Recipe, error)
}

// Accounts is the remote backend: sign-in and the snapshot backup.
type Accounts interface {
	SignUp(ctx context.Context, email, password, name string) (*remote.Account, *remote.Profile, error)
	SignIn(ctx context.Context, email, password string) (*remote.Account, error)
	ProfileOrDefault(ctx context.Context, account *remote.Account) (*remote.Profile, error)
	PushSnapshot(ctx context.Context, userID string, snap models.Snapshot) error
	PullSnapshot(ctx context.Context, userID string) (models.Snapshot, error)
}

type PhotoArchive interface {
	Store(ctx context.Context, userID string, data []byte, contentType string) (string, error)
}

type FoodGuard interface {
	Check(ctx context.Context, data []byte) ([]string, error)
}

// Deps wires the handler. Photos and Guard are optional.
type Deps struct {
	Registry      *app.Registry
	Gateway       Gateway
	Accounts      Accounts
	Hub           *realtime.Hub
	Photos        PhotoArchive
	Guard         FoodGuard
	MaxImageBytes int64
	Logger        hclog.Logger
}

type APIHandler struct {
	registry      *app.Registry
	gateway       Gateway
	accounts      Accounts
	hub           *realtime.Hub
	photos        PhotoArchive
	guard         FoodGuard
	maxImageBytes int64
	log           hclog.Logger

	mu      sync.Mutex
	streams map[string]*stream
}

type stream struct {
	refs int
	stop func()
}

func NewAPIHandler(d Deps) *APIHandler {
	log := d.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if d.MaxImageBytes <= 0 {
		d.MaxImageBytes = 8 << 20
	}
	return &APIHandler{
		registry:      d.Registry,
		gateway:       d.Gateway,
		accounts:      d.Accounts,
		hub:           d.Hub,
		photos:        d.Photos,
		guard:         d.Guard,
		maxImageBytes: d.MaxImageBytes,
		log:           log.Named("api"),
		streams:       make(map[string]*stream),
	}
}

type ctxKey int

const userIDKey ctxKey = iota

// UserID returns the authenticated user of a request.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func (h *APIHandler) controller(r *http.Request) *app.Controller {
	return h.registry.Get(UserID(r.Context()))
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if tokenString == "" {
			// Browsers cannot set headers on a websocket handshake.
			tokenString = r.URL.Query().Get("token")
		}
		if tokenString == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		userID, err := auth.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		// A token outlives a logout; the session state decides.
		if !h.registry.Get(userID).Authenticated() {
			http.Error(w, "Session ended", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// statusFor maps domain errors to an HTTP status and a public message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, models.ErrInvalid), errors.Is(err, app.ErrUnknownTab):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, app.ErrLimitReached):
		return http.StatusConflict, err.Error()
	case errors.Is(err, app.ErrSuperseded):
		return http.StatusConflict, "Request superseded by a newer one"
	case errors.Is(err, app.ErrLoggedOut), errors.Is(err, app.ErrNotAuthenticated):
		return http.StatusUnauthorized, "Session ended"
	case errors.Is(err, app.ErrDietNotFound), errors.Is(err, app.ErrWorkoutNotFound),
		errors.Is(err, app.ErrMealNotFound), errors.Is(err, remote.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, media.ErrNotFood):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, core.ErrTransport):
		return http.StatusServiceUnavailable, "The assistant is unavailable, try again"
	case errors.Is(err, core.ErrEmptyResponse), errors.Is(err, core.ErrContractViolation):
		return http.StatusBadGateway, "The assistant returned an unusable answer"
	}
	return http.StatusInternalServerError, "Internal error"
}

func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "op", op, "user", UserID(r.Context()), "error", err)
	} else {
		h.log.Debug("request rejected", "op", op, "status", status, "error", err)
	}
	http.Error(w, msg, status)
}

// scoped runs a model request in the controller's scope for owner. A failure
// other than supersession raises an error notification with failMsg.
func (h *APIHandler) scoped(r *http.Request, owner, failMsg string, fn func(ctx context.Context) error) error {
	c := h.controller(r)
	ctx, release := c.Scope(r.Context(), owner)
	defer release()

	err := fn(ctx)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		if cause := context.Cause(ctx); errors.Is(cause, app.ErrSuperseded) || errors.Is(cause, app.ErrLoggedOut) {
			return cause
		}
		return err
	}
	if !errors.Is(err, core.ErrInvalidInput) && !errors.Is(err, media.ErrNotFood) {
		c.Notify(models.NotifyInfo, "Erro", failMsg)
	}
	return err
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type SessionResponse struct {
	Token   string             `json:"token"`
	UserID  string             `json:"user_id"`
	Profile models.UserProfile `json:"profile"`
	// ProfileMissing is set when the account exists but its remote profile
	// row could not be written. The next sync push writes it.
	ProfileMissing bool `json:"profileMissing,omitempty"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	account, profile, err := h.accounts.SignUp(r.Context(), req.Email, req.Password, req.Name)
	profileMissing := false
	switch {
	case errors.Is(err, remote.ErrProfileCreation) && account != nil:
		h.log.Warn("signed up without profile", "user", account.ID, "error", err)
		profileMissing = true
		if profile, err = h.accounts.ProfileOrDefault(r.Context(), account); err != nil {
			h.fail(w, r, "signup", err)
			return
		}
	case errors.Is(err, remote.ErrEmailTaken):
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	case err != nil:
		h.log.Error("sign up failed", "error", err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	h.startSession(w, r, account, profile, profileMissing, http.StatusCreated)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	account, err := h.accounts.SignIn(r.Context(), req.Email, req.Password)
	if errors.Is(err, remote.ErrInvalidCredentials) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.log.Error("sign in failed", "error", err)
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}
	profile, err := h.accounts.ProfileOrDefault(r.Context(), account)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}
	h.startSession(w, r, account, profile, false, http.StatusOK)
}

func (h *APIHandler) startSession(w http.ResponseWriter, r *http.Request, account *remote.Account, profile *remote.Profile, profileMissing bool, status int) {
	user := models.UserProfile{Name: profile.Name, Email: profile.Email}
	c := h.registry.Get(account.ID)
	if err := c.Login(user); err != nil {
		h.fail(w, r, "login", err)
		return
	}
	if profileMissing {
		c.Notify(models.NotifyInfo, "Perfil Incompleto",
			"Sua conta foi criada, mas o perfil não foi salvo na nuvem. Sincronize para tentar novamente.")
	}
	token, err := auth.GenerateJWT(account.ID)
	if err != nil {
		h.log.Error("token generation failed", "user", account.ID, "error", err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, SessionResponse{Token: token, UserID: account.ID, Profile: user, ProfileMissing: profileMissing})
}

func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.controller(r).Logout()
	w.WriteHeader(http.StatusNoContent)
}

type StateResponse struct {
	State         app.AuthState         `json:"state"`
	Tab           app.Tab               `json:"tab"`
	Profile       models.UserProfile    `json:"profile"`
	BaseGoal      models.DailyGoal      `json:"baseGoal"`
	ActiveDietID  string                `json:"activeDietId,omitempty"`
	Summary       app.Summary           `json:"summary"`
	Notifications []models.Notification `json:"notifications"`
}

func stateOf(c *app.Controller) StateResponse {
	return StateResponse{
		State:         c.State(),
		Tab:           c.Tab(),
		Profile:       c.Profile(),
		BaseGoal:      c.BaseGoal(),
		ActiveDietID:  c.ActiveDietID(),
		Summary:       c.Summary(),
		Notifications: c.Notifications(),
	}
}

func (h *APIHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateOf(h.controller(r)))
}

func (h *APIHandler) SetTabHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tab app.Tab `json:"tab"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.controller(r).SetTab(req.Tab); err != nil {
		h.fail(w, r, "set tab", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UserProfile
	if !decodeBody(w, r, &req) {
		return
	}
	c := h.controller(r)
	if err := c.UpdateProfile(req); err != nil {
		h.fail(w, r, "update profile", err)
		return
	}
	writeJSON(w, http.StatusOK, c.Profile())
}

func (h *APIHandler) SetGoalHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DailyGoal
	if !decodeBody(w, r, &req) {
		return
	}
	c := h.controller(r)
	if err := c.SetBaseGoal(req); err != nil {
		h.fail(w, r, "set goal", err)
		return
	}
	writeJSON(w, http.StatusOK, c.Summary())
}

func (h *APIHandler) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller(r).Notifications())
}

func (h *APIHandler) DismissNotificationHandler(w http.ResponseWriter, r *http.Request) {
	if !h.controller(r).Dismiss(urlParam(r, "notificationID")) {
		http.Error(w, "Notification not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NotificationStreamHandler pushes new notifications over a websocket. All
// of a user's sockets share one controller subscription.
func (h *APIHandler) NotificationStreamHandler(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	c := h.controller(r)
	h.hub.Serve(w, r, userID, func() func() {
		return h.openStream(userID, c)
	})
}

func (h *APIHandler) openStream(userID string, c *app.Controller) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.streams[userID]
	if !ok {
		s = &stream{stop: c.Subscribe(func(n models.Notification) {
			h.hub.Send(userID, n)
		})}
		h.streams[userID] = s
	}
	s.refs++
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		s.refs--
		if s.refs == 0 {
			s.stop()
			delete(h.streams, userID)
		}
	}
}

// PushHandler replaces the remote backup with the local state.
func (h *APIHandler) PushHandler(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	if err := h.accounts.PushSnapshot(r.Context(), UserID(r.Context()), c.Snapshot()); err != nil {
		c.Notify(models.NotifyInfo, "Erro", "Não foi possível sincronizar seus dados.")
		h.fail(w, r, "sync push", err)
		return
	}
	c.Notify(models.NotifyInfo, "Backup Concluído", "Seus dados foram salvos na nuvem.")
	w.WriteHeader(http.StatusNoContent)
}

// PullHandler replaces the local state with the remote backup.
func (h *APIHandler) PullHandler(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	snap, err := h.accounts.PullSnapshot(r.Context(), UserID(r.Context()))
	if err == nil {
		err = c.Restore(snap)
	}
	if err != nil {
		h.fail(w, r, "sync pull", err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(c))
}
