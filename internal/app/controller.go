package app

import (
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"nutiai.com/nutiai-server/internal/models"
	"nutiai.com/nutiai-server/internal/store"
)

type AuthState string

const (
	StateLanding       AuthState = "landing"
	StateAuthForm      AuthState = "auth-form"
	StateAuthenticated AuthState = "authenticated"
)

type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabPlanner   Tab = "planner"
	TabVision    Tab = "vision"
	TabWorkout   Tab = "workout"
	TabLibrary   Tab = "library"
	TabAccount   Tab = "account"
	TabSettings  Tab = "settings"
)

func (t Tab) Valid() bool {
	switch t {
	case TabDashboard, TabPlanner, TabVision, TabWorkout, TabLibrary, TabAccount, TabSettings:
		return true
	}
	return false
}

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnknownTab       = errors.New("unknown tab")
	ErrLimitReached     = errors.New("saved item limit reached")
	ErrDietNotFound     = errors.New("diet not found")
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrMealNotFound     = errors.New("meal not found")
)

const (
	DefaultNotificationTTL = 6 * time.Second
	DefaultMaxSaved        = 10
	DefaultChatLimit       = 50
)

type Options struct {
	Now             func() time.Time
	NewID           func() string
	NotificationTTL time.Duration
	// MaxSaved caps saved diets and saved workouts separately.
	MaxSaved int
	// ChatLimit bounds the in-memory conversation.
	ChatLimit int
	Logger    hclog.Logger
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.NotificationTTL <= 0 {
		o.NotificationTTL = DefaultNotificationTTL
	}
	if o.MaxSaved <= 0 {
		o.MaxSaved = DefaultMaxSaved
	}
	if o.ChatLimit <= 0 {
		o.ChatLimit = DefaultChatLimit
	}
	if o.Logger == nil {
		o.Logger = hclog.NewNullLogger()
	}
	return o
}

// Controller owns one user's state. Every operation runs under its mutex
// and starts from the latest state; storage writes happen before the lock
// is released so they land in mutation order.
type Controller struct {
	mu    sync.Mutex
	slots *store.Slots
	opts  Options
	log   hclog.Logger

	state    AuthState
	tab      Tab
	profile  models.UserProfile
	baseGoal models.DailyGoal
	meals    []models.Meal
	diets    []models.SavedDiet
	workouts []models.SavedWorkout
	activeID string
	links    map[PlanSlot]string
	chat     []models.ChatMessage

	notifications []models.Notification
	pending       []models.Notification
	listeners     map[int]func(models.Notification)
	nextListener  int

	scopes   map[string]scope
	scopeSeq uint64
}

// New builds a controller from whatever the slots hold. Missing or corrupt
// slots fall back to defaults.
func New(slots *store.Slots, opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		slots:     slots,
		opts:      opts,
		log:       opts.Logger.Named("controller"),
		tab:       TabDashboard,
		links:     make(map[PlanSlot]string),
		listeners: make(map[int]func(models.Notification)),
		scopes:    make(map[string]scope),
	}
	c.load()
	return c
}

// unlock releases the mutex and then hands notifications raised during the
// operation to listeners.
func (c *Controller) unlock() {
	pending := c.pending
	c.pending = nil
	var listeners []func(models.Notification)
	if len(pending) > 0 {
		listeners = slices.Collect(maps.Values(c.listeners))
	}
	c.mu.Unlock()

	for _, n := range pending {
		for _, l := range listeners {
			l(n)
		}
	}
}

func (c *Controller) today() string {
	return c.opts.Now().UTC().Format(models.DateLayout)
}

func (c *Controller) State() AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Authenticated() bool {
	return c.State() == StateAuthenticated
}

// ShowAuth moves the landing page to the credential form.
func (c *Controller) ShowAuth() AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateLanding {
		c.state = StateAuthForm
	}
	return c.state
}

func (c *Controller) BackToLanding() AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateAuthForm {
		c.state = StateLanding
	}
	return c.state
}

// Login follows a successful credential check.
func (c *Controller) Login(profile models.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.unlock()

	c.state = StateAuthenticated
	c.profile = profile
	err := c.slots.Write(
		store.Entry{Slot: store.SlotAuth, Value: "true"},
		store.Entry{Slot: store.SlotUser, Value: profile},
	)
	c.saveFailed(err)
	c.log.Info("user signed in", "email", profile.Email)
	return nil
}

// Logout returns to the landing page, resets the tab and abandons every
// in-flight request.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.unlock()

	c.state = StateLanding
	c.tab = TabDashboard
	c.profile = models.GuestProfile
	c.chat = nil
	c.cancelScopes(ErrLoggedOut)
	err := c.slots.Write(
		store.Entry{Slot: store.SlotAuth, Clear: true},
		store.Entry{Slot: store.SlotUser, Clear: true},
	)
	c.saveFailed(err)
}

func (c *Controller) Tab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

func (c *Controller) SetTab(tab Tab) error {
	if !tab.Valid() {
		return ErrUnknownTab
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAuthenticated {
		return ErrNotAuthenticated
	}
	c.tab = tab
	return nil
}

func (c *Controller) Profile() models.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

func (c *Controller) UpdateProfile(profile models.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.unlock()

	c.profile = profile
	c.saveFailed(c.slots.Save(store.SlotUser, profile))
	c.notify(models.NotifyInfo, "Perfil Atualizado", "Suas informações foram salvas com sucesso.")
	return nil
}

func (c *Controller) BaseGoal() models.DailyGoal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.baseGoal
}

func (c *Controller) SetBaseGoal(goal models.DailyGoal) error {
	if err := goal.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.unlock()

	c.baseGoal = goal
	c.persist()
	c.notify(models.NotifyInfo, "Configurações Salvas", "Suas metas e preferências foram atualizadas com sucesso.")
	return nil
}

// CurrentGoal is the active diet's targets when the active id names a saved
// diet, otherwise the base goal.
func (c *Controller) CurrentGoal() models.DailyGoal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentGoal()
}

func (c *Controller) currentGoal() models.DailyGoal {
	if c.activeID != "" {
		if i := c.dietIndex(c.activeID); i >= 0 {
			return c.diets[i].Targets
		}
	}
	return c.baseGoal
}
