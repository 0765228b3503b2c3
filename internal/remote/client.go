package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nutiai.com/nutiai-server/internal/logging"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("record not found")

// Error wraps every failure coming from the backing store.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("remote %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrNotFound
	}
	return &Error{Op: op, Err: err}
}

// Client is the typed CRUD façade over the hosted relational store.
// It never retries, caches or queues.
type Client struct {
	db       *gorm.DB
	log      hclog.Logger
	Profiles ProfileRepository
	Meals    MealRepository
	Diets    DietRepository
	Workouts WorkoutRepository
}

// Dialector picks the gorm driver for a configured backend.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported remote driver %q", driver)
}

// Open connects and migrates the schema. A nil cfg gets a gorm logger that
// writes through hclog.
func Open(dialector gorm.Dialector, cfg *gorm.Config, log hclog.Logger) (*Client, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	log = log.Named("remote")
	if cfg == nil {
		cfg = &gorm.Config{
			Logger: logger.New(logging.StdLogger(log), logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			}),
		}
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to remote store: %w", err)
	}
	if err := db.AutoMigrate(&Account{}, &Profile{}, &MealRow{}, &SavedDietRow{}, &SavedWorkoutRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate remote schema: %w", err)
	}
	log.Info("remote store ready", "dialect", dialector.Name())
	return newClient(db, log), nil
}

func newClient(db *gorm.DB, log hclog.Logger) *Client {
	return &Client{
		db:       db,
		log:      log,
		Profiles: &profileRepository{db: db},
		Meals:    &mealRepository{db: db},
		Diets:    &dietRepository{db: db},
		Workouts: &workoutRepository{db: db},
	}
}

func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *Client) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.db.WithContext(ctx).Transaction(fn)
}
