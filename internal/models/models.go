package models

import "time"

// MealType tags which slot of the day a meal fills.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealTypes lists the four slots in day order.
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snack}

func (t MealType) Valid() bool {
	switch t {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// Label returns the Portuguese label used in notifications and reports.
func (t MealType) Label() string {
	switch t {
	case Breakfast:
		return "Café da Manhã"
	case Lunch:
		return "Almoço"
	case Dinner:
		return "Jantar"
	case Snack:
		return "Lanche"
	}
	return string(t)
}

// DateLayout is the calendar date format meals are stored with.
const DateLayout = "2006-01-02"

type Meal struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name" validate:"notblank"`
	Calories float64  `json:"calories" validate:"gte=0"`
	Protein  float64  `json:"protein" validate:"gte=0"`
	Carbs    float64  `json:"carbs" validate:"gte=0"`
	Fats     float64  `json:"fats" validate:"gte=0"`
	Type     MealType `json:"type" validate:"oneof=breakfast lunch dinner snack"`
	Date     string   `json:"date" validate:"datetime=2006-01-02"`
}

// MealCandidate is a meal before the controller assigns identity and date.
type MealCandidate struct {
	Name     string   `json:"name" validate:"notblank"`
	Calories float64  `json:"calories" validate:"gte=0"`
	Protein  float64  `json:"protein" validate:"gte=0"`
	Carbs    float64  `json:"carbs" validate:"gte=0"`
	Fats     float64  `json:"fats" validate:"gte=0"`
	Type     MealType `json:"type" validate:"oneof=breakfast lunch dinner snack"`
}

// MealDescriptor identifies a logged meal by content instead of identity.
type MealDescriptor struct {
	Name     string   `json:"name"`
	Calories float64  `json:"calories"`
	Type     MealType `json:"type"`
}

type DailyGoal struct {
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fats     float64 `json:"fats" validate:"gte=0"`
}

// DefaultBaseGoal is the target used before the user configures one.
var DefaultBaseGoal = DailyGoal{Calories: 2000, Protein: 140, Carbs: 220, Fats: 60}

type MealDetail struct {
	Description string  `json:"description" validate:"notblank"`
	Calories    float64 `json:"calories" validate:"gte=0"`
	Protein     float64 `json:"protein" validate:"gte=0"`
	Carbs       float64 `json:"carbs" validate:"gte=0"`
	Fats        float64 `json:"fats" validate:"gte=0"`
}

type DayPlan struct {
	DayName   string     `json:"dayName"`
	Breakfast MealDetail `json:"breakfast"`
	Lunch     MealDetail `json:"lunch"`
	Dinner    MealDetail `json:"dinner"`
	Snack     MealDetail `json:"snack"`
}

// Slot returns the meal detail filling the given slot.
func (d DayPlan) Slot(t MealType) (MealDetail, bool) {
	switch t {
	case Breakfast:
		return d.Breakfast, true
	case Lunch:
		return d.Lunch, true
	case Dinner:
		return d.Dinner, true
	case Snack:
		return d.Snack, true
	}
	return MealDetail{}, false
}

// PlanDays is the number of days in every generated meal plan.
const PlanDays = 7

// MealPlan is the gateway result for a 7-day plan.
type MealPlan struct {
	Targets DailyGoal `json:"targets"`
	Days    []DayPlan `json:"days"`
}

// DietDraft is a plan the user asked to keep, before identity is assigned.
type DietDraft struct {
	Name    string    `json:"name" validate:"notblank"`
	Targets DailyGoal `json:"targets"`
	Days    []DayPlan `json:"days" validate:"len=7,dive"`
}

type SavedDiet struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"notblank"`
	CreatedAt time.Time `json:"createdAt"`
	Targets   DailyGoal `json:"targets"`
	Days      []DayPlan `json:"days" validate:"len=7,dive"`
}

type Exercise struct {
	Name string `json:"name" validate:"notblank"`
	Sets int    `json:"sets" validate:"gt=0"`
	Reps string `json:"reps" validate:"notblank"` // "8-12", "30s"
	Rest string `json:"rest" validate:"notblank"`
}

type WorkoutSession struct {
	DayName   string     `json:"dayName"`
	Focus     string     `json:"focus" validate:"notblank"`
	Exercises []Exercise `json:"exercises" validate:"min=1,dive"`
}

type Workout struct {
	Name     string           `json:"name"`
	Goal     string           `json:"goal"`
	Sessions []WorkoutSession `json:"sessions"`
}

// WorkoutDraft is a generated workout plus the level it was generated for.
type WorkoutDraft struct {
	Name     string           `json:"name" validate:"notblank"`
	Goal     string           `json:"goal"`
	Level    string           `json:"level"`
	Sessions []WorkoutSession `json:"sessions" validate:"min=1,dive"`
}

type SavedWorkout struct {
	ID        string           `json:"id" validate:"required"`
	Name      string           `json:"name" validate:"notblank"`
	CreatedAt time.Time        `json:"createdAt"`
	Goal      string           `json:"goal"`
	Level     string           `json:"level"`
	Sessions  []WorkoutSession `json:"sessions" validate:"min=1,dive"`
}

type NotificationType string

const (
	NotifyMeal    NotificationType = "meal"
	NotifyWorkout NotificationType = "workout"
	NotifyInfo    NotificationType = "info"
	NotifyWater   NotificationType = "water"
)

type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"createdAt"`
}

type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

type UserProfile struct {
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"email" validate:"required,email"`
}

// GuestProfile is shown until a user signs in.
var GuestProfile = UserProfile{Name: "Visitante", Email: "convidado@nutiai.com"}

// MealEstimate is a single nutrition estimate for a photo or a list of foods.
type MealEstimate struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// FoodItem is one free-text food and quantity pair.
type FoodItem struct {
	Food   string `json:"food"`
	Amount string `json:"amount"`
}

// DietProfile holds the parameters a meal plan is generated for.
type DietProfile struct {
	Age          string `json:"age"`
	Gender       string `json:"gender"`
	Height       string `json:"height"`
	Weight       string `json:"weight"`
	Activity     string `json:"activity"`
	Goal         string `json:"goal"`
	Restrictions string `json:"restrictions"`
}

type WorkoutParams struct {
	Goal        string `json:"goal"`
	Level       string `json:"level"`
	Location    string `json:"location"`
	DaysPerWeek string `json:"daysPerWeek"`
	Limitations string `json:"limitations"`
}

// Snapshot is everything a user keeps, as exchanged with the remote backup.
type Snapshot struct {
	Profile      UserProfile    `json:"profile"`
	BaseGoal     DailyGoal      `json:"baseGoal"`
	ActiveDietID string         `json:"activeDietId,omitempty"`
	Meals        []Meal         `json:"meals"`
	Diets        []SavedDiet    `json:"diets"`
	Workouts     []SavedWorkout `json:"workouts"`
}

type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

type Recipe struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Macros       Macros   `json:"macros"`
}
