package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"nutiai.com/nutiai-server/internal/logging"
)

func NewRouter(apiHandler *APIHandler, logger hclog.Logger) http.Handler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logging.StdLogger(logger.Named("http")),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/signup", apiHandler.SignupHandler)
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			r.Post("/logout", apiHandler.LogoutHandler)
			r.Get("/state", apiHandler.StateHandler)
			r.Put("/tab", apiHandler.SetTabHandler)
			r.Put("/profile", apiHandler.UpdateProfileHandler)
			r.Put("/goal", apiHandler.SetGoalHandler)

			r.Route("/meals", func(r chi.Router) {
				r.Get("/", apiHandler.ListMealsHandler)
				r.Post("/", apiHandler.AddMealHandler)
				r.Post("/remove", apiHandler.RemoveMealHandler)
				r.Delete("/{mealID}", apiHandler.DeleteMealHandler)
			})

			r.Post("/estimate/items", apiHandler.EstimateItemsHandler)
			r.Post("/estimate/image", apiHandler.EstimateImageHandler)

			r.Route("/diets", func(r chi.Router) {
				r.Post("/generate", apiHandler.GenerateDietHandler)
				r.Get("/", apiHandler.ListDietsHandler)
				r.Post("/", apiHandler.SaveDietHandler)
				r.Put("/active", apiHandler.SetActiveDietHandler)
				r.Delete("/{dietID}", apiHandler.DeleteDietHandler)
				r.Get("/{dietID}/pdf", apiHandler.DietPDFHandler)
				r.Get("/{dietID}/logged", apiHandler.LoggedPlanMealsHandler)
				r.Post("/{dietID}/days/{day}/{slot}", apiHandler.LogPlanMealHandler)
				r.Delete("/{dietID}/days/{day}/{slot}", apiHandler.UnlogPlanMealHandler)
			})

			r.Route("/workouts", func(r chi.Router) {
				r.Post("/generate", apiHandler.GenerateWorkoutHandler)
				r.Get("/", apiHandler.ListWorkoutsHandler)
				r.Post("/", apiHandler.SaveWorkoutHandler)
				r.Delete("/{workoutID}", apiHandler.DeleteWorkoutHandler)
				r.Get("/{workoutID}/pdf", apiHandler.WorkoutPDFHandler)
				r.Post("/{workoutID}/sessions/{session}/start", apiHandler.StartSessionHandler)
			})

			r.Get("/advice", apiHandler.ChatHistoryHandler)
			r.Post("/advice", apiHandler.AdviceHandler)
			r.Delete("/advice", apiHandler.ResetChatHandler)
			r.Post("/recipes", apiHandler.RecipeHandler)

			r.Get("/notifications", apiHandler.ListNotificationsHandler)
			r.Get("/notifications/ws", apiHandler.NotificationStreamHandler)
			r.Delete("/notifications/{notificationID}", apiHandler.DismissNotificationHandler)

			r.Post("/sync/push", apiHandler.PushHandler)
			r.Post("/sync/pull", apiHandler.PullHandler)
		})
	})

	return r
}
