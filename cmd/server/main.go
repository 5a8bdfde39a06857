package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	api "github.com/claritas-learn/claritas-backend/internal/api/http"
	"github.com/claritas-learn/claritas-backend/internal/auth"
	"github.com/claritas-learn/claritas-backend/internal/config"
	"github.com/claritas-learn/claritas-backend/internal/course"
	"github.com/claritas-learn/claritas-backend/internal/db"
	"github.com/claritas-learn/claritas-backend/internal/enroll"
	"github.com/claritas-learn/claritas-backend/internal/llm"
	"github.com/claritas-learn/claritas-backend/internal/quiz"
	"github.com/claritas-learn/claritas-backend/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	gemini, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTimeout)
	if err != nil {
		log.Fatalf("gemini client: %v", err)
	}
	defer gemini.Close()

	courses := course.NewGenerator(gemini, blobs)
	attempts := quiz.NewSQLAttemptStore(dbh)
	evaluator := quiz.NewEvaluator(gemini, attempts)
	selector := quiz.NewSelector(attempts)
	helper := quiz.NewHelper(gemini)
	enrollments := enroll.NewService(enroll.NewSQLStore(dbh), courses, attempts)

	authSvc := auth.NewService(cfg.AuthHMACSecret, cfg.CookieSecure)
	users := auth.NewUserStore(dbh)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute)) // course generation is slow
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	r.Use(authSvc.Middleware)

	r.Post("/auth/signup", api.SignupHandler(users, authSvc))
	r.Post("/auth/login", api.LoginHandler(users, authSvc))
	r.Post("/auth/logout", api.LogoutHandler(authSvc))
	r.Get("/auth/me", api.MeHandler())

	r.Post("/generate_course", api.GenerateCourseHandler(courses))
	r.Get("/course/{courseID}", api.GetCourseHandler(courses))
	r.Post("/generate_topic", api.GenerateTopicHandler(courses))
	r.Post("/generate_module_quiz", api.GenerateModuleQuizHandler(courses, selector))
	r.Post("/evaluate_module_quiz", api.EvaluateModuleQuizHandler(courses, evaluator))
	r.Get("/quiz_attempts/{courseID}/{unitNumber}", api.QuizAttemptsHandler(attempts))
	r.Get("/module_quiz_status/{courseID}", api.ModuleQuizStatusHandler(attempts))
	r.Post("/quiz_help/text", api.QuizHelpTextHandler(courses, helper))

	r.Post("/enroll", api.EnrollHandler(enrollments))
	r.Get("/user/{authID}/courses", api.UserCoursesHandler(enrollments))
	r.Post("/update_progress", api.UpdateProgressHandler(enrollments))

	r.Post("/generate_assessment", api.GenerateAssessmentHandler(courses))
	r.Post("/evaluate_assessment", api.EvaluateAssessmentHandler(courses))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			w.WriteHeader(503)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("claritas-backend listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("server: %v", err)
	}
}
