package main

import (
	"log"
	"net/http"

	"notes-api/cache"
	"notes-api/config"
	"notes-api/db"
	"notes-api/handlers"
	"notes-api/logger"
	appmw "notes-api/middleware"
	"notes-api/service"
	"notes-api/token"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func newRouter(tokens *token.Provider) http.Handler {
	authHandler := &handlers.AuthHandler{Auth: service.NewAuthService(tokens)}
	noteHandler := &handlers.NoteHandler{Notes: &service.NoteService{}}
	userHandler := &handlers.UserHandler{Users: &service.UserService{}}

	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/api/auth/register", authHandler.Register)
	r.Post("/api/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(appmw.RequireAuth(tokens))

		r.Get("/api/notes", noteHandler.List)
		r.Get("/api/notes/{id}", noteHandler.Get)
		r.Post("/api/notes", noteHandler.Create)
		r.Put("/api/notes/{id}", noteHandler.Update)
		r.Patch("/api/notes/{id}", noteHandler.Patch)
		r.Delete("/api/notes/{id}", noteHandler.Delete)

		r.Group(func(r chi.Router) {
			r.Use(appmw.RequireAdmin)
			r.Post("/api/auth/register/admin", authHandler.RegisterAdmin)
			r.Get("/api/users", userHandler.List)
		})
	})

	return r
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()
	logger.InitLogger(cfg.LogLevel)
	cache.DefaultTTL = cfg.CacheTTL

	if err := db.InitDB(cfg.DBDriver, cfg.DSN); err != nil {
		logger.Errorf("DB init error: %v", err)
		log.Fatal(err)
	}
	if err := cache.InitRedis(cfg.RedisAddr); err != nil {
		logger.Errorf("Redis init error: %v", err)
		log.Fatal(err)
	}
	defer cache.Close()

	tokens := token.NewProvider(cfg.JWTSecret, cfg.TokenTTL)

	logger.Info("Server running on http://localhost" + cfg.Port)
	if err := http.ListenAndServe(cfg.Port, newRouter(tokens)); err != nil {
		log.Fatal(err)
	}
}
