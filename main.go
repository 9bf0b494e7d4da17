package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"projection/api"
	"projection/config"
	"projection/handlers"
	"projection/internal/rest"
	"projection/services/auth"
	"projection/services/flags"
	"projection/services/lists"
	"projection/services/metadata"
	"projection/services/ratings"
	"projection/services/sessions"
	"projection/utils"

	"golang.org/x/time/rate"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[main] load config: %v", err)
	}

	if cfg.Log.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		}
		log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	}

	backendClient := rest.NewClient(cfg.Backend.BaseURL, nil)

	sessionsSvc, err := sessions.NewService(cfg.Storage.Dir, time.Duration(cfg.Sessions.TTLHours)*time.Hour)
	if err != nil {
		log.Fatalf("[main] init sessions: %v", err)
	}

	authSvc := auth.NewService(backendClient)
	flagsSvc := flags.NewService(backendClient)
	listsSvc := lists.NewService(backendClient)
	ratingsSvc := ratings.NewService(backendClient)
	metadataSvc := metadata.NewService(cfg.TMDB.BaseURL, cfg.TMDB.BearerToken, cfg.TMDB.Language, nil)

	authHandler := handlers.NewAuthHandler(authSvc, sessionsSvc)
	detailHandler := handlers.NewDetailHandler(metadataSvc, flagsSvc, ratingsSvc)
	if cfg.TMDB.Region != "" {
		detailHandler.Region = cfg.TMDB.Region
	}
	flagsHandler := handlers.NewFlagsHandler(flagsSvc)
	listsHandler := handlers.NewListsHandler(listsSvc)
	ratingsHandler := handlers.NewRatingsHandler(ratingsSvc)
	profileHandler := handlers.NewProfileHandler(authSvc, flagsSvc, ratingsSvc, sessionsSvc)

	router := utils.NewRouter()

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(api.RequestIDMiddleware())
	apiRouter.Use(api.SessionMiddleware(sessionsSvc))

	// Credential endpoints get a per-IP limiter: 5 attempts per minute.
	authLimiter := api.NewIPRateLimiter(rate.Every(12*time.Second), 5)
	authRouter := apiRouter.PathPrefix("/auth").Subrouter()
	authRouter.Use(api.RateLimitMiddleware(authLimiter))
	authRouter.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost, http.MethodOptions)
	authRouter.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost, http.MethodOptions)
	authRouter.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost, http.MethodOptions)
	authRouter.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet, http.MethodOptions)
	authRouter.HandleFunc("/check-username", authHandler.CheckUsername).Methods(http.MethodGet, http.MethodOptions)

	// Public reads.
	apiRouter.HandleFunc("/pages/{mediaType}/{id}", detailHandler.GetDetailPage).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/content/{mediaType}/{id}/rating-stats", ratingsHandler.GetRatingStats).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/users/me/ratings/{mediaType}/{id}", ratingsHandler.GetRatingStatus).Methods(http.MethodGet, http.MethodOptions)

	// Per-user state requires a session.
	userRouter := apiRouter.PathPrefix("/users/me").Subrouter()
	userRouter.Use(api.RequireUser())

	userRouter.HandleFunc("/profile", profileHandler.GetProfileBundle).Methods(http.MethodGet, http.MethodOptions)
	userRouter.HandleFunc("/profile", profileHandler.UpdateProfile).Methods(http.MethodPut)
	userRouter.HandleFunc("/password", profileHandler.ChangePassword).Methods(http.MethodPut, http.MethodOptions)
	userRouter.HandleFunc("/avatar", profileHandler.UploadAvatar).Methods(http.MethodPost, http.MethodOptions)

	userRouter.HandleFunc("/likes", flagsHandler.GetLikes).Methods(http.MethodGet, http.MethodOptions)
	userRouter.HandleFunc("/likes/{mediaType}/{id}/toggle", flagsHandler.ToggleLike).Methods(http.MethodPost, http.MethodOptions)
	userRouter.HandleFunc("/watched", flagsHandler.GetWatched).Methods(http.MethodGet, http.MethodOptions)
	userRouter.HandleFunc("/watched/{mediaType}/{id}/toggle", flagsHandler.ToggleWatched).Methods(http.MethodPost, http.MethodOptions)
	userRouter.HandleFunc("/watchlist", flagsHandler.GetWatchlist).Methods(http.MethodGet, http.MethodOptions)
	userRouter.HandleFunc("/watchlist/{mediaType}/{id}/toggle", flagsHandler.ToggleWatchlist).Methods(http.MethodPost, http.MethodOptions)

	userRouter.HandleFunc("/lists", listsHandler.GetLists).Methods(http.MethodGet, http.MethodOptions)
	userRouter.HandleFunc("/lists", listsHandler.CreateList).Methods(http.MethodPost)
	userRouter.HandleFunc("/lists/picker/{mediaType}/{id}", listsHandler.GetPicker).Methods(http.MethodGet, http.MethodOptions)
	userRouter.HandleFunc("/lists/{listId}", listsHandler.DeleteList).Methods(http.MethodDelete, http.MethodOptions)
	userRouter.HandleFunc("/lists/{listId}/items", listsHandler.GetListItems).Methods(http.MethodGet, http.MethodOptions)
	userRouter.HandleFunc("/lists/{listId}/items/{mediaType}/{id}", listsHandler.AddListItem).Methods(http.MethodPost, http.MethodOptions)
	userRouter.HandleFunc("/lists/{listId}/items/{mediaType}/{id}", listsHandler.RemoveListItem).Methods(http.MethodDelete)

	userRouter.HandleFunc("/ratings/{mediaType}/{id}", ratingsHandler.SetRating).Methods(http.MethodPut, http.MethodOptions)
	userRouter.HandleFunc("/ratings/{mediaType}/{id}", ratingsHandler.RemoveRating).Methods(http.MethodDelete)

	server := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("[main] listening on %s", cfg.Server.Listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("[main] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
}
