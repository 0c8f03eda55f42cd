package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/ordena-app/ordena-backend/pkg/agenda"
	"github.com/ordena-app/ordena-backend/pkg/auth"
	"github.com/ordena-app/ordena-backend/pkg/communication"
	"github.com/ordena-app/ordena-backend/pkg/email"
	"github.com/ordena-app/ordena-backend/pkg/environment"
	"github.com/ordena-app/ordena-backend/pkg/events"
	"github.com/ordena-app/ordena-backend/pkg/habits"
	"github.com/ordena-app/ordena-backend/pkg/locking"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"github.com/ordena-app/ordena-backend/pkg/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	var logging logger.Interface = logger.Logger{}
	fmt.Println("Server is starting up...")

	environment.Initialize()

	client, err := mongo.NewClient(options.Client().ApplyURI(environment.Global.DatabaseUrl))
	if err != nil {
		log.Fatal(err)
	}

	var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = client.Connect(ctx)
	if err != nil {
		log.Panic(err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Panic(err)
	}

	defer func() {
		err := client.Disconnect(ctx)
		if err != nil {
			logging.Fatal(err)
		}
	}()

	fmt.Println("Database connected")

	db := client.Database(environment.Global.Database)

	userCollection := db.Collection("Users")
	habitCollection := db.Collection("Habits")
	completionCollection := db.Collection("Completions")
	eventCollection := db.Collection("Events")

	var locker locking.LockerInterface
	var userCache agenda.UserDataCacheInterface

	if environment.Global.Redis != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     environment.Global.Redis,
			Password: environment.Global.RedisPassword,
		})

		locker = locking.NewLockerRedis(redisClient)
		userCache, err = agenda.NewUserCacheRedis(redisClient)
		if err != nil {
			log.Panic(err)
		}

		fmt.Println("Redis connected")
	} else {
		locker = locking.NewLockerMemory()
		userCache, err = agenda.NewUserCacheMemory()
		if err != nil {
			log.Panic(err)
		}
	}

	responseManager := communication.ResponseManager{Logger: logging}

	mailer := email.NewSendInBlueService(environment.Global.Sendinblue)

	var userRepository users.UserRepositoryInterface = users.UserRepository{DB: userCollection, Logger: logging}
	userHandler := users.Handler{
		UserRepository:  userRepository,
		Logger:          logging,
		ResponseManager: &responseManager,
		Secret:          environment.Global.Secret,
		EmailService:    mailer,
	}

	evaluator := &habits.RecurrenceEvaluator{Logger: logging}
	tracker := &habits.StreakTracker{Evaluator: evaluator}

	var habitRepository habits.HabitRepositoryInterface = &habits.MongoDBHabitRepository{DB: habitCollection, Logger: logging}
	var completionRepository habits.CompletionRepositoryInterface = &habits.MongoDBCompletionRepository{DB: completionCollection, Logger: logging}
	habitHandler := habits.Handler{
		HabitRepository:      habitRepository,
		CompletionRepository: completionRepository,
		Logger:               logging,
		ResponseManager:      &responseManager,
		Locker:               locker,
		Evaluator:            evaluator,
		Tracker:              tracker,
	}

	var eventRepository events.EventRepositoryInterface = &events.MongoDBEventRepository{DB: eventCollection, Logger: logging}
	eventHandler := events.Handler{
		EventRepository: eventRepository,
		Logger:          logging,
		ResponseManager: &responseManager,
	}
	calendarHandler := events.CalendarHandler{
		UserRepository:  userRepository,
		EventRepository: eventRepository,
		Logger:          logging,
		ResponseManager: &responseManager,
	}

	agendaService := &agenda.Service{
		UserRepository:       userRepository,
		UserCache:            userCache,
		HabitRepository:      habitRepository,
		CompletionRepository: completionRepository,
		EventRepository:      eventRepository,
		Evaluator:            evaluator,
		Tracker:              tracker,
		Logger:               logging,
	}
	agendaHandler := agenda.Handler{
		Service:         agendaService,
		Logger:          logging,
		ResponseManager: &responseManager,
	}

	authMiddleware := auth.AuthenticationMiddleware{
		ResponseManager: &responseManager,
		Secret:          environment.Global.Secret,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)

		_, err := fmt.Fprint(writer, "Welcome to the Ordena API! ✔")
		if err != nil {
			log.Printf("Error: %v\n", err)
		}
	})

	unauthenticated := r.PathPrefix("/v1").Subrouter()
	unauthenticated.HandleFunc("/auth/register", userHandler.UserRegister).Methods(http.MethodPost)
	unauthenticated.HandleFunc("/auth/register/verify", userHandler.UserVerifyEmail).Methods(http.MethodGet)
	unauthenticated.HandleFunc("/auth/login", userHandler.UserLogin).Methods(http.MethodPost)
	unauthenticated.HandleFunc("/auth/refresh", userHandler.UserRefresh).Methods(http.MethodPost)
	unauthenticated.HandleFunc("/calendar/google/callback", calendarHandler.GoogleCallback).Methods(http.MethodGet)

	authenticated := r.PathPrefix("/v1").Subrouter()
	authenticated.Use(authMiddleware.Middleware)

	authenticated.HandleFunc("/user", userHandler.UserGet).Methods(http.MethodGet)
	authenticated.HandleFunc("/user/settings", userHandler.UserSettingsPatch).Methods(http.MethodPatch)

	authenticated.HandleFunc("/habits", habitHandler.HabitAdd).Methods(http.MethodPost)
	authenticated.HandleFunc("/habits", habitHandler.HabitsGet).Methods(http.MethodGet)
	authenticated.HandleFunc("/habits/today", habitHandler.HabitsToday).Methods(http.MethodGet)
	authenticated.HandleFunc("/habits/{habitID}", habitHandler.HabitGet).Methods(http.MethodGet)
	authenticated.HandleFunc("/habits/{habitID}", habitHandler.HabitUpdate).Methods(http.MethodPatch)
	authenticated.HandleFunc("/habits/{habitID}", habitHandler.HabitDelete).Methods(http.MethodDelete)
	authenticated.HandleFunc("/habits/{habitID}/archive", habitHandler.HabitArchive).Methods(http.MethodPost)
	authenticated.HandleFunc("/habits/{habitID}/unarchive", habitHandler.HabitUnarchive).Methods(http.MethodPost)
	authenticated.HandleFunc("/habits/{habitID}/complete/{date}", habitHandler.HabitComplete).Methods(http.MethodPost)
	authenticated.HandleFunc("/habits/{habitID}/uncomplete/{date}", habitHandler.HabitUncomplete).Methods(http.MethodPost)

	authenticated.HandleFunc("/events", eventHandler.EventAdd).Methods(http.MethodPost)
	authenticated.HandleFunc("/events/day/{date}", eventHandler.EventsForDay).Methods(http.MethodGet)
	authenticated.HandleFunc("/events/{eventID}", eventHandler.EventGet).Methods(http.MethodGet)
	authenticated.HandleFunc("/events/{eventID}", eventHandler.EventUpdate).Methods(http.MethodPatch)
	authenticated.HandleFunc("/events/{eventID}", eventHandler.EventDelete).Methods(http.MethodDelete)

	authenticated.HandleFunc("/calendar/google/connect", calendarHandler.GoogleConnect).Methods(http.MethodPost)
	authenticated.HandleFunc("/calendar/google/import/{date}", calendarHandler.ImportDay).Methods(http.MethodPost)

	authenticated.HandleFunc("/agenda", agendaHandler.AgendaGet).Methods(http.MethodGet)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			if environment.Global.Cors != "" {
				w.Header().Add("Access-Control-Allow-Origin", environment.Global.Cors)
			}
			next.ServeHTTP(w, r)
		})
	})

	port := environment.Global.Port
	if port == "" {
		port = "80"
	}

	fmt.Printf("Listening on port %s\n", port)
	log.Panic(http.ListenAndServe(":"+port, r))
}
