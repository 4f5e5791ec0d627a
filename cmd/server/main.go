package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "kinship/backend/docs" // registers the swagger document served at /swagger

	"kinship/backend/internal/account"
	"kinship/backend/internal/config"
	"kinship/backend/internal/database"
	"kinship/backend/internal/favorite"
	"kinship/backend/internal/handler"
	"kinship/backend/internal/hub"
	"kinship/backend/internal/logging"
	"kinship/backend/internal/models"
	"kinship/backend/internal/relationship"
	"kinship/backend/internal/store"
	"kinship/backend/internal/store/memory"
	"kinship/backend/internal/store/mongo"
	"kinship/backend/internal/store/postgres"
	"kinship/backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	connectTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title           Kinship API
// @version         1.0
// @description     Friend and partner relationships, favorites and likes.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid logging configuration")
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := backend.Close(closeCtx); err != nil {
			log.WithError(err).Warn("Closing store")
		}
	}()

	events := hub.New(log)
	h := handler.New(handler.Deps{
		Users:         user.NewService(backend.Users(), log),
		Accounts:      account.NewService(backend, events, log),
		Relationships: relationship.NewEngine(backend, events, log),
		Favorites:     favorite.NewService(backend.Marks(), models.CollectionFavorites, log),
		Likes:         favorite.NewService(backend.Marks(), models.CollectionLikes, log),
		Hub:           events,
		JWTSecret:     cfg.JWTSecret,
		JWTTTL:        cfg.JWTTTL,
		Log:           log,
	})

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger(log))
	handler.Register(router, h.Routes(), cfg.JWTSecret)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.ServerAddr, "store": cfg.StoreDriver}).Info("Server is running")
		log.Infof("Swagger UI is available at http://localhost%s/swagger/index.html", cfg.ServerAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listening")
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutting down")
}

func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (store.Backend, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.ConnectPostgres(cfg.DatabaseURL, logging.GormLogger(log))
		if err != nil {
			return nil, err
		}
		return postgres.New(db), nil

	case config.DriverMongo:
		db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = db.Client().Disconnect(context.Background())
			return nil, err
		}
		return mongo.New(db, cfg.MongoTransactions, log), nil

	case config.DriverMemory:
		log.Warn("Using the in-memory store; data is lost on exit")
		return memory.New(), nil
	}
	return nil, errors.Errorf("unknown store driver %q", cfg.StoreDriver)
}
