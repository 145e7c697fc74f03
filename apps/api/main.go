package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // register /debug/pprof handlers
	"os"
	"path/filepath"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	echoapi "github.com/educhain/backend/apps/api/echo"
	"github.com/educhain/backend/core"
	"github.com/educhain/backend/core/actor"
	emailsvc "github.com/educhain/backend/services/email"
	logsvc "github.com/educhain/backend/services/logger"
	credstore "github.com/educhain/backend/storage/credential"
	"github.com/educhain/backend/storage/database"
	demodir "github.com/educhain/backend/storage/demo"
	sessionstore "github.com/educhain/backend/storage/session"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		rollbarLogger := logsvc.NewRollbarLogger(std, conf)
		rollbarLogger.Enable(true)
		logger = rollbarLogger
	}

	// the directory is picked once at startup; a missing or placeholder
	// identity backend config degrades to the fixed demo directory
	var (
		dir      actor.Directory
		repo     actor.Repository
		registry actor.SessionRegistry
		creds    actor.CredentialStore
		mailSvc  core.EmailService
	)
	if err := conf.CheckIdentityBackend(); err != nil {
		logger.Warn(fmt.Sprintf("running in demo mode: %v", err), err)

		dir = demodir.New(conf.DemoLatency)
		registry = sessionstore.NewMemoryRegistry()
		creds = credstore.NewFileStore(filepath.Join(core.Getwd(), "config", ".session"))
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		db, err := setUpDB(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				logger.Error(fmt.Sprintf("closing database: %v", err), err)
			}
		}()

		repo = database.NewActorRepository(db)
		dir = repo
		registry = sessionstore.NewRedisRegistry(redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		}))
		creds = credstore.NewMemoryStore()
		if conf.Debug {
			mailSvc = emailsvc.NewConsoleService(conf)
		} else {
			mailSvc = emailsvc.NewSendgridService(conf, logger)
		}
	}

	actorSvc := actor.NewService(conf, dir, repo, registry, creds, mailSvc, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	actor.InitValidators(validate, translator)

	// restore any persisted session before serving
	snap := actorSvc.Resolve(context.Background())
	logger.Info(fmt.Sprintf("session resolved: %s", snap.State))

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			ActorSvc:   actorSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db, conf); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
