package main

import (
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/avelis/frontdesk/internal/config"
	"github.com/avelis/frontdesk/internal/db"
	"github.com/avelis/frontdesk/internal/dialog"
	"github.com/avelis/frontdesk/internal/intent"
	"github.com/avelis/frontdesk/internal/session"
	"github.com/avelis/frontdesk/internal/ticket"
)

// defaultConfigPath is used when --config is not given; a missing file
// at the default path falls back to built-in defaults.
const defaultConfigPath = "frontdesk.yaml"

// loadConfig loads the config file, tolerating a missing file only at
// the default path.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

// connectFromConfig opens the configured database and migrates the
// schema.
func connectFromConfig(cfg *config.Config) (*gorm.DB, error) {
	var (
		gormDB *gorm.DB
		err    error
	)
	switch cfg.Database.Driver {
	case "sqlite":
		gormDB, err = db.ConnectSQLite(cfg.Database.Path)
	case "mysql":
		gormDB, err = db.ConnectMySQL(cfg.Database.User, cfg.Database.Password,
			cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return nil, err
	}
	return gormDB, nil
}

// buildClassifier constructs the configured classifier backend.
func buildClassifier(cfg *config.Config) (intent.Classifier, error) {
	switch cfg.Classifier.Backend {
	case "local":
		model := intent.DefaultModel()
		if cfg.Classifier.ModelPath != "" {
			var err error
			model, err = intent.LoadModel(cfg.Classifier.ModelPath)
			if err != nil {
				return nil, err
			}
		}
		return intent.NewLocalClassifier(model), nil

	case "openai":
		key := cfg.Classifier.OpenAIKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		return intent.NewOpenAIClassifier(intent.OpenAIClassifierOpts{
			APIKey: key,
			Model:  cfg.Classifier.OpenAIModel,
		})
	}
	return nil, fmt.Errorf("unknown classifier backend %q", cfg.Classifier.Backend)
}

// buildEngine wires the dialogue engine from configuration.
func buildEngine(cfg *config.Config) (*dialog.Engine, error) {
	classifier, err := buildClassifier(cfg)
	if err != nil {
		return nil, err
	}

	catalog := intent.DefaultResponses()
	if cfg.Classifier.ResponsesPath != "" {
		catalog, err = intent.LoadResponses(cfg.Classifier.ResponsesPath)
		if err != nil {
			return nil, err
		}
	}

	return dialog.NewEngine(dialog.EngineOpts{
		Classifier: classifier,
		Responder:  intent.NewResponder(catalog, nil),
		Issuer:     ticket.NewIssuer(nil),
		WindowDays: cfg.Policy.WindowDays,
		Threshold:  cfg.Classifier.Threshold,
	})
}

// buildManager wires the session manager over the configured store.
func buildManager(cfg *config.Config) (*session.Manager, *session.Sweeper, error) {
	engine, err := buildEngine(cfg)
	if err != nil {
		return nil, nil, err
	}

	gormDB, err := connectFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := session.NewGormStore(gormDB)
	if err != nil {
		return nil, nil, err
	}

	mgr, err := session.NewManager(session.ManagerOpts{
		Store:       store,
		Engine:      engine,
		Transcriber: store,
		Tickets:     store,
	})
	if err != nil {
		return nil, nil, err
	}

	sweeper, err := session.NewSweeper(session.SweeperOpts{
		Store: store,
		TTL:   time.Duration(cfg.Session.TTLMinutes) * time.Minute,
		Cron:  cfg.Session.SweepCron,
	})
	if err != nil {
		return nil, nil, err
	}

	return mgr, sweeper, nil
}
