// Package totem parses kiosk command flags and runs the interactive
// campaign-response wizard on a shared terminal.
package totem

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/luan640/nr01facil/internal/directory"
	entrypoint "github.com/luan640/nr01facil/internal/platform/cmd"
	"github.com/luan640/nr01facil/internal/platform/id"
	"github.com/luan640/nr01facil/internal/storage"
	bboltstore "github.com/luan640/nr01facil/internal/storage/bbolt"
	"github.com/luan640/nr01facil/internal/storage/memory"
	"github.com/luan640/nr01facil/internal/telemetry"
	"github.com/luan640/nr01facil/internal/wizard/availability"
	"github.com/luan640/nr01facil/internal/wizard/navigator"
	"github.com/luan640/nr01facil/internal/wizard/options"
	"github.com/luan640/nr01facil/internal/wizard/submit"
)

// Config holds totem command configuration.
type Config struct {
	CampaignID        string `env:"NR01FACIL_CAMPAIGN_ID"`
	StartStep         int    `env:"NR01FACIL_START_STEP" envDefault:"1"`
	CascadeMode       string `env:"NR01FACIL_CASCADE_MODE" envDefault:"ghe"`
	Locale            string `env:"NR01FACIL_LOCALE" envDefault:"pt-BR"`
	DBPath            string `env:"NR01FACIL_DB_PATH" envDefault:"nr01facil.db"`
	Volatile          bool   `env:"NR01FACIL_VOLATILE"`
	DepartmentsURL    string `env:"NR01FACIL_DEPARTMENTS_URL"`
	JobFunctionsURL   string `env:"NR01FACIL_JOB_FUNCTIONS_URL"`
	CPFCheckURL       string `env:"NR01FACIL_CPF_CHECK_URL"`
	SubmitURL         string `env:"NR01FACIL_SUBMIT_URL"`
	QuestionnairePath string `env:"NR01FACIL_QUESTIONNAIRE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.CampaignID, "campaign", cfg.CampaignID, "The campaign identifier")
	fs.IntVar(&cfg.StartStep, "step", cfg.StartStep, "The step to resume at")
	fs.StringVar(&cfg.CascadeMode, "mode", cfg.CascadeMode, "The cascade mode (ghe or setor)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The local response database path")
	fs.BoolVar(&cfg.Volatile, "volatile", cfg.Volatile, "Keep responses in memory instead of on disk")
	fs.StringVar(&cfg.QuestionnairePath, "questionnaire", cfg.QuestionnairePath, "The questionnaire JSON path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// sessionStore is the storage surface a kiosk session needs.
type sessionStore interface {
	storage.ResponseStore
	storage.TelemetryStore
}

// Run opens the local response store and drives the wizard until the
// respondent submits or aborts. Volatile mode keeps the response in memory,
// for kiosks without a writable disk.
func Run(ctx context.Context, cfg Config) error {
	var store sessionStore
	if cfg.Volatile {
		store = memory.New()
	} else {
		dbStore, err := bboltstore.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open response store: %w", err)
		}
		defer dbStore.Close()
		store = dbStore
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTotem, func(ctx context.Context) error {
		return runSession(ctx, cfg, NewSurveyDriver(), store)
	})
}

// runSession wires the wizard engine to a prompt driver and runs the step
// loop. It is the seam the command tests drive with a scripted driver.
func runSession(ctx context.Context, cfg Config, driver PromptDriver, store sessionStore) error {
	if cfg.CampaignID == "" {
		return fmt.Errorf("campaign id is required")
	}
	if cfg.SubmitURL == "" {
		return fmt.Errorf("submit url is required")
	}

	mode, err := options.ParseCascadeMode(cfg.CascadeMode)
	if err != nil {
		return err
	}

	questionnaire, err := LoadQuestionnaire(cfg.QuestionnairePath)
	if err != nil {
		return err
	}
	if err := questionnaire.Validate(); err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	client, err := directory.New(directory.Config{
		DepartmentsURL:  cfg.DepartmentsURL,
		JobFunctionsURL: cfg.JobFunctionsURL,
		CPFCheckURL:     cfg.CPFCheckURL,
		HTTPClient:      httpClient,
	})
	if err != nil {
		return err
	}

	terminalID, err := id.NewID()
	if err != nil {
		return fmt.Errorf("terminal id: %w", err)
	}

	emitter := telemetry.NewEmitter(store)
	s := &session{
		driver:        driver,
		resolver:      options.ForMode(mode, client, cfg.Locale),
		checker:       availability.NewChecker(availability.Config{Check: client.CheckCPF, Locale: cfg.Locale}),
		serializer:    submit.NewSerializer(store, emitter),
		emitter:       emitter,
		store:         store,
		questionnaire: questionnaire,
		mode:          mode,
		campaignID:    cfg.CampaignID,
		terminalID:    terminalID,
		submitURL:     cfg.SubmitURL,
		httpClient:    httpClient,
		forms:         map[int]navigator.StepForm{},
	}
	nav, err := navigator.New(ctx, navigator.Config{
		CampaignID: cfg.CampaignID,
		StartStep:  cfg.StartStep,
		Store:      store,
		Form:       s,
		Telemetry:  emitter,
		Locale:     cfg.Locale,
	})
	if err != nil {
		return err
	}
	s.nav = nav

	return s.run(ctx)
}
