package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/ai"
	"github.com/talentsift/talentsift/internal/ai/gemini"
	"github.com/talentsift/talentsift/internal/audit"
	"github.com/talentsift/talentsift/internal/logger"
	"github.com/talentsift/talentsift/internal/scoring"
	"github.com/talentsift/talentsift/internal/secrets"
)

const (
	app = "talentsift"

	geminiAPIKeyEnv = "GEMINI_API_KEY"
)

type Config struct {
	Server    *ServerConfig    `mapstructure:"server"`
	Storage   *StorageConfig   `mapstructure:"storage"`
	AI        *AIConfig        `mapstructure:"ai"`
	Ingestion *IngestionConfig `mapstructure:"ingestion"`
	AuditFile string           `mapstructure:"audit-file"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type StorageConfig struct {
	DSN string `mapstructure:"dsn"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type IngestionConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	TenantID         string        `mapstructure:"tenant-id"`
	ClientID         string        `mapstructure:"client-id"`
	ClientSecretFile string        `mapstructure:"client-secret-file"`
	DriveID          string        `mapstructure:"drive-id"`
	FolderID         string        `mapstructure:"folder-id"`
	Interval         time.Duration `mapstructure:"interval"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talentsift screens resumes against a job description and scores candidate fit",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("storage.dsn", "DATABASE_URL"); err != nil {
		log.Fatalf("binding DATABASE_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talentsift.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if serveCmd.CalledAs() == "" && processCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config is fine, everything has flag or env
		// fallbacks. An explicitly requested or unparseable file is not.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

func newLogger() (*zap.Logger, error) {
	return logger.New(viper.GetBool("json"), viper.GetBool("debug"))
}

// newScoringEngine builds the engine with its primary scorer when AI scoring
// is configured. Without one the engine still works on the heuristic path.
func newScoringEngine(ctx context.Context, config *Config, auditLog *audit.Log, zl *zap.Logger) *scoring.Engine {
	primary, model, err := newPrimaryScorer(ctx, config.AI, zl)
	if err != nil {
		zl.Warn("inference scoring unavailable, heuristic fallback only", zap.Error(err))
	}

	return scoring.NewEngine(primary, auditLog, zl, model)
}

func newPrimaryScorer(ctx context.Context, cfg *AIConfig, zl *zap.Logger) (ai.Scorer, string, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, "", fmt.Errorf("ai scoring is disabled")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, "", fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiAPIKeyEnv)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, "", err
	}

	scorerLogger := logger.WithCommonFields(zl, "gemini", generator.Model())
	return gemini.NewScorer(generator, scorerLogger, cfg.Gemini.MaxLogLength), generator.Model(), nil
}
