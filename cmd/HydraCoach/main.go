package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/marufai/HydraCoach/internal/api"
	"github.com/marufai/HydraCoach/internal/dialog"
	"github.com/marufai/HydraCoach/internal/genai"
	"github.com/marufai/HydraCoach/internal/hydration"
	"github.com/marufai/HydraCoach/internal/intent"
	"github.com/marufai/HydraCoach/internal/lockfile"
	"github.com/marufai/HydraCoach/internal/predictor"
	"github.com/marufai/HydraCoach/internal/store"
	"github.com/marufai/HydraCoach/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for HydraCoach state data
	DefaultStateDir = "/var/lib/hydracoach"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "hydracoach.db"
)

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// Ensure required directories exist
	if err := ensureDirectoriesExist(flags); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	// Guard the state directory against concurrent instances
	lock, err := lockfile.AcquireLock(*flags.stateDir)
	if err != nil {
		slog.Error("Failed to acquire state directory lock", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	st, err := buildStore(flags)
	if err != nil {
		slog.Error("Failed to initialize session store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	matcher, err := buildIntentMatcher(flags)
	if err != nil {
		slog.Error("Failed to load intent document", "error", err, "path", *flags.intentsPath)
		os.Exit(1)
	}

	svc := buildPredictionService(flags)
	chat := buildChatDelegate(flags)
	engine := dialog.NewEngine(st, matcher, svc, chat)

	server := api.NewServer(engine, svc, buildAPIOptions(flags)...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Bootstrapping HydraCoach with configured modules")
	slog.Debug("Final configuration", "state_dir", *flags.stateDir, "dsn_set", *flags.dbDSN != "", "api_addr", *flags.apiAddr, "predictor_set", *flags.predictorURL != "")
	if err := server.Run(ctx); err != nil {
		slog.Error("HydraCoach failed to run", "error", err)
		lock.Release()
		os.Exit(1)
	}
	slog.Info("HydraCoach exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL  string
	StateDir     string
	OpenAIKey    string
	ChatModel    string
	APIAddr      string
	PredictorURL string
	IntentsPath  string
}

// Flags holds command line flag values
type Flags struct {
	stateDir     *string
	dbDSN        *string
	openaiKey    *string
	chatModel    *string
	apiAddr      *string
	predictorURL *string
	intentsPath  *string
}

// initializeLogger sets up structured logging; HYDRACOACH_DEBUG raises the
// level to debug.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("HYDRACOACH_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		StateDir:     os.Getenv("HYDRACOACH_STATE_DIR"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		ChatModel:    os.Getenv("CHAT_MODEL"),
		APIAddr:      os.Getenv("API_ADDR"),
		PredictorURL: os.Getenv("PREDICTOR_URL"),
		IntentsPath:  os.Getenv("INTENTS_PATH"),
	}

	// Set default state directory if not specified
	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No HYDRACOACH_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	} else {
		slog.Debug("HYDRACOACH_STATE_DIR found in environment", "state_dir", config.StateDir)
	}

	// If no database URL is provided, default to SQLite in the state directory
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"HYDRACOACH_STATE_DIR", config.StateDir,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"CHAT_MODEL", config.ChatModel,
		"API_ADDR", config.APIAddr,
		"PREDICTOR_URL_SET", config.PredictorURL != "",
		"INTENTS_PATH", config.IntentsPath)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:     flag.String("state-dir", config.StateDir, "state directory for HydraCoach data (overrides $HYDRACOACH_STATE_DIR)"),
		dbDSN:        flag.String("db-dsn", config.DatabaseURL, "database DSN for the session store (overrides $DATABASE_URL)"),
		openaiKey:    flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key for the chat delegate (overrides $OPENAI_API_KEY)"),
		chatModel:    flag.String("chat-model", config.ChatModel, "chat model name (overrides $CHAT_MODEL)"),
		apiAddr:      flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		predictorURL: flag.String("predictor-url", config.PredictorURL, "base URL of the numeric intake predictor (overrides $PREDICTOR_URL)"),
		intentsPath:  flag.String("intents-path", config.IntentsPath, "path to a custom intent document (overrides $INTENTS_PATH)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"openaiKeySet", *flags.openaiKey != "",
		"apiAddr", *flags.apiAddr,
		"predictorURL_set", *flags.predictorURL != "",
		"intentsPath", *flags.intentsPath)

	// Update database DSN if not explicitly set but state directory is provided
	if *flags.dbDSN == config.DatabaseURL && config.DatabaseURL == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated dbDSN based on state directory", "dsn_updated", true, "old_state_dir", config.StateDir, "new_state_dir", *flags.stateDir)
	}

	return flags
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(flags Flags) error {
	if store.DetectDSNType(*flags.dbDSN) == "postgres" {
		return nil
	}
	stateDir := filepath.Dir(*flags.dbDSN)
	slog.Debug("Creating state directory for file-based database", "state_dir", stateDir)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		slog.Error("Failed to create state directory", "error", err, "state_dir", stateDir)
		return err
	}
	return nil
}

// buildStore selects the session store backend from the DSN.
func buildStore(flags Flags) (store.Store, error) {
	dsn := *flags.dbDSN
	if dsn == "" {
		slog.Debug("No database DSN provided, using in-memory store")
		return store.NewInMemoryStore(), nil
	}
	if store.DetectDSNType(dsn) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store", "dsn_set", true)
		return store.NewPostgresStore(store.WithDSN(dsn))
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", dsn)
	return store.NewSQLiteStore(store.WithDSN(dsn))
}

// buildIntentMatcher loads a custom intent document when configured,
// otherwise uses the embedded one.
func buildIntentMatcher(flags Flags) (*intent.Matcher, error) {
	if *flags.intentsPath == "" {
		return intent.Default(nil), nil
	}
	doc, err := intent.LoadFile(*flags.intentsPath)
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded custom intent document", "path", *flags.intentsPath)
	return intent.NewMatcher(doc, nil), nil
}

// buildPredictionService wires the external intake predictor when a base URL
// is configured; otherwise predictions use the fallback amount.
func buildPredictionService(flags Flags) *hydration.Service {
	if *flags.predictorURL == "" {
		slog.Info("No predictor URL configured, recommendations will use the fallback amount")
		return hydration.NewService(nil)
	}
	timeout := util.ParseDurationEnv("PREDICTOR_TIMEOUT", predictor.DefaultTimeout)
	client, err := predictor.NewClient(predictor.WithBaseURL(*flags.predictorURL), predictor.WithTimeout(timeout))
	if err != nil {
		slog.Warn("Failed to configure predictor client, using fallback amount", "error", err)
		return hydration.NewService(nil)
	}
	return hydration.NewService(client)
}

// buildChatDelegate creates the free-text chat delegate. A missing API key
// disables free chat but leaves the slot-filling dialogue fully functional.
func buildChatDelegate(flags Flags) genai.ClientInterface {
	var opts []genai.Option
	if *flags.openaiKey != "" {
		opts = append(opts, genai.WithAPIKey(*flags.openaiKey))
	}
	if *flags.chatModel != "" {
		opts = append(opts, genai.WithModel(*flags.chatModel))
	}
	client, err := genai.NewClient(opts...)
	if err != nil {
		slog.Warn("Chat delegate disabled", "error", err)
		return nil
	}
	return client
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	if timeout := util.ParseDurationEnv("CHAT_TIMEOUT", 0); timeout > 0 {
		apiOpts = append(apiOpts, api.WithChatTimeout(timeout))
	}
	return apiOpts
}
