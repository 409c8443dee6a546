package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"agriforecast/predict"
)

type Config struct {
	MongoURI       string
	MongoDB        string
	PredictorURL   string
	PredictorRoute string
	JWTSecret      string
	Port           string
	LogLevel       string
	Env            string
}

func mustConfig() Config {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	cfg := Config{
		MongoURI:       getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getenv("MONGO_DB", "agriforecast"),
		PredictorURL:   getenv("PREDICTOR_URL", predict.DefaultBaseURL),
		PredictorRoute: getenv("PREDICTOR_ROUTES", "api"),
		JWTSecret:      getenv("JWT_SECRET", "change_me"),
		Port:           getenv("PORT", "8080"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		Env:            getenv("ENV", "production"),
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// setupLogger configures the global zerolog logger from cfg.
func setupLogger(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "agriforecast-api").Logger()
	if cfg.Env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Logger = logger
	return logger
}
