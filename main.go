package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/Chaeeun2/alolot/api"
	"github.com/Chaeeun2/alolot/config"
	"github.com/Chaeeun2/alolot/database"
	"github.com/Chaeeun2/alolot/services"
	"github.com/Chaeeun2/alolot/storage"
)

const startupTimeout = 30 * time.Second

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogger(c)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if prefix := config.GetString(c, "SSM_PARAMETER_PATH", ""); prefix != "" {
		client, err := config.NewSSMClient(ctx, config.GetString(c, "AWS_REGION", ""))
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating SSM client")
		}
		n, err := config.LoadSSM(ctx, client, c, prefix)
		if err != nil {
			log.Fatal().Err(err).Str("path", prefix).Msg("Error loading SSM parameters")
		}
		log.Info().Int("parameters", n).Str("path", prefix).Msg("Loaded configuration from SSM")
		// Re-apply logging in case LOG_LEVEL came from SSM.
		setupLogger(c)
	}

	files, err := openObjectStore(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening object store")
	}

	// The Firestore client outlives startup, so it is not bound to ctx.
	store, err := openDocumentStore(context.Background(), c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	currentDB := database.New(store, files)
	defer currentDB.Close()

	// If generating the sitemap, write it and exit. Failures are logged only.
	if config.GetBool(c, "GENERATE_SITEMAP", false) {
		generator := services.NewSitemapGenerator(currentDB.ProjectRepo(), config.GetString(c, "PUBLIC_BASE_URL", services.DefaultPublicBaseURL))
		generator.Generate(ctx, config.GetString(c, "SITEMAP_OUT", "public/sitemap.xml"))
		return
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, files, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogger configures the global zerolog logger from LOG_LEVEL and
// LOG_FORMAT ("console" for coloured development output, JSON otherwise).
func setupLogger(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if config.GetString(c, "LOG_FORMAT", "json") == "console" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// openDocumentStore selects the document store by DB_TYPE.
func openDocumentStore(ctx context.Context, c map[string]string) (database.DocumentStore, error) {
	dbType := config.GetString(c, "DB_TYPE", "firestore")
	log.Info().Str("DB_TYPE", dbType).Msg("Opening document store")

	switch dbType {
	case "firestore":
		if missing := config.Require(c, "FIREBASE_PROJECT_ID"); len(missing) > 0 {
			return nil, fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
		}
		return database.NewFirestoreStore(ctx, config.GetString(c, "FIREBASE_PROJECT_ID", ""), config.GetString(c, "FIREBASE_CREDENTIALS_FILE", ""))
	case "memory":
		log.Warn().Msg("Using the in-memory document store, data is lost on exit")
		return database.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// openObjectStore selects the upload bucket by STORAGE_TYPE.
func openObjectStore(ctx context.Context, c map[string]string) (storage.ObjectStore, error) {
	storageType := config.GetString(c, "STORAGE_TYPE", "r2")
	log.Info().Str("STORAGE_TYPE", storageType).Msg("Opening object store")

	switch storageType {
	case "r2":
		missing := config.Require(c, "R2_ENDPOINT", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_URL")
		if len(missing) > 0 {
			return nil, fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
		}
		return storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:        config.GetString(c, "R2_ENDPOINT", ""),
			AccessKeyID:     config.GetString(c, "R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: config.GetString(c, "R2_SECRET_ACCESS_KEY", ""),
			Bucket:          config.GetString(c, "R2_BUCKET_NAME", ""),
			Region:          config.GetString(c, "R2_REGION", "auto"),
			PublicURL:       config.GetString(c, "R2_PUBLIC_URL", ""),
		})
	case "memory":
		publicURL := config.GetString(c, "R2_PUBLIC_URL", "http://localhost:"+config.GetString(c, "PORT", "8080")+"/files")
		log.Warn().Str("publicURL", publicURL).Msg("Using the in-memory object store, uploads are lost on exit")
		return storage.NewMemoryStore(publicURL), nil
	default:
		return nil, fmt.Errorf("unsupported STORAGE_TYPE %q", storageType)
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
