package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rohmanhakim/review-parser/internal/build"
	"github.com/rohmanhakim/review-parser/internal/config"
	"github.com/rohmanhakim/review-parser/internal/httpapi"
	"github.com/rohmanhakim/review-parser/internal/metadata"
	"github.com/rohmanhakim/review-parser/internal/resolver"
	"github.com/spf13/cobra"
)

/*
 * The cli package wires configuration, the resolver pipeline and the HTTP
 * surface together and owns the process lifecycle: it is the only place
 * that installs signal handlers, starts the listener and decides when the
 * process exits.
 */

var (
	cfgFile           string
	fromEnv           bool
	baseUrl           string
	userAgent         string
	fetchTimeout      time.Duration
	cacheMaxEntries   int
	cacheExpiry       time.Duration
	listenAddr        string
	ratingAttribute   string
	reviewsCountClass string
)

// shutdownTimeout bounds how long in-flight requests may run once a
// termination signal arrives.
const shutdownTimeout = 30 * time.Second

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "review-parser",
	Short: "An HTTP service that reads review ratings off retailer pages.",
	Long: `review-parser is an HTTP service that resolves a domain name to the
star rating and review count published on its review page. Results are kept
in a bounded in-memory cache that expires entries after a period of no
access, so repeated lookups for a popular domain cost a single upstream
fetch.

The service exposes GET /api/parse/{domain} for lookups, /healthz for
liveness checks and /metrics for Prometheus scrapes.`,
	Run: func(cmd *cobra.Command, args []string) {
		// The result cache refuses to run unbounded. File and env configs
		// validate this on load; flag-built configs enforce it here so the
		// operator sees the flag name instead of a builder error.
		if cfgFile == "" && !fromEnv && cacheMaxEntries <= 0 {
			fmt.Fprintf(os.Stderr, "Error: --cache-max-entries is required. Please provide a maximum size for the result cache.\n")
			cmd.Usage()
			os.Exit(1)
		}

		cfg := InitConfig()

		// Display configuration for verification
		fmt.Printf("Configuration initialized successfully\n")
		fmt.Printf("Listen Addr: %s\n", cfg.ListenAddr())
		fmt.Printf("Base URL: %s\n", cfg.BaseUrl())
		fmt.Printf("User Agent: %s\n", cfg.UserAgent())
		fmt.Printf("Fetch Timeout: %v\n", cfg.FetchTimeout())
		fmt.Printf("Cache Max Entries: %d\n", cfg.CacheMaxEntries())
		fmt.Printf("Cache Expiry: %v\n", cfg.CacheExpiry())

		if err := runServer(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	},
}

// versionCmd reports the version stamped into the binary at build time
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("review-parser %s (built %s)\n", build.FullVersion(), build.BuildTime)
	},
}

// runServer assembles the pipeline behind the HTTP surface and blocks until
// a termination signal arrives or the listener fails, then drains in-flight
// requests before returning.
func runServer(cfg config.Config) error {
	logger := slog.Default()
	recorder := metadata.NewRecorder(logger)
	reviewResolver := resolver.NewResolver(cfg, &recorder)
	server := httpapi.NewServer(cfg.ListenAddr(), &reviewResolver)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	serveErrChan := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.ListenAddr())
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			serveErrChan <- err
		}
	}()

	select {
	case sig := <-signalChan:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serveErrChan:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Here you will define your flags and configuration settings.
	// Cobra supports persistent flags, which, if defined here,
	// will be available to all subcommands in the review-parser application.
	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().BoolVar(&fromEnv, "from-env", false, "load configuration from REVIEW_PARSER_* environment variables")
	rootCmd.PersistentFlags().StringVar(&baseUrl, "base-url", "", "base URL prefixed to every domain before fetching")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for upstream HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&fetchTimeout, "fetch-timeout", 0, "timeout for upstream HTTP requests")
	rootCmd.PersistentFlags().IntVar(&cacheMaxEntries, "cache-max-entries", 0, "maximum number of cached results (required)")
	rootCmd.PersistentFlags().DurationVar(&cacheExpiry, "cache-expiry", 0, "idle time after which a cached result expires")
	rootCmd.PersistentFlags().StringVar(&listenAddr, "listen-addr", "", "address the HTTP API listens on")
	rootCmd.PersistentFlags().StringVar(&ratingAttribute, "rating-attribute", "", "attribute that marks the rating element")
	rootCmd.PersistentFlags().StringVar(&reviewsCountClass, "reviews-count-class", "", "class list that marks the review count element")
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() config.Config {
	cfg, err := InitConfigWithError()
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError reads in config file and ENV variables if set, returning any errors.
// This makes it easier to test error cases.
func InitConfigWithError() (config.Config, error) {
	if cfgFile != "" {
		fmt.Printf("Initializing config from file: %s\n", cfgFile)
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	if fromEnv {
		fmt.Println("Initializing config from environment")
		cfg, err := config.FromEnv()
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from environment: %w", err)
		}
		return cfg, nil
	}

	if cacheMaxEntries <= 0 {
		return config.Config{}, fmt.Errorf("%w: cacheMaxEntries must be positive", config.ErrInvalidConfig)
	}

	// Build config from CLI flags using the With... functions with method chaining
	fmt.Println("No config file specified. Building config from flag values")

	// Start with the mandatory cache bound and apply overrides using method chaining
	configBuilder := config.WithDefault(cacheMaxEntries)

	// Override with CLI flag values where provided
	if baseUrl != "" {
		configBuilder = configBuilder.WithBaseUrl(baseUrl)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if fetchTimeout > 0 {
		configBuilder = configBuilder.WithFetchTimeout(fetchTimeout)
	}

	if cacheExpiry > 0 {
		configBuilder = configBuilder.WithCacheExpiry(cacheExpiry)
	}

	if listenAddr != "" {
		configBuilder = configBuilder.WithListenAddr(listenAddr)
	}

	if ratingAttribute != "" {
		configBuilder = configBuilder.WithRatingAttribute(ratingAttribute)
	}

	if reviewsCountClass != "" {
		configBuilder = configBuilder.WithReviewsCountClass(reviewsCountClass)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ResetFlags() {
	cfgFile = ""
	fromEnv = false
	baseUrl = ""
	userAgent = ""
	fetchTimeout = 0
	cacheMaxEntries = 0
	cacheExpiry = 0
	listenAddr = ""
	ratingAttribute = ""
	reviewsCountClass = ""
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetFromEnvForTest(enabled bool) {
	fromEnv = enabled
}

func SetBaseUrlForTest(url string) {
	baseUrl = url
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetFetchTimeoutForTest(timeout time.Duration) {
	fetchTimeout = timeout
}

func SetCacheMaxEntriesForTest(maxEntries int) {
	cacheMaxEntries = maxEntries
}

func SetCacheExpiryForTest(expiry time.Duration) {
	cacheExpiry = expiry
}

func SetListenAddrForTest(addr string) {
	listenAddr = addr
}

func SetRatingAttributeForTest(attribute string) {
	ratingAttribute = attribute
}

func SetReviewsCountClassForTest(class string) {
	reviewsCountClass = class
}
