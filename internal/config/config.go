package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/zordon-wallet/zordon/internal/core/application"
	"github.com/zordon-wallet/zordon/internal/core/domain"
	"github.com/zordon-wallet/zordon/internal/core/ports"
	"github.com/zordon-wallet/zordon/internal/infrastructure/credstore"
	badgerdb "github.com/zordon-wallet/zordon/internal/infrastructure/db/badger"
	"github.com/zordon-wallet/zordon/internal/infrastructure/params"
	"github.com/zordon-wallet/zordon/internal/infrastructure/pricing"
	"github.com/zordon-wallet/zordon/internal/infrastructure/routing"
	timescheduler "github.com/zordon-wallet/zordon/internal/infrastructure/scheduler/gocron"
	envunlocker "github.com/zordon-wallet/zordon/internal/infrastructure/unlocker/env"
	fileunlocker "github.com/zordon-wallet/zordon/internal/infrastructure/unlocker/file"
)

var (
	supportedDbs = supportedType{
		"badger": {},
	}
	supportedSchedulers = supportedType{
		"gocron": {},
	}
	supportedUnlockers = supportedType{
		"env":  {},
		"file": {},
	}
)

type Config struct {
	Datadir  string
	LogLevel int

	EndpointURL string
	RoutingURL  string
	PricingURL  string

	DbType        string
	SchedulerType string

	UnlockerType     string
	UnlockerFilePath string // file unlocker
	UnlockerPassword string // env unlocker

	MaxSlippageBps  int
	PollInterval    time.Duration
	MaxPollAttempts int
	NoParamsFetch   bool

	settingsRepo domain.SettingsRepository
	credStore    ports.CredentialStore
	routing      ports.RoutingClient
	pricing      ports.PricingService
	scheduler    ports.SchedulerService
	unlocker     ports.Unlocker
	engine       *application.QuoteEngine
	orchestrator *application.Orchestrator
	downloader   *params.Downloader
}

func (c Config) String() string {
	clone := c
	if clone.UnlockerPassword != "" {
		clone.UnlockerPassword = "••••••"
	}
	return fmt.Sprintf("%+v", clone)
}

const (
	defaultDbType        = "badger"
	defaultSchedulerType = "gocron"
	defaultLogLevel      = 4
	defaultEndpointURL   = "https://zec.rocks:443"
	defaultRoutingURL    = "https://router.zordon.cash/v1"
	defaultPricingURL    = "https://api.coingecko.com/api/v3"

	defaultMaxSlippageBps  = 100
	defaultPollInterval    = 3 * time.Second
	defaultMaxPollAttempts = 20
)

var defaultDatadir = dataDir()

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zordon"
	}
	return filepath.Join(home, ".zordon")
}

// env returns a list of strings prefixed with `ZORDON_`.
// This is used as a syntax sugar for defining env vars.
func env(values ...string) []string {
	envs := make([]string, len(values))

	for i, value := range values {
		envs[i] = fmt.Sprintf("ZORDON_%s", value)
	}

	return envs
}

var (
	Datadir = &cli.StringFlag{
		Usage: "Directory to store data",
		Name:  "datadir", EnvVars: env("DATADIR"),
		Value: defaultDatadir,
	}

	LogLevel = &cli.IntFlag{
		Usage: "Logging level (0-6, where 6 is trace)",
		Name:  "log-level", EnvVars: env("LOG_LEVEL"),
		Value: defaultLogLevel,
	}

	EndpointURL = &cli.StringFlag{
		Usage: "Primary lightwalletd endpoint url",
		Name:  "endpoint-url", EnvVars: env("ENDPOINT_URL"),
		Value: defaultEndpointURL,
	}

	RoutingURL = &cli.StringFlag{
		Usage: "Cross-chain routing service base url",
		Name:  "routing-url", EnvVars: env("ROUTING_URL"),
		Value: defaultRoutingURL,
	}

	PricingURL = &cli.StringFlag{
		Usage: "Price oracle base url",
		Name:  "pricing-url", EnvVars: env("PRICING_URL"),
		Value: defaultPricingURL,
	}

	DbType = &cli.StringFlag{
		Usage: "Database type (badger)",
		Name:  "db-type", EnvVars: env("DB_TYPE"),
		Value: defaultDbType,
	}

	SchedulerType = &cli.StringFlag{
		Usage: "Scheduler type (gocron)",
		Name:  "scheduler-type", EnvVars: env("SCHEDULER_TYPE"),
		Value: defaultSchedulerType,
	}

	UnlockerType = &cli.StringFlag{
		Usage: "Credential unlocker type (env, file) to enable auto-unlock",
		Name:  "unlocker-type", EnvVars: env("UNLOCKER_TYPE"),
	}

	UnlockerFilePath = &cli.StringFlag{
		Usage: "Path to unlocker file",
		Name:  "unlocker-file-path", EnvVars: env("UNLOCKER_FILE_PATH"),
	}

	UnlockerPassword = &cli.StringFlag{
		Usage: "Credential unlocker password",
		Name:  "unlocker-password", EnvVars: env("UNLOCKER_PASSWORD"),
	}

	MaxSlippageBps = &cli.IntFlag{
		Usage: "Maximum accepted quote slippage in basis points",
		Name:  "max-slippage-bps", EnvVars: env("MAX_SLIPPAGE_BPS"),
		Value: defaultMaxSlippageBps,
	}

	PollInterval = &cli.DurationFlag{
		Usage: "Interval between intent status polls",
		Name:  "poll-interval", EnvVars: env("POLL_INTERVAL"),
		Value: defaultPollInterval,
	}

	MaxPollAttempts = &cli.IntFlag{
		Usage: "Maximum number of intent status polls before giving up",
		Name:  "max-poll-attempts", EnvVars: env("MAX_POLL_ATTEMPTS"),
		Value: defaultMaxPollAttempts,
	}

	NoParamsFetch = &cli.BoolFlag{
		Usage: "Skip downloading proving parameters on configure",
		Name:  "no-params-fetch", EnvVars: env("NO_PARAMS_FETCH"),
	}
)

var Flags = []cli.Flag{
	Datadir,
	LogLevel,
	EndpointURL,
	RoutingURL,
	PricingURL,
	DbType,
	SchedulerType,
	UnlockerType,
	UnlockerFilePath,
	UnlockerPassword,
	MaxSlippageBps,
	PollInterval,
	MaxPollAttempts,
	NoParamsFetch,
}

func LoadConfig(c *cli.Context) (*Config, error) {
	if err := initDatadir(c); err != nil {
		return nil, fmt.Errorf("failed to create datadir: %s", err)
	}

	return &Config{
		Datadir:          c.String(Datadir.Name),
		LogLevel:         c.Int(LogLevel.Name),
		EndpointURL:      c.String(EndpointURL.Name),
		RoutingURL:       c.String(RoutingURL.Name),
		PricingURL:       c.String(PricingURL.Name),
		DbType:           c.String(DbType.Name),
		SchedulerType:    c.String(SchedulerType.Name),
		UnlockerType:     c.String(UnlockerType.Name),
		UnlockerFilePath: c.String(UnlockerFilePath.Name),
		UnlockerPassword: c.String(UnlockerPassword.Name),
		MaxSlippageBps:   c.Int(MaxSlippageBps.Name),
		PollInterval:     c.Duration(PollInterval.Name),
		MaxPollAttempts:  c.Int(MaxPollAttempts.Name),
		NoParamsFetch:    c.Bool(NoParamsFetch.Name),
	}, nil
}

func (c *Config) Validate() error {
	if !supportedDbs.supports(c.DbType) {
		return fmt.Errorf("db type not supported, please select one of: %s", supportedDbs)
	}
	if !supportedSchedulers.supports(c.SchedulerType) {
		return fmt.Errorf(
			"scheduler type not supported, please select one of: %s",
			supportedSchedulers,
		)
	}
	if len(c.UnlockerType) > 0 && !supportedUnlockers.supports(c.UnlockerType) {
		return fmt.Errorf(
			"unlocker type not supported, please select one of: %s",
			supportedUnlockers,
		)
	}
	if len(c.EndpointURL) <= 0 {
		return fmt.Errorf("missing endpoint url")
	}
	if len(c.RoutingURL) <= 0 {
		return fmt.Errorf("missing routing url")
	}
	if c.MaxSlippageBps < 0 {
		return fmt.Errorf("invalid max slippage, must be a non-negative bps amount")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid poll interval")
	}
	if c.MaxPollAttempts <= 0 {
		return fmt.Errorf("invalid max poll attempts")
	}

	if err := c.unlockerService(); err != nil {
		return err
	}
	if err := c.settingsRepoService(); err != nil {
		return err
	}
	if err := c.credStoreService(); err != nil {
		return err
	}
	if err := c.routingService(); err != nil {
		return err
	}
	if err := c.pricingService(); err != nil {
		return err
	}
	if err := c.schedulerService(); err != nil {
		return err
	}
	c.engine = application.NewQuoteEngine(c.routing)
	c.orchestrator = application.NewOrchestrator(
		c.engine, c.routing,
		application.WithPollInterval(c.PollInterval),
		application.WithMaxPollAttempts(c.MaxPollAttempts),
	)
	if !c.NoParamsFetch {
		c.downloader = params.NewDownloader()
	}
	return nil
}

func (c *Config) SettingsRepository() domain.SettingsRepository {
	return c.settingsRepo
}

func (c *Config) CredentialStore() ports.CredentialStore {
	return c.credStore
}

func (c *Config) RoutingClient() ports.RoutingClient {
	return c.routing
}

func (c *Config) PricingService() ports.PricingService {
	return c.pricing
}

func (c *Config) SchedulerService() ports.SchedulerService {
	return c.scheduler
}

func (c *Config) UnlockerService() ports.Unlocker {
	return c.unlocker
}

func (c *Config) QuoteEngine() *application.QuoteEngine {
	return c.engine
}

func (c *Config) Orchestrator() *application.Orchestrator {
	return c.orchestrator
}

// SyncService builds the sync service around an injected synchronizer
// factory. The factory is supplied by the caller because the chain-sync
// SDK binding is selected at build time.
func (c *Config) SyncService(factory ports.SynchronizerFactory) *application.SyncService {
	opts := []application.SyncServiceOption{}
	if c.downloader != nil {
		opts = append(opts, application.WithParamsEnsurer(c.downloader))
	}
	return application.NewSyncService(
		c.Datadir, c.settingsRepo, c.credStore, factory, c.scheduler, opts...,
	)
}

func (c *Config) unlockerService() error {
	if len(c.UnlockerType) <= 0 {
		return nil
	}

	var svc ports.Unlocker
	var err error
	switch c.UnlockerType {
	case "file":
		svc, err = fileunlocker.NewService(c.UnlockerFilePath)
	case "env":
		svc, err = envunlocker.NewService(c.UnlockerPassword)
	default:
		err = fmt.Errorf("unknown unlocker type")
	}
	if err != nil {
		return err
	}
	c.unlocker = svc
	return nil
}

func (c *Config) settingsRepoService() error {
	svc, err := badgerdb.NewSettingsRepository(filepath.Join(c.Datadir, "db"), nil)
	if err != nil {
		return err
	}
	c.settingsRepo = svc
	return nil
}

func (c *Config) credStoreService() error {
	svc, err := credstore.New(filepath.Join(c.Datadir, "db"), nil, c.unlocker)
	if err != nil {
		return err
	}
	c.credStore = svc
	return nil
}

func (c *Config) routingService() error {
	c.routing = routing.New(c.RoutingURL)
	return nil
}

func (c *Config) pricingService() error {
	c.pricing = pricing.New(c.PricingURL)
	return nil
}

func (c *Config) schedulerService() error {
	c.scheduler = timescheduler.NewScheduler()
	c.scheduler.Start()
	return nil
}

func initDatadir(c *cli.Context) error {
	datadir := c.String(Datadir.Name)
	return makeDirectoryIfNotExists(datadir)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	return strings.Join(types, " | ")
}

func (t supportedType) supports(typeStr string) bool {
	_, ok := t[typeStr]
	return ok
}
