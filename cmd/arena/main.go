// Package main provides the arena CLI and MCP server.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/config"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/fetch"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/render"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/store"
)

const (
	defaultGeneration = "gen9"
	defaultFormat     = "ou"
	defaultRating     = 0
)

var (
	configPath string
	dbPath     string
	outputFmt  string

	queryGeneration string
	queryFormat     string
	queryRating     int
	queryFrom       string
	queryTo         string

	fetchBaseURL  string
	fetchCacheDir string
	fetchTTL      time.Duration
	fetchParallel int
	fetchSleep    time.Duration
	fetchOffline  bool

	fileCfg config.FileConfig
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "arena",
		Short:             "Competitive usage analytics and battle calculators",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: loadFileConfig,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultConfigPath(), "config file")
	pf.StringVar(&dbPath, "db", config.DefaultDBPath(), "SQLite database path")
	pf.StringVarP(&outputFmt, "output", "o", string(render.FormatTable), "output format: table, json or yaml")
	pf.StringVar(&queryGeneration, "generation", defaultGeneration, "generation, e.g. gen9")
	pf.StringVar(&queryFormat, "format", defaultFormat, "battle format, e.g. ou")
	pf.IntVar(&queryRating, "rating", defaultRating, "rating bucket (-1 = all)")
	pf.StringVar(&queryFrom, "from", "", "first month YYYY-MM")
	pf.StringVar(&queryTo, "to", "", "last month YYYY-MM")
	pf.StringVar(&fetchBaseURL, "api-url", fetch.DefaultBaseURL, "species API base URL")
	pf.StringVar(&fetchCacheDir, "cache-dir", config.DefaultCacheDir(), "species response cache directory")
	pf.DurationVar(&fetchTTL, "cache-ttl", fetch.DefaultTTL, "species cache lifetime")
	pf.IntVar(&fetchParallel, "parallel", fetch.DefaultParallel, "concurrent species requests")
	pf.DurationVar(&fetchSleep, "api-sleep", 0, "delay before each species request")
	pf.BoolVar(&fetchOffline, "offline", false, "disable species API lookups")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newUsageCmd())
	rootCmd.AddCommand(newTeammatesCmd())
	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newCountersCmd())
	rootCmd.AddCommand(newViabilityCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newEVCmd())
	rootCmd.AddCommand(newTypesCmd())
	rootCmd.AddCommand(newCoverageCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newFormatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadFileConfig reads the TOML config and applies it to every flag the user
// did not set explicitly.
func loadFileConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg = cfg

	applyStringConfig(cmd, "db", &dbPath, cfg.Data.DB)
	applyStringConfig(cmd, "output", &outputFmt, cfg.Query.Output)
	applyStringConfig(cmd, "generation", &queryGeneration, cfg.Query.Generation)
	applyStringConfig(cmd, "format", &queryFormat, cfg.Query.BattleFormat)
	applyIntConfig(cmd, "rating", &queryRating, cfg.Query.Rating)
	applyStringConfig(cmd, "from", &queryFrom, cfg.Query.From)
	applyStringConfig(cmd, "to", &queryTo, cfg.Query.To)
	applyStringConfig(cmd, "api-url", &fetchBaseURL, cfg.Fetch.BaseURL)
	applyStringConfig(cmd, "cache-dir", &fetchCacheDir, cfg.Fetch.CacheDir)
	applyIntConfig(cmd, "parallel", &fetchParallel, cfg.Fetch.Parallel)
	applyBoolConfig(cmd, "offline", &fetchOffline, cfg.Fetch.Offline)
	if err := applyDurationConfig(cmd, "cache-ttl", &fetchTTL, cfg.Fetch.TTL); err != nil {
		return err
	}
	if cfg.Fetch.SleepMS != nil && !cmd.Flags().Changed("api-sleep") {
		fetchSleep = time.Duration(*cfg.Fetch.SleepMS) * time.Millisecond
	}
	if _, err := render.ParseFormat(outputFmt); err != nil {
		return err
	}
	return nil
}

// openDeps opens the database (when needDB is set) and the species client.
// The returned func releases them.
func openDeps(needDB bool) (Deps, func(), error) {
	d := Deps{
		Defaults: QueryDefaults{
			Generation:   queryGeneration,
			BattleFormat: queryFormat,
			From:         queryFrom,
			To:           queryTo,
		},
		Parallel: fetchParallel,
	}
	if queryRating >= 0 {
		r := uint32(queryRating)
		d.Defaults.Rating = &r
	}

	if !fetchOffline {
		client := fetch.NewClient(store.NewRawCache(fetchCacheDir, fetchTTL))
		client.BaseURL = fetchBaseURL
		client.Sleep = fetchSleep
		client.SetTTL(fetch.DefaultCacheSize, fetchTTL)
		d.Species = client
	}

	cleanup := func() {}
	if needDB {
		db, err := store.Open(dbPath)
		if err != nil {
			return Deps{}, cleanup, fmt.Errorf("failed to open db: %w", err)
		}
		d.DB = db
		cleanup = func() {
			if cerr := db.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}
	}
	return d, cleanup, nil
}

type tabler interface {
	tables() []render.Table
}

func printOutput(cmd *cobra.Command, v tabler) error {
	f, err := render.ParseFormat(outputFmt)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	return render.Write(w, f, v, render.DetectOptions(w), v.tables)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil || cmd.Flags().Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return fmt.Errorf("config %s: %w", name, err)
	}
	*target = d
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
