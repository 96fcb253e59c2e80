package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/render"
	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/store"
)

var (
	ingestDir     string
	ingestFile    string
	ingestKind    string
	ingestPercent bool
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Import monthly usage CSV exports into the database",
		Args:  cobra.NoArgs,
		RunE:  runIngestCmd,
	}
	cmd.Flags().StringVar(&ingestDir, "dir", "data", "directory holding the export CSVs")
	cmd.Flags().StringVar(&ingestFile, "file", "", "import a single CSV (requires --kind)")
	cmd.Flags().StringVar(&ingestKind, "kind", "", "dataset of --file: usage, base, counters, spreads, teammates, abilities, items, moves, teratypes")
	cmd.Flags().BoolVar(&ingestPercent, "percent", false, "usage columns are 0-100 percentages")
	return cmd
}

// ImportSummary reports the rows written per dataset.
type ImportSummary struct {
	DB     string         `json:"db" yaml:"db"`
	Counts map[string]int `json:"counts" yaml:"counts"`
	Total  int            `json:"total" yaml:"total"`
}

func (s ImportSummary) tables() []render.Table {
	t := render.Table{Title: "Imported into " + s.DB, Headers: []string{"Dataset", "Rows"}, Right: map[int]bool{1: true}, Empty: "no export files found"}
	kinds := make([]string, 0, len(s.Counts))
	for k := range s.Counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		t.Rows = append(t.Rows, []string{k, render.Count(uint64(s.Counts[k]))})
	}
	if len(t.Rows) > 0 {
		t.Rows = append(t.Rows, []string{"total", render.Count(uint64(s.Total))})
	}
	return []render.Table{t}
}

func runIngestCmd(cmd *cobra.Command, _ []string) error {
	applyStringConfig(cmd, "dir", &ingestDir, fileCfg.Data.ImportDir)
	applyBoolConfig(cmd, "percent", &ingestPercent, fileCfg.Data.Percent)

	d, closeDeps, err := openDeps(true)
	if err != nil {
		return err
	}
	defer closeDeps()

	opts := store.ImportOptions{Percent: ingestPercent}
	summary := ImportSummary{DB: dbPath, Counts: map[string]int{}}
	if ingestFile != "" {
		kind, ok := store.KindForFile(filepath.Base(ingestFile))
		if ingestKind != "" {
			if kind, err = store.ParseKind(ingestKind); err != nil {
				return err
			}
		} else if !ok {
			return fmt.Errorf("cannot tell the dataset of %s; pass --kind", ingestFile)
		}
		f, err := os.Open(ingestFile)
		if err != nil {
			return err
		}
		defer f.Close()
		n, err := d.DB.ImportCSV(cmd.Context(), kind, f, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", ingestFile, err)
		}
		log.Printf("imported %d rows from %s", n, ingestFile)
		summary.Counts[string(kind)] = n
		summary.Total = n
		return printOutput(cmd, summary)
	}

	counts, err := d.DB.ImportDir(cmd.Context(), ingestDir, opts)
	if err != nil {
		return err
	}
	for k, n := range counts {
		summary.Counts[string(k)] = n
		summary.Total += n
	}
	return printOutput(cmd, summary)
}

var syncForce bool

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch and cache species profiles for every species in the selected format",
		Args:  cobra.NoArgs,
		RunE:  runSyncCmd,
	}
	cmd.Flags().BoolVar(&syncForce, "force", false, "refetch cached profiles")
	return cmd
}

// SyncSummary reports a species cache warm-up.
type SyncSummary struct {
	Species int `json:"species" yaml:"species"`
	Fetched int `json:"fetched" yaml:"fetched"`
}

func (s SyncSummary) tables() []render.Table {
	return []render.Table{{
		Title: "Species cache",
		Rows: [][]string{
			{"species", render.Int(s.Species)},
			{"profiles", render.Int(s.Fetched)},
		},
		Right: map[int]bool{1: true},
	}}
}

func runSyncCmd(cmd *cobra.Command, _ []string) error {
	d, closeDeps, err := openDeps(true)
	if err != nil {
		return err
	}
	defer closeDeps()
	if err := d.requireSpecies(); err != nil {
		return err
	}
	sel, err := d.selector("", "", nil, "", "")
	if err != nil {
		return err
	}
	names, err := d.DB.Species(cmd.Context(), sel)
	if err != nil {
		return err
	}
	if syncForce {
		if err := os.RemoveAll(fetchCacheDir); err != nil {
			return err
		}
	}
	log.Printf("fetching %d species profiles (%d in parallel)", len(names), d.Parallel)
	profiles, err := d.Species.Profiles(cmd.Context(), names, d.Parallel)
	if err != nil {
		return err
	}
	return printOutput(cmd, SyncSummary{Species: len(names), Fetched: len(profiles)})
}
