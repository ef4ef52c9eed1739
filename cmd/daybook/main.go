package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/stellarlinkco/daybook/internal/backup"
	"github.com/stellarlinkco/daybook/internal/config"
	"github.com/stellarlinkco/daybook/internal/cron"
	"github.com/stellarlinkco/daybook/internal/memory"
)

var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "daybook - daily markdown memory store",
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize config and memory store",
	RunE:  runInit,
}

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Append a timestamped entry to a daily file",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show a day's memory file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search memory files by text, tags and date range",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSearch,
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent entries",
	RunE:  runRecent,
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags by occurrence count",
	RunE:  runTags,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics and streaks",
	RunE:  runStats,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a date range to JSON or YAML",
	RunE:  runExport,
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive files older than a threshold and remove them",
	RunE:  runArchive,
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Compress the whole store into a tar.gz archive",
	RunE:  runBackup,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daybook status",
	RunE:  runStatus,
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run scheduled backup and archival until interrupted",
	RunE:  runDaemon,
}

var (
	dateFlag      string
	fromFlag      string
	toFlag        string
	tagFlags      []string
	searchLimit   int
	recentLimit   int
	outputFlag    string
	fullFlag      bool
	formatFlag    string
	olderThanFlag int
	entriesFlag   bool
)

func init() {
	addCmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Target date expression (default today)")

	showCmd.Flags().BoolVar(&entriesFlag, "entries", false, "Print parsed entries instead of raw content")

	searchCmd.Flags().StringVar(&fromFlag, "from", "", "Start of date range")
	searchCmd.Flags().StringVar(&toFlag, "to", "", "End of date range")
	searchCmd.Flags().StringArrayVarP(&tagFlags, "tag", "t", nil, "Filter by tag (repeatable)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", config.DefaultSearchLimit, "Maximum results")

	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", config.DefaultRecentLimit, "Maximum entries")

	exportCmd.Flags().StringVar(&fromFlag, "from", "", "Start of date range")
	exportCmd.Flags().StringVar(&toFlag, "to", "", "End of date range")
	exportCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write to file instead of stdout")
	exportCmd.Flags().BoolVar(&fullFlag, "full", false, "Include raw file content")
	exportCmd.Flags().StringVar(&formatFlag, "format", memory.FormatJSON, "Export format: json or yaml")

	archiveCmd.Flags().IntVar(&olderThanFlag, "older-than", 0, "Age threshold in days (default from config)")
	archiveCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Archive export path")

	backupCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Backup archive path")

	rootCmd.AddCommand(initCmd, addCmd, showCmd, searchCmd, recentCmd, tagsCmd,
		statsCmd, exportCmd, archiveCmd, backupCmd, statusCmd, daemonCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore() (*memory.Store, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return memory.NewStore(cfg.Memory.Dir), cfg, nil
}

func runInit(cmd *cobra.Command, args []string) error {
	cfgPath := config.ConfigPath()
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := config.SaveConfig(config.DefaultConfig()); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Created config: %s\n", cfgPath)
	} else {
		fmt.Printf("Config already exists: %s\n", cfgPath)
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}
	created, err := store.EnsureDir()
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("Created memory store: %s\n", store.Dir())
	} else {
		fmt.Printf("Memory store ready: %s\n", store.Dir())
	}

	fmt.Println("\nNext steps:")
	fmt.Println("  1. daybook add \"First entry #hello\"")
	fmt.Println("  2. daybook show")
	fmt.Println("  3. Set DAYBOOK_MEMORY_DIR to relocate the store")
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("nothing to add")
	}
	store, _, err := openStore()
	if err != nil {
		return err
	}
	res, err := store.Append(dateFlag, text)
	if err != nil {
		return err
	}
	fmt.Printf("Added to %s at %s\n", res.Date, res.Time)
	if len(res.Tags) > 0 {
		fmt.Printf("Tags: %s\n", joinTags(res.Tags))
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	expr := ""
	if len(args) > 0 {
		expr = args[0]
	}
	view, err := store.Show(expr)
	if err != nil {
		return err
	}
	if !view.Exists {
		fmt.Printf("No memory for %s\n", view.Date)
		return nil
	}
	if entriesFlag {
		fmt.Printf("# %s (%d entries)\n", view.Date, len(view.Entries))
		for _, e := range view.Entries {
			fmt.Printf("  %s  %s\n", e.Time, e.Text)
		}
		if len(view.Tags) > 0 {
			fmt.Printf("Tags: %s\n", joinTags(view.Tags))
		}
		return nil
	}
	fmt.Print(view.Content)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	results, err := store.Search(memory.SearchOptions{
		Query: query,
		Tags:  tagFlags,
		From:  fromFlag,
		To:    toFlag,
		Limit: searchLimit,
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No matches")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%s:%d  %s\n", r.File, r.Line, r.Text)
	}
	fmt.Printf("\n%d result(s)\n", len(results))
	return nil
}

func runRecent(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	entries, err := store.Recent(recentLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No entries")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s %s  %s\n", e.Date, e.Time, e.Text)
	}
	return nil
}

func runTags(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	tags, err := store.Tags()
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		fmt.Println("No tags")
		return nil
	}
	for _, t := range tags {
		fmt.Printf("%4d  #%s\n", t.Count, t.Tag)
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	st, err := store.Stats()
	if err != nil {
		return err
	}
	if st.TotalFiles == 0 {
		fmt.Println("Store is empty")
		return nil
	}
	fmt.Printf("Files: %d\n", st.TotalFiles)
	fmt.Printf("Entries: %d\n", st.TotalEntries)
	fmt.Printf("Words: %d\n", st.TotalWords)
	fmt.Printf("Range: %s .. %s\n", st.DateRange.From, st.DateRange.To)
	fmt.Printf("Entries/day: %.1f\n", st.AverageEntriesPerDay)
	fmt.Printf("Words/entry: %d\n", st.AverageWordsPerEntry)
	if st.MostActiveDay != nil {
		fmt.Printf("Most active: %s (%d entries)\n", st.MostActiveDay.Date, st.MostActiveDay.Entries)
	}
	fmt.Printf("Streak: %d current, %d longest\n", st.CurrentStreak, st.LongestStreak)
	if len(st.TopTags) > 0 {
		fmt.Println("Top tags:")
		for _, t := range st.TopTags {
			fmt.Printf("  %4d  #%s\n", t.Count, t.Tag)
		}
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	opts := memory.ExportOptions{From: fromFlag, To: toFlag, Full: fullFlag}

	if outputFlag == "" {
		exp, err := store.Export(opts)
		if err != nil {
			return err
		}
		data, err := memory.EncodeExport(exp, formatFlag)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	}

	rep, err := store.WriteExport(opts, outputFlag, formatFlag)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d file(s) to %s (%s)\n",
		rep.Files, rep.Path, humanize.Bytes(uint64(rep.Bytes)))
	return nil
}

func runArchive(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	days := olderThanFlag
	if days <= 0 {
		days = cfg.Memory.ArchiveDays
	}
	rep, err := store.Archive(memory.ArchiveOptions{OlderThanDays: days, Output: outputFlag})
	if err != nil {
		return err
	}
	if rep.Archived == 0 {
		fmt.Printf("Nothing older than %s\n", rep.Cutoff)
		return nil
	}
	fmt.Printf("Archived %d file(s) older than %s\n", rep.Archived, rep.Cutoff)
	fmt.Printf("Export: %s (%s)\n", rep.ExportPath, humanize.Bytes(uint64(rep.ExportSize)))
	return nil
}

func runBackup(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	if _, err := store.EnsureDir(); err != nil {
		return err
	}

	dest := outputFlag
	if dest == "" && cfg.Backup.Dir != "" {
		name := fmt.Sprintf("memory-%s.tar.gz", time.Now().Format("20060102-150405"))
		dest = filepath.Join(cfg.Backup.Dir, name)
	}

	rep, err := backup.NewService().Run(store.Dir(), dest)
	if err != nil {
		return err
	}
	fmt.Printf("Backup written: %s (%s)\n", rep.Path, humanize.Bytes(uint64(rep.Size)))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore()
	if err != nil {
		fmt.Printf("Config: error (%v)\n", err)
		return nil
	}

	fmt.Printf("Config: %s\n", config.ConfigPath())
	fmt.Printf("Store: %s\n", cfg.Memory.Dir)
	fmt.Printf("Backups: %s\n", cfg.Backup.Dir)

	if _, err := os.Stat(cfg.Memory.Dir); err != nil {
		fmt.Println("Store: not found (run 'daybook init')")
		return nil
	}

	st, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("Files: %d\n", st.TotalFiles)
	if st.DateRange != nil {
		fmt.Printf("Range: %s .. %s\n", st.DateRange.From, st.DateRange.To)
	}
	fmt.Printf("Streak: %d current, %d longest\n", st.CurrentStreak, st.LongestStreak)
	return nil
}

func runDaemon(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	if _, err := store.EnsureDir(); err != nil {
		return err
	}

	svc := cron.NewService(store, backup.NewService(), cron.Options{
		BackupDir:       cfg.Backup.Dir,
		BackupSchedule:  cfg.Daemon.BackupSchedule,
		ArchiveSchedule: cfg.Daemon.ArchiveSchedule,
		ArchiveEnabled:  cfg.Daemon.ArchiveEnabled,
		ArchiveDays:     cfg.Memory.ArchiveDays,
		StatePath:       cfg.Daemon.StatePath,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}
	<-ctx.Done()
	return nil
}

func joinTags(tags []string) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return strings.Join(out, " ")
}
