package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ymzk/battlelog/internal/charts"
	"github.com/ymzk/battlelog/internal/config"
	"github.com/ymzk/battlelog/internal/dates"
	"github.com/ymzk/battlelog/internal/export"
	"github.com/ymzk/battlelog/internal/i18n"
	"github.com/ymzk/battlelog/internal/models"
	"github.com/ymzk/battlelog/internal/notify"
	"github.com/ymzk/battlelog/internal/query"
	"github.com/ymzk/battlelog/internal/stats"
	"github.com/ymzk/battlelog/internal/storage"
	"github.com/ymzk/battlelog/internal/store"
)

func usage() {
	fmt.Fprintf(os.Stderr, `battlelog - game match record tracker

Usage: battlelog <command> [flags]

Commands:
  add       Add a new match record
  list      List records (paginated)
  search    Filter, sort, and page through records
  delete    Delete a record by id
  stats     Show win-rate statistics and streaks
  chart     Render a distribution or score chart to HTML
  export    Export records as JSON or CSV
  import    Import records from JSON or CSV
  fields    List, add, or remove custom fields
  decks     List distinct deck and game names
  backup    Write a backup of all collections
  restore   Restore collections from a backup file
  watch     Follow change notifications from other instances

Run 'battlelog <command> -h' for command flags.
`)
}

// app bundles the opened storage stack shared by every command.
type app struct {
	cfg   *config.Config
	lang  i18n.Lang
	db    *storage.DB
	kv    storage.CollectionStore
	bus   *notify.Bus
	store *store.RecordStore
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dbPath, err := cfg.DBPath()
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(storage.DefaultConfig(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	dataDir, err := cfg.DataDir()
	if err != nil {
		db.Close()
		return nil, err
	}

	kv := storage.NewCollectionStore(db)
	bus := notify.NewBus(dataDir)

	recordStore, err := store.New(ctx, kv, bus)
	if err != nil {
		bus.Close()
		db.Close()
		return nil, fmt.Errorf("load record store: %w", err)
	}

	return &app{
		cfg:   cfg,
		lang:  i18n.ParseLang(cfg.App.Language),
		db:    db,
		kv:    kv,
		bus:   bus,
		store: recordStore,
	}, nil
}

func (a *app) Close() {
	if err := a.bus.Close(); err != nil {
		log.Printf("[Main] Failed to close notification bus: %v", err)
	}
	if err := a.db.Close(); err != nil {
		log.Printf("[Main] Failed to close database: %v", err)
	}
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	command := os.Args[1]
	args := os.Args[2:]

	if command == "-h" || command == "--help" || command == "help" {
		usage()
		return
	}

	a, err := openApp(ctx)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()

	switch command {
	case "add":
		err = runAdd(ctx, a, args)
	case "list":
		err = runList(ctx, a, args)
	case "search":
		err = runSearch(ctx, a, args)
	case "delete":
		err = runDelete(ctx, a, args)
	case "stats":
		err = runStats(ctx, a, args)
	case "chart":
		err = runChart(ctx, a, args)
	case "export":
		err = runExport(ctx, a, args)
	case "import":
		err = runImport(ctx, a, args)
	case "fields":
		err = runFields(ctx, a, args)
	case "decks":
		err = runDecks(ctx, a, args)
	case "backup":
		err = runBackup(ctx, a, args)
	case "restore":
		err = runRestore(ctx, a, args)
	case "watch":
		err = runWatch(ctx, a, args)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%s failed: %v", command, err)
	}
}

func runAdd(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	date := fs.String("date", "", "Match date (many formats accepted, normalized to YYYY/MM/DD)")
	game := fs.String("game", "", "Game name")
	myDeck := fs.String("my-deck", "", "Your deck name")
	opponent := fs.String("opponent", "", "Opponent deck name")
	turn := fs.String("turn", "", "Turn order: first or second")
	result := fs.String("result", "", "Match result: win, loss, or draw")
	score := fs.String("score", "", "Numeric score")
	misplay := fs.String("misplay", "", "Misplay grade: light, medium, or severe")
	misplayNote := fs.String("misplay-note", "", "Misplay note")
	notes := fs.String("notes", "", "Free-form notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !dates.Valid(*date) {
		log.Printf("[Main] Date %q is not a recognized form; storing it as entered", *date)
	}

	draft := &models.Record{
		Date:         *date,
		GameName:     *game,
		MyDeck:       *myDeck,
		OpponentDeck: *opponent,
		TurnOrder:    models.ParseTurnOrder(*turn),
		Result:       models.ParseResult(*result),
		Score:        *score,
		Misplay:      models.ParseMisplay(*misplay),
		MisplayNote:  *misplayNote,
		Notes:        *notes,
	}

	record, err := a.store.AddRecord(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Printf("Added record %s (%s)\n", record.ID, record.Date)
	return nil
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	pageNum := fs.Int("page", 1, "Page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session := query.NewSession()
	results := session.Run(a.store.GetAll())
	page := query.Paginate(results, *pageNum)
	printRecords(a, page)
	return nil
}

func runSearch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	filters, parseFilters := filterFlags(fs)
	sortField := fs.String("sort", "date", "Sort field (date, score, myDeck, opponentDeck, ...)")
	asc := fs.Bool("asc", false, "Sort ascending instead of descending")
	pageNum := fs.Int("page", 1, "Page number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := parseFilters(); err != nil {
		return err
	}

	session := query.NewSession()
	session.Filters = *filters
	session.SortField = *sortField
	if *asc {
		session.SortDirection = query.Asc
	}

	results := session.Run(a.store.GetAll())
	page := query.Paginate(results, *pageNum)
	printRecords(a, page)
	return nil
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "Record id to delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	if err := a.store.DeleteRecord(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("Deleted record %s\n", *id)
	return nil
}

func runStats(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	filters, parseFilters := filterFlags(fs)
	excludeDraws := fs.Bool("exclude-draws", false, "Exclude draws from win-rate denominators")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := parseFilters(); err != nil {
		return err
	}

	calc, err := a.store.CalcSettings(ctx)
	if err != nil {
		return err
	}
	if *excludeDraws {
		calc.ExcludeDraws = true
	}

	results := query.Search(a.store.GetAll(), filters)
	summary := stats.Compute(results, calc)

	// Streaks read the records oldest to newest.
	chronological := query.Sort(results, "date", query.Asc)
	streaks := stats.CalculateStreaks(chronological)

	lang := a.lang
	fmt.Printf("%s: %d", i18n.T(lang, "stat.total"), summary.Total)
	if summary.DrawCount > 0 || summary.UnrecordedCount > 0 {
		fmt.Printf(" (%s %d, %s %d)",
			i18n.T(lang, "stat.drawNote"), summary.DrawCount,
			i18n.T(lang, "stat.unrecorded"), summary.UnrecordedCount)
	}
	fmt.Println()
	fmt.Printf("%s: %.1f%%\n", i18n.T(lang, "stat.winRate"), summary.WinRate)
	fmt.Printf("%s: %.1f%%\n", i18n.T(lang, "stat.firstRate"), summary.FirstRate)
	fmt.Printf("%s: %.1f%%\n", i18n.T(lang, "stat.firstWinRate"), summary.FirstWinRate)
	fmt.Printf("%s: %.1f%%\n", i18n.T(lang, "stat.secondWinRate"), summary.SecondWinRate)
	fmt.Printf("Streak: %s (best win %d, worst loss %d)\n",
		stats.FormatCurrentStreak(streaks.CurrentStreak),
		streaks.LongestWinStreak, streaks.LongestLossStreak)
	return nil
}

func runChart(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	filters, parseFilters := filterFlags(fs)
	chartType := fs.String("type", "decks", "Chart type: decks (opponent-deck pie) or score (trend line)")
	field := fs.String("field", "opponentDeck", "Category field for the decks chart")
	out := fs.String("out", "", "Output HTML path (defaults under the chart output directory)")
	open := fs.Bool("open", false, "Open the chart in the default browser")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := parseFilters(); err != nil {
		return err
	}

	results := query.Search(a.store.GetAll(), filters)

	outputPath := *out
	if outputPath == "" {
		dir, err := a.cfg.ChartOutputDir()
		if err != nil {
			return err
		}
		outputPath = filepath.Join(dir, *chartType+".html")
	}

	chartCfg := charts.DefaultChartConfig()
	switch *chartType {
	case "decks":
		dist := charts.Bucketize(results, *field, charts.DefaultBucketLimit)
		localizeDistribution(&dist, a.lang)
		chartCfg.Title = i18n.ColumnHeader(a.lang, *field)
		if err := charts.RenderDistributionChart(dist, chartCfg, outputPath); err != nil {
			return err
		}
	case "score":
		points := charts.ScoreSeries(results)
		chartCfg.Title = i18n.ColumnHeader(a.lang, "score")
		if err := charts.RenderScoreChart(points, chartCfg, outputPath); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown chart type %q", *chartType)
	}

	fmt.Printf("Chart written to %s\n", outputPath)
	if *open || a.cfg.Charts.OpenBrowser && *out == "" {
		if err := charts.OpenInBrowser(outputPath); err != nil {
			log.Printf("[Main] Failed to open browser: %v", err)
		}
	}
	return nil
}

func runExport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "json", "Export format: json or csv")
	out := fs.String("out", "", "Output file path (stdout when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	records := a.store.GetAll()
	fields := a.store.CustomFields()

	var data []byte
	switch *format {
	case "json":
		var err error
		data, err = export.BuildJSON(records, fields)
		if err != nil {
			return err
		}
	case "csv":
		data = []byte(export.BuildCSV(records, fields, a.lang))
	default:
		return fmt.Errorf("unknown export format %q", *format)
	}

	if *out == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	fmt.Printf("Exported %d records to %s\n", len(records), *out)
	return nil
}

func runImport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "Input file path")
	format := fs.String("format", "", "Input format: json or csv (inferred from extension when empty)")
	mode := fs.String("mode", export.ModeAppend, "Import mode: append or replace")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("-file is required")
	}
	if *mode != export.ModeAppend && *mode != export.ModeReplace {
		return fmt.Errorf("unknown import mode %q", *mode)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	inFormat := *format
	if inFormat == "" {
		inFormat = strings.TrimPrefix(filepath.Ext(*file), ".")
	}

	records := a.store.GetAll()
	fields := a.store.CustomFields()

	var result *export.Result
	switch inFormat {
	case "json":
		result, err = export.ImportJSON(records, fields, data, *mode)
	case "csv":
		result, err = export.ImportCSV(records, fields, string(data), *mode)
	default:
		return fmt.Errorf("unknown import format %q", inFormat)
	}
	if err != nil {
		return err
	}

	if err := a.store.ReplaceAll(ctx, result.Records, result.Fields, *mode); err != nil {
		return err
	}
	fmt.Printf("Imported %d records (%s mode)\n", result.Count, *mode)
	return nil
}

func runFields(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("fields", flag.ExitOnError)
	add := fs.String("add", "", "Add a custom field with this name")
	remove := fs.String("remove", "", "Remove the custom field with this id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *add != "" {
		field, err := a.store.AddCustomField(ctx, *add)
		if err != nil {
			return err
		}
		fmt.Printf("Added field %s (%s)\n", field.Name, field.ID)
		return nil
	}
	if *remove != "" {
		if err := a.store.RemoveCustomField(ctx, *remove); err != nil {
			return err
		}
		fmt.Printf("Removed field %s\n", *remove)
		return nil
	}

	for _, f := range a.store.CustomFields() {
		fmt.Printf("%s\t%s\n", f.ID, f.Name)
	}
	return nil
}

func runDecks(ctx context.Context, a *app, args []string) error {
	names := a.store.DeckNames()
	fmt.Printf("%s: %s\n", i18n.ColumnHeader(a.lang, "myDeck"), strings.Join(names.MyDecks, ", "))
	fmt.Printf("%s: %s\n", i18n.ColumnHeader(a.lang, "opponentDeck"), strings.Join(names.OpponentDecks, ", "))
	fmt.Printf("%s: %s\n", i18n.ColumnHeader(a.lang, "gameName"), strings.Join(names.GameNames, ", "))
	return nil
}

func runBackup(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	name := fs.String("name", "", "Backup file name (timestamp-based when empty)")
	password := fs.String("password", "", "Encrypt the backup with this password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir, err := a.cfg.BackupDir()
	if err != nil {
		return err
	}

	manager := storage.NewBackupManager(a.kv)
	path, err := manager.Backup(ctx, &storage.BackupConfig{
		BackupDir:  dir,
		BackupName: *name,
		Password:   *password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Backup written to %s\n", path)
	return nil
}

func runRestore(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	file := fs.String("file", "", "Backup file path")
	password := fs.String("password", "", "Password for encrypted backups")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("-file is required")
	}

	manager := storage.NewBackupManager(a.kv)
	if err := manager.Restore(ctx, *file, *password); err != nil {
		return err
	}
	if err := a.store.Load(ctx); err != nil {
		return fmt.Errorf("reload after restore: %w", err)
	}
	fmt.Printf("Restored %d records from %s\n", a.store.Count(), *file)
	return nil
}

func runWatch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	debounce, err := a.cfg.GetWatchDebounce()
	if err != nil {
		debounce = 300 * time.Millisecond
	}

	a.bus.Register(notify.NewLoggingObserver(a.cfg.App.DebugMode))
	a.bus.Register(&notify.FuncObserver{
		Name: "watch-reload",
		Fn: func(event notify.Event) error {
			if err := a.store.Load(ctx); err != nil {
				return fmt.Errorf("reload records: %w", err)
			}
			fmt.Printf("%s  %s (%d records)\n",
				time.UnixMilli(event.Timestamp).Format("15:04:05"), event.Type, a.store.Count())
			return nil
		},
	})

	watchCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("[Main] Watching for changes (Ctrl-C to stop)")
	return a.bus.Watch(watchCtx, debounce)
}

// filterFlags registers the shared filter flag set and returns the
// Filters value plus a post-Parse hook resolving the numeric bounds.
func filterFlags(fs *flag.FlagSet) (*query.Filters, func() error) {
	filters := &query.Filters{}

	from := fs.String("from", "", "Start date (inclusive)")
	to := fs.String("to", "", "End date (inclusive)")
	fs.StringVar(&filters.MyDeck, "my-deck", "", "Filter by your deck name")
	fs.StringVar(&filters.OpponentDeck, "opponent", "", "Filter by opponent deck name")
	fs.StringVar(&filters.GameName, "game", "", "Filter by game name")
	turn := fs.String("turn", "", "Filter by turn order: first or second")
	result := fs.String("result", "", "Filter by result: win, loss, or draw")
	minScore := fs.Float64("min-score", 0, "Minimum score (inclusive)")
	maxScore := fs.Float64("max-score", 0, "Maximum score (inclusive)")
	fs.StringVar(&filters.Keyword, "keyword", "", "Keyword matched against notes")

	return filters, func() error {
		filters.DateStart = *from
		filters.DateEnd = *to
		filters.TurnOrder = models.ParseTurnOrder(*turn)
		filters.Result = models.ParseResult(*result)
		seen := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })
		if seen["min-score"] {
			filters.ScoreMin = minScore
		}
		if seen["max-score"] {
			filters.ScoreMax = maxScore
		}
		return nil
	}
}

// localizeDistribution swaps the placeholder bucket labels for the
// configured language.
func localizeDistribution(dist *charts.Distribution, lang i18n.Lang) {
	for i := range dist.Buckets {
		switch dist.Buckets[i].Label {
		case charts.UnspecifiedLabel:
			dist.Buckets[i].Label = i18n.T(lang, "chart.unspecified")
		case charts.OtherLabel:
			dist.Buckets[i].Label = i18n.T(lang, "chart.other")
		}
	}
}

func printRecords(a *app, page query.Page) {
	lang := a.lang
	fields := a.store.CustomFields()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	headers := []string{
		i18n.ColumnHeader(lang, "date"),
		i18n.ColumnHeader(lang, "myDeck"),
		i18n.ColumnHeader(lang, "opponentDeck"),
		i18n.ColumnHeader(lang, "turnOrder"),
		i18n.ColumnHeader(lang, "result"),
		i18n.ColumnHeader(lang, "score"),
	}
	for _, f := range fields {
		headers = append(headers, f.Name)
	}
	headers = append(headers, "ID")
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	for _, r := range page.Records {
		cells := []string{
			r.Date,
			r.MyDeck,
			r.OpponentDeck,
			i18n.TurnOrderLabel(lang, r.TurnOrder),
			i18n.ResultLabel(lang, r.Result),
			r.Score,
		}
		for _, f := range fields {
			cells = append(cells, r.CustomValue(f.ID).String())
		}
		cells = append(cells, r.ID)
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()

	fmt.Printf("Page %d/%d (%d records)\n", page.Number, page.PageCount, page.Total)
}
