package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/smileynet/drills"
	"github.com/smileynet/drills/internal/books"
	"github.com/smileynet/drills/internal/config"
	"github.com/smileynet/drills/internal/contact"
	"github.com/smileynet/drills/internal/diary"
	"github.com/smileynet/drills/internal/render"
	"github.com/smileynet/drills/internal/roster"
	"github.com/smileynet/drills/internal/store"
	"github.com/smileynet/drills/internal/trace"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// sampleOverrideDir holds local copies that shadow the embedded samples.
const sampleOverrideDir = ".drills/samples"

// CLI is the top-level command structure for drills.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Verbose bool             `help:"Log debug output to stderr." short:"v"`
	Config  string           `help:"Extra config file, applied after the user and project files." type:"existingfile"`

	Contacts ContactsCmd `cmd:"" help:"Extract contact records from a tab-separated address book."`
	Students StudentsCmd `cmd:"" help:"Keep a roster of students and their points."`
	Diary    DiaryCmd    `cmd:"" help:"Write and search timestamped diary entries."`
	Books    BooksCmd    `cmd:"" help:"Query the book catalog."`
}

// app carries what every command needs once flags and config are resolved.
type app struct {
	out io.Writer
	log *zap.Logger
	cfg *config.Config
}

func (a *app) openDB(ctx context.Context) (*store.DB, error) {
	return store.Open(ctx, a.cfg.Database.Path, a.log)
}

// --- contacts ---

// ContactsCmd extracts records from an address book.
type ContactsCmd struct {
	File     string `arg:"" optional:"" help:"Address book to read (default: contacts.file from config)."`
	Format   string `help:"Output format: text, template, json, yaml, table." short:"f"`
	Template string `help:"Go template used by --format template."`
	Sample   bool   `help:"Read the embedded sample address book."`
	Browse   bool   `help:"Browse the records interactively when stdout is a terminal."`
}

// Run executes the contacts command.
func (c *ContactsCmd) Run(ctx context.Context, a *app) error {
	text, err := c.read(a)
	if err != nil {
		return err
	}

	format := cmp.Or(c.Format, a.cfg.Contacts.Format)
	r, err := render.DefaultRegistry().New(format, render.Options{
		Template: cmp.Or(c.Template, a.cfg.Contacts.Template),
	})
	if err != nil {
		return fmt.Errorf("contacts: %w", err)
	}

	ex := contact.NewExtractor()
	if c.Browse {
		d := render.NewDisplay(render.DisplayOptions{Writer: a.out, Fallback: r})
		return d.Show(ctx, ex.Extract(text))
	}
	return r.Render(a.out, ex.All(text))
}

func (c *ContactsCmd) read(a *app) (string, error) {
	if c.Sample {
		a.log.Debug("reading sample address book", zap.String("override_dir", sampleOverrideDir))
		return contact.ReadSourceFS(drills.OverlayFS(sampleOverrideDir, drills.Samples), drills.SampleAddressBook)
	}
	path := cmp.Or(c.File, a.cfg.Contacts.File)
	a.log.Debug("reading address book", zap.String("path", path))
	return contact.ReadSource(path)
}

// --- students ---

// StudentsCmd groups the roster subcommands.
type StudentsCmd struct {
	Seed StudentsSeedCmd `cmd:"" help:"Add or update the built-in students."`
	Add  StudentsAddCmd  `cmd:"" help:"Add a student or update their points."`
	Top  StudentsTopCmd  `cmd:"" help:"Print the student with the most points."`
	List StudentsListCmd `cmd:"" help:"List students, highest points first."`
}

func openRoster(ctx context.Context, a *app) (*roster.Store, func(), error) {
	db, err := a.openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	st, err := roster.NewStore(ctx, db, a.log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return st, func() { _ = db.Close() }, nil
}

// StudentsSeedCmd upserts roster.Defaults.
type StudentsSeedCmd struct{}

// Run executes the students seed command.
func (c *StudentsSeedCmd) Run(ctx context.Context, a *app) error {
	st, done, err := openRoster(ctx, a)
	if err != nil {
		return err
	}
	defer done()

	seed := trace.Action2(a.log, "seed_students", st.Seed)
	if err := seed(ctx, roster.Defaults); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "Seeded %d students.\n", len(roster.Defaults))
	return err
}

// StudentsAddCmd upserts a single student.
type StudentsAddCmd struct {
	Username string `arg:"" help:"Student username."`
	Points   int    `arg:"" optional:"" help:"Points to record." default:"0"`
}

// Run executes the students add command.
func (c *StudentsAddCmd) Run(ctx context.Context, a *app) error {
	st, done, err := openRoster(ctx, a)
	if err != nil {
		return err
	}
	defer done()

	if err := st.Upsert(ctx, roster.Student{Username: c.Username, Points: c.Points}); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "Saved %s with %d points.\n", c.Username, c.Points)
	return err
}

// StudentsTopCmd prints the highest-scoring student.
type StudentsTopCmd struct{}

// Run executes the students top command.
func (c *StudentsTopCmd) Run(ctx context.Context, a *app) error {
	st, done, err := openRoster(ctx, a)
	if err != nil {
		return err
	}
	defer done()

	top := trace.Func1(a.log, "top_student", st.Top)
	student, err := top(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "Our top student right now is: %s.\n", student.Username)
	return err
}

// StudentsListCmd prints every student.
type StudentsListCmd struct{}

// Run executes the students list command.
func (c *StudentsListCmd) Run(ctx context.Context, a *app) error {
	st, done, err := openRoster(ctx, a)
	if err != nil {
		return err
	}
	defer done()

	students, err := st.List(ctx)
	if err != nil {
		return err
	}
	for _, s := range students {
		if _, err := fmt.Fprintf(a.out, "%s\t%d\n", s.Username, s.Points); err != nil {
			return err
		}
	}
	return nil
}

// --- diary ---

// DiaryCmd groups the diary subcommands.
type DiaryCmd struct {
	Add    DiaryAddCmd    `cmd:"" help:"Write a new entry."`
	List   DiaryListCmd   `cmd:"" help:"Show entries, newest first."`
	Delete DiaryDeleteCmd `cmd:"" help:"Delete an entry by ID."`
}

func openDiary(ctx context.Context, a *app) (*diary.Store, func(), error) {
	db, err := a.openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	st, err := diary.NewStore(ctx, db, diary.WithLogger(a.log))
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return st, func() { _ = db.Close() }, nil
}

// entryTimeLayout formats entry timestamps in listings.
const entryTimeLayout = "2006-01-02 15:04:05"

// DiaryAddCmd stores a new entry.
type DiaryAddCmd struct {
	Text []string `arg:"" help:"Entry text; words are joined with spaces."`
}

// Run executes the diary add command.
func (c *DiaryAddCmd) Run(ctx context.Context, a *app) error {
	st, done, err := openDiary(ctx, a)
	if err != nil {
		return err
	}
	defer done()

	add := trace.Func2(a.log, "add_entry", st.Add)
	e, err := add(ctx, strings.Join(c.Text, " "))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "Saved entry %d.\n", e.ID)
	return err
}

// DiaryListCmd prints entries.
type DiaryListCmd struct {
	Search string `help:"Only show entries containing this text." short:"s"`
	Limit  int    `help:"Show at most this many entries (0 for all)." short:"n" default:"0"`
}

// Run executes the diary list command.
func (c *DiaryListCmd) Run(ctx context.Context, a *app) error {
	st, done, err := openDiary(ctx, a)
	if err != nil {
		return err
	}
	defer done()

	entries, err := st.List(ctx, diary.ListOptions{Search: c.Search, Limit: c.Limit})
	if err != nil {
		return err
	}
	for _, e := range entries {
		ts := e.Timestamp.Local().Format(entryTimeLayout)
		if _, err := fmt.Fprintf(a.out, "%d\t%s\t%s\n", e.ID, ts, e.Content); err != nil {
			return err
		}
	}
	return nil
}

// DiaryDeleteCmd removes an entry.
type DiaryDeleteCmd struct {
	ID int64 `arg:"" help:"Entry ID."`
}

// Run executes the diary delete command.
func (c *DiaryDeleteCmd) Run(ctx context.Context, a *app) error {
	st, done, err := openDiary(ctx, a)
	if err != nil {
		return err
	}
	defer done()

	del := trace.Action2(a.log, "delete_entry", st.Delete)
	if err := del(ctx, c.ID); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "Deleted entry %d.\n", c.ID)
	return err
}

// --- books ---

// BooksCmd groups the catalog subcommands.
type BooksCmd struct {
	List  BooksListCmd  `cmd:"" help:"List books, optionally filtered, repriced, and sorted."`
	Total BooksTotalCmd `cmd:"" help:"Sum the catalog prices."`
}

// CatalogFlags selects where the catalog is read from.
type CatalogFlags struct {
	File   string `help:"Catalog to read (default: books.file from config)."`
	Sample bool   `help:"Read the embedded sample catalog."`
}

func (f CatalogFlags) load(a *app) ([]books.Book, error) {
	if f.Sample {
		return books.LoadFS(drills.OverlayFS(sampleOverrideDir, drills.Samples), drills.SampleCatalog)
	}
	path := cmp.Or(f.File, a.cfg.Books.File)
	a.log.Debug("reading catalog", zap.String("path", path))
	return books.LoadFile(path)
}

// BooksListCmd prints catalog entries.
type BooksListCmd struct {
	CatalogFlags `embed:""`

	Sale      bool   `help:"Apply the sale discount to every price."`
	Long      bool   `help:"Only long books (books.long_pages or more)."`
	Subject   string `help:"Only books with a subject containing this text."`
	Deals     bool   `help:"Only books priced at or under books.deal_price."`
	Titlecase bool   `help:"Print titles in title case."`
	SortBy    string `help:"Sort by title, author, pages, publish_date, or price." name:"sort-by"`
}

// Run executes the books list command.
func (c *BooksListCmd) Run(a *app) error {
	catalog, err := c.load(a)
	if err != nil {
		return err
	}

	q := books.Query{
		Discount:  a.cfg.Books.Discount,
		Sale:      c.Sale,
		Subject:   c.Subject,
		MaxPrice:  a.cfg.Books.DealPrice,
		Deals:     c.Deals,
		Titlecase: c.Titlecase,
		SortBy:    c.SortBy,
	}
	if c.Long {
		q.LongPages = a.cfg.Books.LongPages
	}
	list, err := q.Apply(catalog)
	if err != nil {
		return err
	}
	for _, b := range list {
		if _, err := fmt.Fprintf(a.out, "%s\t%s\t%d pages\t$%.2f\n", b.Title, b.PublishDate, b.NumberOfPages, b.Price); err != nil {
			return err
		}
	}
	return nil
}

// BooksTotalCmd prints the summed price of the catalog.
type BooksTotalCmd struct {
	CatalogFlags `embed:""`

	Sale bool `help:"Sum sale prices instead of list prices."`
}

// Run executes the books total command.
func (c *BooksTotalCmd) Run(a *app) error {
	catalog, err := c.load(a)
	if err != nil {
		return err
	}
	catalog, err = books.Query{Discount: a.cfg.Books.Discount, Sale: c.Sale}.Apply(catalog)
	if err != nil {
		return err
	}

	total := trace.LogAndReturn(a.log, "total_price", books.TotalPrice)
	_, err = fmt.Fprintf(a.out, "$%.2f\n", total(catalog))
	return err
}

// --- wiring ---

// loadConfig loads layered config from user, project, and flag paths with env overrides.
func loadConfig(extra string) (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/drills/config.yaml"),
		".drills/config.yaml",
		extra,
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds a JSON logger on stderr, at debug level when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build()
}

// execute resolves config and logging, then runs the selected command.
func execute(kctx *kong.Context, cli *CLI, out io.Writer) error {
	log, err := newLogger(cli.Verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	return kctx.Run(&app{out: out, log: log, cfg: cfg})
}

// Exit codes.
const (
	exitSuccess  = 0
	exitNotFound = 1
	exitSetup    = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, target := range []error{contact.ErrNotFound, roster.ErrNotFound, diary.ErrNotFound, books.ErrNotFound} {
		if errors.Is(err, target) {
			return exitNotFound
		}
	}
	return exitSetup
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("drills"),
		kong.Description("Small data drills: contact extraction, a student roster, a diary, and a book catalog."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	if err := execute(kctx, &cli, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
