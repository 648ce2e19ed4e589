package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/andreyvit/snapdb"
)

var logLevel = &slog.LevelVar{}

func main() {
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      logLevel,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	app := cli.App{
		Name:  "snapdb",
		Usage: "inspect and edit snapshot document databases",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Value: "snap.db",
				Usage: "database location: a file path, bolt:PATH, s3://BUCKET/KEY, minio://HOST/BUCKET/KEY or :memory:",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "trace every tree operation",
			},
			&cli.BoolFlag{
				Name:  "compress",
				Usage: "compress the snapshot payload on commit",
			},
		},
		Before: func(cctx *cli.Context) error {
			if cctx.Bool("verbose") {
				logLevel.Set(slog.LevelDebug)
			}
			return nil
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:      "get",
			Usage:     "print the value at a dot-path",
			ArgsUsage: "<path>",
			Action:    runGet,
		},
		{
			Name:      "set",
			Usage:     "assign a JSON value at a dot-path and commit",
			ArgsUsage: "<path> <json>",
			Action:    runSet,
		},
		{
			Name:      "del",
			Usage:     "clear the value at a dot-path and commit",
			ArgsUsage: "<path>",
			Action:    runDel,
		},
		{
			Name:      "create",
			Usage:     "insert a document into a collection and commit",
			ArgsUsage: "<collection> <json>",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "unique", Usage: "declare a unique field (new collections only)"},
				&cli.StringSliceFlag{Name: "index", Usage: "declare an indexed field (new collections only)"},
			},
			Action: runCreate,
		},
		{
			Name:      "find",
			Usage:     "print documents matching field=JSON equality filters",
			ArgsUsage: "<collection> [field=json ...]",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "index", Usage: "declare an indexed field (new collections only)"},
			},
			Action: runFind,
		},
		{
			Name:      "stats",
			Usage:     "print per-collection document and index counts",
			ArgsUsage: "[collection]",
			Action:    runStats,
		},
		{
			Name:   "dump",
			Usage:  "print all collections, documents and index state",
			Action: runDump,
		},
	}
	app.RunAndExitOnError()
}

func openDB(cctx *cli.Context) (*snapdb.DB, error) {
	return snapdb.Open(cctx.String("db"), snapdb.Options{
		Logf:     logDebugf,
		Verbose:  cctx.Bool("verbose"),
		Compress: cctx.Bool("compress"),
	})
}

func logDebugf(format string, args ...any) {
	slog.Debug(fmt.Sprintf(format, args...))
}

func runGet(cctx *cli.Context) error {
	path := cctx.Args().First()
	if path == "" {
		return fmt.Errorf("need a dot-path argument")
	}
	db, err := openDB(cctx)
	if err != nil {
		return err
	}
	defer db.Close()

	v := db.Get(path)
	if v.IsAbsent() {
		return fmt.Errorf("nothing at %s", path)
	}
	fmt.Println(v.String())
	return nil
}

func runSet(cctx *cli.Context) error {
	path := cctx.Args().Get(0)
	raw := cctx.Args().Get(1)
	if path == "" || raw == "" {
		return fmt.Errorf("need a dot-path and a JSON value")
	}
	v, err := snapdb.ParseJSON([]byte(raw))
	if err != nil {
		return fmt.Errorf("bad value: %w", err)
	}
	db, err := openDB(cctx)
	if err != nil {
		return err
	}
	defer db.Close()

	db.Set(path, v)
	return db.Commit()
}

func runDel(cctx *cli.Context) error {
	path := cctx.Args().First()
	if path == "" {
		return fmt.Errorf("need a dot-path argument")
	}
	db, err := openDB(cctx)
	if err != nil {
		return err
	}
	defer db.Close()

	db.Set(path, snapdb.Value{})
	return db.Commit()
}

func runCreate(cctx *cli.Context) error {
	name := cctx.Args().Get(0)
	raw := cctx.Args().Get(1)
	if name == "" || raw == "" {
		return fmt.Errorf("need a collection name and a JSON document")
	}
	entry, err := snapdb.ParseJSON([]byte(raw))
	if err != nil {
		return fmt.Errorf("bad document: %w", err)
	}
	db, err := openDB(cctx)
	if err != nil {
		return err
	}
	defer db.Close()

	c := db.Collection(name, snapdb.CollectionConfig{
		Unique:  cctx.StringSlice("unique"),
		Indexes: cctx.StringSlice("index"),
	})
	id := c.Create(entry)
	if id == "" {
		return fmt.Errorf("duplicate unique field value")
	}
	if err := db.Commit(); err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func runFind(cctx *cli.Context) error {
	name := cctx.Args().Get(0)
	if name == "" {
		return fmt.Errorf("need a collection name")
	}
	var conds []snapdb.Filter
	for _, arg := range cctx.Args().Slice()[1:] {
		field, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("bad filter %q, expected field=json", arg)
		}
		v, err := snapdb.ParseJSON([]byte(raw))
		if err != nil {
			return fmt.Errorf("bad filter value %q: %w", raw, err)
		}
		conds = append(conds, snapdb.Eq(field, v))
	}
	db, err := openDB(cctx)
	if err != nil {
		return err
	}
	defer db.Close()

	c := db.Collection(name, snapdb.CollectionConfig{
		Indexes: cctx.StringSlice("index"),
	})
	var filter snapdb.Filter
	switch len(conds) {
	case 0:
	case 1:
		filter = conds[0]
	default:
		filter = snapdb.And(conds...)
	}
	for _, doc := range c.Find(filter) {
		fmt.Println(doc.String())
	}
	return nil
}

func runStats(cctx *cli.Context) error {
	db, err := openDB(cctx)
	if err != nil {
		return err
	}
	defer db.Close()

	names := cctx.Args().Slice()
	if len(names) == 0 {
		root := db.Root().Object()
		for _, name := range root.Keys() {
			if !db.Get(name + ".__meta").IsAbsent() {
				names = append(names, name)
			}
		}
	}
	for _, name := range names {
		s := db.Collection(name, snapdb.CollectionConfig{}).Stats()
		fmt.Printf("%s: docs=%d deleted=%d unique_fields=%d unique_values=%d index_fields=%d index_entries=%d\n",
			name, s.Docs, s.Deleted, s.UniqueFields, s.UniqueValues, s.IndexFields, s.IndexEntries)
	}
	return nil
}

func runDump(cctx *cli.Context) error {
	db, err := openDB(cctx)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Print(db.Dump(snapdb.DumpAll))
	return nil
}
