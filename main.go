package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/fsnotify/fsnotify"
	"github.com/pontaoski/gigly/ast"
	"github.com/pontaoski/gigly/compiler"
	"github.com/pontaoski/gigly/lexer"
	"github.com/pontaoski/gigly/project"
	"github.com/pontaoski/gigly/reader"
	"github.com/pontaoski/gigly/report"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"
)

// errFailed is returned once diagnostics have been printed.
var errFailed = cli.Exit("", 1)

func colorStderr() bool {
	return report.IsTerminal(os.Stderr.Fd())
}

func loadManifest() (*project.Manifest, error) {
	m, path, err := project.FindAndLoad(".")
	if err != nil {
		return nil, err
	}
	if path != "" {
		logf("using manifest %s", path)
	}
	if err := m.CheckLanguage(project.LanguageVersion); err != nil {
		return nil, err
	}
	return m, nil
}

func initCommand(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return cli.Exit("no package name provided", 1)
	}

	path := project.YAMLName
	if c.Bool("toml") {
		path = project.TOMLName
	}
	if _, err := os.Stat(path); err == nil {
		return cli.Exit(path+" already exists", 1)
	}

	return project.Default(name).Save(path)
}

func lexCommand(c *cli.Context) error {
	file := c.Args().First()
	if file == "" {
		return cli.Exit("usage: gigly lex <file>", 1)
	}

	return dumpTokens(os.Stdout, file)
}

func dumpTokens(w io.Writer, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return tracerr.Wrap(err)
	}
	defer f.Close()

	l := lexer.NewLexer(f, file)
	toks := l.All()
	if err := l.Err(); err != nil {
		return tracerr.Wrap(err)
	}
	repr.New(w).Println(toks)
	return nil
}

func parseCommand(c *cli.Context) error {
	file := c.Args().First()
	if file == "" {
		return cli.Exit("usage: gigly parse <file>", 1)
	}

	u, err := loadUnit(file)
	if err != nil {
		return err
	}
	ok, err := u.parse()
	if err != nil {
		return err
	}
	if !ok {
		u.report(os.Stderr, colorStderr())
		return errFailed
	}

	tree := ast.Dump(u.program)
	switch c.String("format") {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return tracerr.Wrap(enc.Encode(tree))
	case "yaml":
		out, err := yaml.Marshal(tree)
		if err != nil {
			return tracerr.Wrap(err)
		}
		_, err = os.Stdout.Write(out)
		return tracerr.Wrap(err)
	case "repr":
		repr.Println(u.program)
		return nil
	}
	return cli.Exit("unknown format "+c.String("format"), 1)
}

// checkFiles parses and lowers every file at once and reports the results in
// the order the files were given.
func checkFiles(ctx context.Context, files []string, w io.Writer, color bool) (bool, error) {
	units := make([]*unit, len(files))
	passed := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			u, err := loadUnit(file)
			if err != nil {
				return err
			}
			units[i] = u
			passed[i], err = u.check("")
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}

	ok := true
	for i, u := range units {
		if !passed[i] {
			u.report(w, color)
			ok = false
		}
	}
	return ok, nil
}

func checkCommand(c *cli.Context) error {
	files, err := sourceFiles(".", c.Args().Slice())
	if err != nil {
		return err
	}

	ok, err := checkFiles(c.Context, files, os.Stderr, colorStderr())
	if err != nil {
		return err
	}
	if !ok {
		return errFailed
	}
	logf("%d files ok", len(files))
	return nil
}

func watchCommand(c *cli.Context) error {
	file := c.Args().First()
	if file == "" {
		return cli.Exit("usage: gigly watch <file>", 1)
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return tracerr.Wrap(err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return tracerr.Wrap(err)
	}
	defer w.Close()

	// editors often replace the file, so watch its directory
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return tracerr.Wrap(err)
	}

	run := func() {
		ok, err := checkFiles(c.Context, []string{abs}, os.Stderr, colorStderr())
		switch {
		case err != nil:
			log.Print(err)
		case ok:
			log.Printf("%s: ok", file)
		}
	}

	run()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) == abs && ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				run()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Print(err)
		case <-c.Context.Done():
			return nil
		}
	}
}

func buildCommand(c *cli.Context) error {
	manifest, err := loadManifest()
	if err != nil {
		return err
	}

	files, err := sourceFiles(".", c.Args().Slice())
	if err != nil {
		return err
	}

	library := c.Bool("library")
	var opts []compiler.Option
	if library {
		opts = append(opts, compiler.WithTypeInfo())
	}

	units := make([]*unit, 0, len(files))
	failed := false
	for i, file := range files {
		u, err := loadUnit(file)
		if err != nil {
			return err
		}
		ok, err := u.parse()
		if err != nil {
			return err
		}
		if !ok {
			u.report(os.Stderr, colorStderr())
			failed = true
			continue
		}

		// only the first file of a program collects top-level statements
		entry := ""
		if i == 0 && !library {
			entry = manifest.Entry
		}
		if !u.compile(entry, opts...) {
			u.report(os.Stderr, colorStderr())
			failed = true
			continue
		}
		units = append(units, u)
	}
	if failed {
		return errFailed
	}

	if c.Bool("dump") {
		for _, u := range units {
			fmt.Println(u.module.String())
		}
		return nil
	}

	if path := c.String("emit-ir"); path != "" {
		if len(units) != 1 {
			return cli.Exit("--emit-ir needs exactly one input file", 1)
		}
		return tracerr.Wrap(ioutil.WriteFile(path, []byte(units[0].module.String()), 0644))
	}

	return link(c, manifest, units)
}

func link(c *cli.Context, manifest *project.Manifest, units []*unit) error {
	out := c.String("output")
	if out == "" {
		out = manifest.Output
	}

	library := c.Bool("library")
	if library && !strings.HasSuffix(out, ".so") {
		out += ".so"
	}

	cmd := exec.Command("clang", "-o", out)
	if library {
		cmd.Args = append(cmd.Args, "-shared", "-fPIC")
	}

	dir, err := ioutil.TempDir("", "gigly")
	if err != nil {
		return tracerr.Wrap(err)
	}
	defer os.RemoveAll(dir)

	for i, u := range units {
		name := filepath.Join(dir, fmt.Sprintf("%d.ll", i))
		if err := ioutil.WriteFile(name, []byte(u.module.String()), 0644); err != nil {
			return tracerr.Wrap(err)
		}
		cmd.Args = append(cmd.Args, name)
	}
	cmd.Args = append(cmd.Args, manifest.Link...)
	cmd.Args = append(cmd.Args, c.StringSlice("link")...)

	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logf("running %s", strings.Join(cmd.Args, " "))
	return tracerr.Wrap(cmd.Run())
}

func typeinfoCommand(c *cli.Context) error {
	lib := c.Args().First()
	if lib == "" {
		return cli.Exit("usage: gigly typeinfo <library>", 1)
	}

	info, err := reader.ReadTypeInfo(lib)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return tracerr.Wrap(enc.Encode(info))
	}
	repr.Println(info)
	return nil
}

func exitWith(c *cli.Context, err error) {
	if err == nil {
		return
	}

	code := 1
	if ec, ok := err.(cli.ExitCoder); ok {
		code = ec.ExitCode()
	}

	switch {
	case c != nil && c.Bool("trace"):
		tracerr.PrintSourceColor(err)
	case err.Error() != "":
		log.Print(err)
	}
	os.Exit(code)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("gigly: ")

	app := &cli.App{
		Name:  "gigly",
		Usage: "gigly compiler",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log what the compiler is doing",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print stack traces for internal errors",
			},
		},
		Before: func(c *cli.Context) error {
			verbose = c.Bool("verbose")
			return nil
		},
		ExitErrHandler: exitWith,
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "create a project manifest",
				ArgsUsage: "<package>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "toml",
						Usage: "write " + project.TOMLName + " instead of " + project.YAMLName,
					},
				},
				Action: initCommand,
			},
			{
				Name:      "build",
				Usage:     "compile and link source files",
				ArgsUsage: "[files...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output",
						Usage: "output file, defaults to the manifest's output",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "print the IR instead of linking",
					},
					&cli.StringFlag{
						Name:  "emit-ir",
						Usage: "write the IR to a file instead of linking",
					},
					&cli.BoolFlag{
						Name:  "library",
						Usage: "build a shared library with embedded type information",
					},
					&cli.StringSliceFlag{
						Name:  "link",
						Usage: "extra objects to link",
					},
				},
				Action: buildCommand,
			},
			{
				Name:      "lex",
				Usage:     "print the tokens of a file",
				ArgsUsage: "<file>",
				Action:    lexCommand,
			},
			{
				Name:      "parse",
				Usage:     "print the syntax tree of a file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: "json",
						Usage: "json, yaml or repr",
					},
				},
				Action: parseCommand,
			},
			{
				Name:      "check",
				Usage:     "report errors without producing output",
				ArgsUsage: "[files...]",
				Action:    checkCommand,
			},
			{
				Name:      "watch",
				Usage:     "check a file every time it changes",
				ArgsUsage: "<file>",
				Action:    watchCommand,
			},
			{
				Name:      "typeinfo",
				Usage:     "dump typeinfo from a compiled library",
				ArgsUsage: "<library>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "print JSON instead of Go syntax",
					},
				},
				Action: typeinfoCommand,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		exitWith(nil, err)
	}
}
