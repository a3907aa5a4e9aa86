package main

import (
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/llir/llvm/ir"
	"github.com/pontaoski/gigly/ast"
	"github.com/pontaoski/gigly/compiler"
	"github.com/pontaoski/gigly/errors"
	"github.com/pontaoski/gigly/parser"
	"github.com/pontaoski/gigly/report"
	"github.com/ztrue/tracerr"
)

const sourceSuffix = ".gg"

var verbose bool

func logf(format string, args ...interface{}) {
	if verbose {
		log.Printf(format, args...)
	}
}

// unit is one source file on its way to an IR module. Units share nothing,
// so any number of them can be processed at once.
type unit struct {
	path   string
	source string

	program *ast.Program
	module  *ir.Module
	diags   errors.List
}

func loadUnit(path string) (*unit, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, tracerr.Wrap(err)
	}
	return &unit{path: path}, nil
}

// parse reads and parses the file, keeping the text it read for reports.
func (u *unit) parse() (bool, error) {
	start := time.Now()

	f, err := os.Open(u.path)
	if err != nil {
		return false, tracerr.Wrap(err)
	}
	defer f.Close()

	var src strings.Builder
	u.program, u.diags, err = parser.ParseReader(io.TeeReader(f, &src), u.path)
	u.source = src.String()
	if err != nil {
		return false, err
	}

	logf("parsed %s in %s", u.path, time.Since(start))
	return len(u.diags) == 0, nil
}

// compile lowers the parsed program. With a non-empty entry, top-level
// statements are collected into a function of that name.
func (u *unit) compile(entry string, opts ...compiler.Option) bool {
	start := time.Now()
	c := compiler.New(u.path, opts...)

	if entry != "" {
		c.BeginEntry(entry)
	}
	c.Compile(u.program)
	if entry != "" {
		c.EndEntry()
	}

	m, err := c.Finish()
	u.diags = c.Errors()
	logf("compiled %s in %s", u.path, time.Since(start))
	if err != nil {
		return false
	}

	u.module = m
	return true
}

func (u *unit) check(entry string) (bool, error) {
	ok, err := u.parse()
	if !ok || err != nil {
		return false, err
	}
	return u.compile(entry), nil
}

func (u *unit) report(w io.Writer, color bool) {
	report.RenderAll(w, u.source, u.diags, color)
}

// sourceFiles returns the given files, or every source file in dir when none
// are given.
func sourceFiles(dir string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	fis, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	var files []string
	for _, fi := range fis {
		if !fi.IsDir() && strings.HasSuffix(fi.Name(), sourceSuffix) {
			files = append(files, filepath.Join(dir, fi.Name()))
		}
	}
	if len(files) == 0 {
		return nil, tracerr.Errorf("no %s files in %s", sourceSuffix, dir)
	}
	return files, nil
}
