package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := ioutil.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUnitWithEntry(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.gg", `
def square(x: int) -> int { return x * x; }
y: int = square(4);
`)

	u, err := loadUnit(path)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := u.parse()
	if err != nil {
		t.Fatal(err)
	}
	if !ok || !u.compile("main") {
		t.Fatalf("unexpected diagnostics: %s", u.diags)
	}
	if ir := u.module.String(); !strings.Contains(ir, "define i32 @main()") {
		t.Errorf("entry function missing from\n%s", ir)
	}
}

func TestParseReadError(t *testing.T) {
	u, err := loadUnit(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := u.parse(); ok || err == nil {
		t.Errorf("reading a directory should fail, got ok=%v err=%v", ok, err)
	}
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.gg", "def f() -> int { return 1; }\n")
	syntax := writeSource(t, dir, "syntax.gg", "def g( -> int { return 1; }\n")
	semantic := writeSource(t, dir, "semantic.gg", "def h() -> int { return x; }\n")

	var out bytes.Buffer
	ok, err := checkFiles(context.Background(), []string{good, syntax, semantic}, &out, false)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected the check to fail")
	}

	report := out.String()
	if !strings.Contains(report, "SyntaxError:") || !strings.Contains(report, "CompileError: variable x is not declared") {
		t.Errorf("unexpected report\n%s", report)
	}
	if strings.Index(report, "SyntaxError:") > strings.Index(report, "CompileError:") {
		t.Errorf("reports are not in file order\n%s", report)
	}
	if strings.Contains(report, "good.gg") {
		t.Errorf("a clean file was reported\n%s", report)
	}
}

func TestCheckMissingFile(t *testing.T) {
	_, err := checkFiles(context.Background(), []string{filepath.Join(t.TempDir(), "missing.gg")}, ioutil.Discard, false)
	if err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "b.gg", "")
	writeSource(t, dir, "a.gg", "")
	writeSource(t, dir, "notes.txt", "")

	files, err := sourceFiles(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.gg" || filepath.Base(files[1]) != "b.gg" {
		t.Errorf("unexpected files %v", files)
	}

	if _, err := sourceFiles(t.TempDir(), nil); err == nil {
		t.Error("expected an error for a directory without sources")
	}
}

func TestDumpTokens(t *testing.T) {
	path := writeSource(t, t.TempDir(), "tokens.gg", "answer: int = 42;\n")

	var out bytes.Buffer
	if err := dumpTokens(&out, path); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"answer"`, `"42"`, "tokens.gg"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %s in\n%s", want, out.String())
		}
	}

	if err := dumpTokens(ioutil.Discard, t.TempDir()); err == nil {
		t.Error("expected an error when the file cannot be read")
	}
}
