package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// writeDoc writes a test document and returns its path.
func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCheckWith executes the check command with the given extra args
// plus --no-save, returning the combined stdout and the error.
func runCheckWith(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"check", "--no-save", "--retry", "1", "--timeout", "5s"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestCheckCmd(t *testing.T) {
	t.Parallel()

	t.Run("all links valid", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		doc := writeDoc(t, t.TempDir(), "readme.md",
			"# Test\n\n[good]("+srv.URL+")\n")

		out, err := runCheckWith(t, doc)
		if err != nil {
			t.Fatalf("expected success, got %v\n%s", err, out)
		}
		if !strings.Contains(out, "Status:     OK") {
			t.Errorf("expected OK status in report:\n%s", out)
		}
	})

	t.Run("broken link returns errBrokenLinks", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		doc := writeDoc(t, t.TempDir(), "readme.md",
			"[broken]("+srv.URL+"/missing)\n")

		out, err := runCheckWith(t, doc)
		if !errors.Is(err, errBrokenLinks) {
			t.Fatalf("expected errBrokenLinks, got %v", err)
		}
		if !strings.Contains(out, "BROKEN LINKS") {
			t.Errorf("expected broken links section:\n%s", out)
		}
	})

	t.Run("excluded link is not checked", func(t *testing.T) {
		t.Parallel()

		// No server behind this URL; exclusion must prevent any dial.
		doc := writeDoc(t, t.TempDir(), "readme.md",
			"[skipped](https://unreachable.invalid/page)\n")

		_, err := runCheckWith(t, doc, "--exclude", `unreachable\.invalid`)
		if err != nil {
			t.Fatalf("expected success with exclusion, got %v", err)
		}
	})

	t.Run("local file links", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeDoc(t, dir, "other.md", "# Other\n")
		doc := writeDoc(t, dir, "readme.md",
			"[exists](other.md)\n\n[missing](nope.md)\n")

		out, err := runCheckWith(t, doc)
		if !errors.Is(err, errBrokenLinks) {
			t.Fatalf("expected errBrokenLinks for the missing file, got %v", err)
		}
		if !strings.Contains(out, "nope.md") {
			t.Errorf("expected the missing file in the report:\n%s", out)
		}
		if strings.Contains(out, "Failed:     2") {
			t.Error("the existing file must not fail")
		}
	})

	t.Run("json report to file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		doc := writeDoc(t, dir, "readme.md", "no links here\n")
		outPath := filepath.Join(dir, "out", "report.json")

		_, err := runCheckWith(t, "--json", "-o", outPath, doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("report file not written: %v", err)
		}
		if !bytes.Contains(content, []byte(`"version"`)) {
			t.Error("expected versioned JSON report")
		}
	})

	t.Run("no inputs is a configuration error", func(t *testing.T) {
		t.Parallel()

		_, err := runCheckWith(t)
		if err == nil || errors.Is(err, errBrokenLinks) {
			t.Fatalf("expected a configuration error, got %v", err)
		}
	})

	t.Run("conflicting report formats rejected", func(t *testing.T) {
		t.Parallel()

		doc := writeDoc(t, t.TempDir(), "readme.md", "text\n")
		_, err := runCheckWith(t, "--json", "--markdown", doc)
		if err == nil || errors.Is(err, errBrokenLinks) {
			t.Fatalf("expected a configuration error, got %v", err)
		}
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	// newCheckForParse parses flags without running the command.
	parse := func(t *testing.T, args ...string) *cobra.Command {
		t.Helper()
		cmd := NewCheckCmd()
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatal(err)
		}
		return cmd
	}

	t.Run("defaults survive when flags unset", func(t *testing.T) {
		t.Parallel()

		cfg, err := buildConfig(parse(t), []string{"README.md"})
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Timeout != 20*time.Second {
			t.Errorf("unexpected default timeout: %v", cfg.Timeout)
		}
		if cfg.Method != "head" {
			t.Errorf("unexpected default method: %v", cfg.Method)
		}
		if cfg.Inputs[0] != "README.md" {
			t.Errorf("positional args not captured: %v", cfg.Inputs)
		}
	})

	t.Run("flags override config file", func(t *testing.T) {
		t.Parallel()

		cfgFile := filepath.Join(t.TempDir(), "linkscout.yaml")
		if err := os.WriteFile(cfgFile, []byte("timeout: 40s\nretryCount: 9\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cmd := parse(t, "-c", cfgFile, "--timeout", "7s")
		cfg, err := buildConfig(cmd, []string{"README.md"})
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Timeout != 7*time.Second {
			t.Errorf("flag must override config file, got %v", cfg.Timeout)
		}
		if cfg.RetryCount != 9 {
			t.Errorf("config file value must survive when flag unset, got %d", cfg.RetryCount)
		}
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		t.Parallel()

		cmd := parse(t, "-c", filepath.Join(t.TempDir(), "nope.yaml"))
		if _, err := buildConfig(cmd, nil); err == nil {
			t.Fatal("expected an error for a missing explicit config file")
		}
	})

	t.Run("basic auth is split", func(t *testing.T) {
		t.Parallel()

		cmd := parse(t, "--basic-auth", "alice:s3cret:extra")
		cfg, err := buildConfig(cmd, []string{"x"})
		if err != nil {
			t.Fatal(err)
		}
		if cfg.BasicAuthUser != "alice" || cfg.BasicAuthPass != "s3cret:extra" {
			t.Errorf("unexpected credentials: %q / %q", cfg.BasicAuthUser, cfg.BasicAuthPass)
		}
	})

	t.Run("malformed basic auth is rejected", func(t *testing.T) {
		t.Parallel()

		cmd := parse(t, "--basic-auth", "no-colon")
		if _, err := buildConfig(cmd, []string{"x"}); err == nil {
			t.Fatal("expected an error for credentials without a colon")
		}
	})

	t.Run("no-save disables history", func(t *testing.T) {
		t.Parallel()

		cfg, err := buildConfig(parse(t, "--no-save"), []string{"x"})
		if err != nil {
			t.Fatal(err)
		}
		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false with --no-save")
		}

		cfg, err = buildConfig(parse(t), []string{"x"})
		if err != nil {
			t.Fatal(err)
		}
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to default to true")
		}
	})
}
