package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/savingsboard/core/internal/domain/entities"
)

func setFileStorage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_PATH", dir)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("BOARD_LOCALE", "en-US")
	t.Setenv("BOARD_CURRENCY_SYMBOL", "$")
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(testContext(t))
	return out.String(), err
}

func TestBoardToggleAndShow(t *testing.T) {
	dir := setFileStorage(t)

	out, err := run(t, "", "board", "toggle", "5", "200")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	for _, want := range []string{"200 DEPOSITS CHALLENGE", "Goal: $ 20,000.00", "Progress: $ 205.00", "[5 200]"} {
		if !strings.Contains(out, want) {
			t.Errorf("toggle output missing %q:\n%s", want, out)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, entities.DefaultStateKey+".json")); err != nil {
		t.Fatalf("record not written: %v", err)
	}

	out, err = run(t, "", "board", "toggle", "5")
	if err != nil {
		t.Fatalf("toggle again: %v", err)
	}
	if !strings.Contains(out, "$ 200.00") || !strings.Contains(out, "[200]") {
		t.Errorf("after untoggling 5:\n%s", out)
	}

	out, err = run(t, "", "board", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "1 of 200 values (0.5%) | 1.0% of goal") {
		t.Errorf("show output:\n%s", out)
	}
}

func TestBoardToggleRejectsInvalidValues(t *testing.T) {
	setFileStorage(t)

	if _, err := run(t, "", "board", "toggle", "abc"); err == nil {
		t.Error("toggle abc succeeded")
	}

	_, err := run(t, "", "board", "toggle", "7", "201")
	if !errors.Is(err, entities.ErrDepositOutOfRange) {
		t.Fatalf("toggle 201 err = %v, want ErrDepositOutOfRange", err)
	}

	// values before the bad one are kept
	out, err := run(t, "", "board", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "[7]") {
		t.Errorf("show output:\n%s", out)
	}
}

func TestBoardReset(t *testing.T) {
	dir := setFileStorage(t)
	record := filepath.Join(dir, entities.DefaultStateKey+".json")

	if _, err := run(t, "", "board", "toggle", "10", "20"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	for _, answer := range []string{"", "n\n", "maybe\n"} {
		out, err := run(t, answer, "board", "reset")
		if err != nil {
			t.Fatalf("reset %q: %v", answer, err)
		}
		if !strings.Contains(out, "Are you sure you want to reset all progress? [y/N]") || !strings.Contains(out, "Reset cancelled") {
			t.Errorf("reset %q output:\n%s", answer, out)
		}
		if _, err := os.Stat(record); err != nil {
			t.Fatalf("declined reset removed the record: %v", err)
		}
	}

	out, err := run(t, "yes\n", "board", "reset")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !strings.Contains(out, "Board reset") {
		t.Errorf("reset output:\n%s", out)
	}
	if _, err := os.Stat(record); !os.IsNotExist(err) {
		t.Errorf("record still present: %v", err)
	}

	out, err = run(t, "", "board", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "$ 0.00") || !strings.Contains(out, "[-]") {
		t.Errorf("show after reset:\n%s", out)
	}
}

func TestBoardResetWithYesFlag(t *testing.T) {
	setFileStorage(t)

	if _, err := run(t, "", "board", "toggle", "3"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	out, err := run(t, "", "board", "reset", "--yes")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if strings.Contains(out, "[y/N]") || !strings.Contains(out, "Board reset") {
		t.Errorf("reset --yes output:\n%s", out)
	}
}

func TestBoardShowIgnoresMalformedRecord(t *testing.T) {
	dir := setFileStorage(t)
	record := filepath.Join(dir, entities.DefaultStateKey+".json")
	if err := os.WriteFile(record, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "board", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "0 of 200 values") {
		t.Errorf("show output:\n%s", out)
	}
}

func TestMigrateSQLite(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(t.TempDir(), "board.db"))
	t.Setenv("LOG_LEVEL", "error")

	out, err := run(t, "", "migrate", "up")
	if err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if !strings.Contains(out, "Migration up completed successfully") {
		t.Errorf("migrate up output: %s", out)
	}

	out, err = run(t, "", "migrate", "up")
	if err != nil {
		t.Fatalf("second migrate up: %v", err)
	}
	if !strings.Contains(out, "No migrations to run") {
		t.Errorf("second migrate up output: %s", out)
	}

	out, err = run(t, "", "migrate", "version")
	if err != nil {
		t.Fatalf("migrate version: %v", err)
	}
	if !strings.Contains(out, "Current migration version: 1") || !strings.Contains(out, "Dirty: false") {
		t.Errorf("migrate version output: %s", out)
	}
}

func TestMigrateRequiresSQLDriver(t *testing.T) {
	setFileStorage(t)

	if _, err := run(t, "", "migrate", "up"); err == nil {
		t.Fatal("migrate up succeeded for the file driver")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "SavingsBoard "+Version) {
		t.Errorf("version output: %s", out)
	}
}
