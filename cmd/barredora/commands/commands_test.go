package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/barredora/internal/core"
)

const peopleCSV = "name,age\nana,30\nANA,30\n,\nbob,\n"

const cleanedPeople = "name,age\nAna,30.0\nAna,30.0\nBob,\n"

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCleanDefaultOutput(t *testing.T) {
	in := writeInput(t, "people.csv", peopleCSV)

	_, stderr, err := execute(t, "clean", in)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(filepath.Dir(in), "cleaned_people.csv"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != cleanedPeople {
		t.Errorf("output = %q, want %q", got, cleanedPeople)
	}
	for _, want := range []string{"4 -> 3 (1 removed)", "empty rows removed: 1", "text columns:       name"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("report missing %q:\n%s", want, stderr)
		}
	}
}

func TestCleanToStdout(t *testing.T) {
	in := writeInput(t, "people.csv", peopleCSV)

	stdout, stderr, err := execute(t, "clean", in, "-o", "-", "--quiet")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if stdout != cleanedPeople {
		t.Errorf("stdout = %q, want %q", stdout, cleanedPeople)
	}
	if stderr != "" {
		t.Errorf("quiet run wrote to stderr: %q", stderr)
	}
}

func TestCleanOutputFromEnvironment(t *testing.T) {
	in := writeInput(t, "people.csv", peopleCSV)
	t.Setenv("BARREDORA_OUTPUT", "-")

	stdout, _, err := execute(t, "clean", in)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if stdout != cleanedPeople {
		t.Errorf("stdout = %q, want %q", stdout, cleanedPeople)
	}
}

func TestCleanRefusesToOverwriteInput(t *testing.T) {
	in := writeInput(t, "people.csv", peopleCSV)

	_, _, err := execute(t, "clean", in, "-o", in)
	if !errors.Is(err, errOverwriteInput) {
		t.Fatalf("err = %v, want errOverwriteInput", err)
	}

	got, _ := os.ReadFile(in)
	if string(got) != peopleCSV {
		t.Error("input file was modified")
	}
}

func TestCleanReportsUserMessage(t *testing.T) {
	in := writeInput(t, "notes.txt", "hello")

	_, _, err := execute(t, "clean", in)
	if err == nil {
		t.Fatal("expected error for unsupported file")
	}
	if !strings.Contains(err.Error(), "FILE006") {
		t.Errorf("error = %q, want FILE006 code", err)
	}
}

func TestInspectText(t *testing.T) {
	in := writeInput(t, "people.csv", peopleCSV)

	stdout, _, err := execute(t, "inspect", in, "--rows", "2")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(stdout, "people.csv (csv): 4 rows, 2 columns") {
		t.Errorf("missing shape line:\n%s", stdout)
	}
	if !strings.Contains(stdout, "ANA") || strings.Contains(stdout, "bob") {
		t.Errorf("preview should show exactly the first two rows:\n%s", stdout)
	}
}

func TestInspectJSON(t *testing.T) {
	in := writeInput(t, "people.csv", peopleCSV)

	stdout, _, err := execute(t, "inspect", in, "--json", "--rows", "3")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	var insp core.Inspection
	if err := json.Unmarshal([]byte(stdout), &insp); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if insp.Summary.Rows != 4 || insp.Summary.Columns != 2 {
		t.Errorf("summary = %+v", insp.Summary)
	}
	if len(insp.Preview.Rows) != 3 {
		t.Errorf("preview rows = %d, want 3", len(insp.Preview.Rows))
	}
	if insp.Summary.Profiles[0].Name != "name" || !insp.Summary.Profiles[0].TextLike {
		t.Errorf("first profile = %+v", insp.Summary.Profiles[0])
	}
}

func TestInspectRejectsBadRows(t *testing.T) {
	in := writeInput(t, "people.csv", peopleCSV)

	if _, _, err := execute(t, "inspect", in, "--rows", "0"); err == nil {
		t.Error("expected error for --rows 0")
	}
}
