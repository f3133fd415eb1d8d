// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands end to end against temp XDG config and data directories.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/liftlog/internal/analysis"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const hevyExport = `title,start_time,end_time,exercise_title,set_index,set_type,weight_kg,reps
Push,"15 Jan 2024, 18:30","15 Jan 2024, 19:30",Bench Press (Barbell),0,normal,100,5
Push,"15 Jan 2024, 18:30","15 Jan 2024, 19:30",Bench Press (Barbell),1,normal,100,4
Pull,"3 Feb 2024, 07:05","3 Feb 2024, 08:00",Lat Pulldown (Cable),0,normal,55,12
`

const jefitExport = `mydate,ename,logs
2024-01-20,Barbell Bench Press,"110x3,,90x8"
`

const strongExport = `Date,Workout Name,Exercise Name,Set Order,Weight,Reps,Distance,Seconds
2024-01-22 17:00:00,Chest,Bench Press (Dumbbell),1,30,10,0,0
`

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "short string no truncation",
			input:  "hello",
			maxLen: 10,
			want:   "hello",
		},
		{
			name:   "exact length",
			input:  "hello",
			maxLen: 5,
			want:   "hello",
		},
		{
			name:   "needs truncation",
			input:  "hello world this is a long string",
			maxLen: 10,
			want:   "hello w...",
		},
		{
			name:   "truncate at boundary",
			input:  "abcdefghij",
			maxLen: 6,
			want:   "abc...",
		},
		{
			name:   "empty string",
			input:  "",
			maxLen: 10,
			want:   "",
		},
		{
			name:   "very short maxLen",
			input:  "hello",
			maxLen: 3,
			want:   "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		length int
		want   string
	}{
		{
			name:   "needs padding",
			input:  "hi",
			length: 5,
			want:   "hi   ",
		},
		{
			name:   "exact length",
			input:  "hello",
			length: 5,
			want:   "hello",
		},
		{
			name:   "longer than length",
			input:  "hello world",
			length: 5,
			want:   "hello world",
		},
		{
			name:   "empty string",
			input:  "",
			length: 5,
			want:   "     ",
		},
		{
			name:   "zero length",
			input:  "hello",
			length: 0,
			want:   "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := padRight(tt.input, tt.length)
			if got != tt.want {
				t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
			}
		})
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{100: "100", 32.5: "32.5", 0: "0"}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "liftlog" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "liftlog")
	}
	if rootCmd.Short == "" {
		t.Error("Expected rootCmd.Short to be non-empty")
	}
	if rootCmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("Expected --verbose persistent flag")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"import", "uploads", "remove", "detect", "records", "top", "summary",
		"compare", "overview", "progress", "volume", "frequency", "exercises",
		"export", "mcp", "serve", "config", "migrate", "sync",
	}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("Expected %s command to be registered", name)
		}
	}
}

func TestQueryCommandsHaveFilterFlags(t *testing.T) {
	for _, cmd := range []string{"records", "top", "summary", "compare", "overview", "progress", "volume", "frequency", "exercises", "export"} {
		c, _, err := rootCmd.Find([]string{cmd})
		if err != nil {
			t.Fatalf("Find(%s) failed: %v", cmd, err)
		}
		for _, flag := range []string{"since", "until", "source", "json"} {
			if c.Flags().Lookup(flag) == nil {
				t.Errorf("Expected --%s flag on %s", flag, cmd)
			}
		}
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	want := map[string]bool{"json": true, "yaml": true, "csv": true, "markdown": true}
	for _, arg := range exportCmd.ValidArgs {
		delete(want, arg)
	}
	if len(want) != 0 {
		t.Errorf("missing export formats: %v", want)
	}
}

// testEnv holds the temp directories a CLI test runs in.
type testEnv struct {
	dataDir string
	files   string
}

// setupTestCLI points XDG config and data directories at temp dirs.
func setupTestCLI(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	for _, key := range []string{"LIFTLOG_BACKEND", "LIFTLOG_DATA_DIR", "LIFTLOG_LOG_LEVEL", "LIFTLOG_TOP_LIMIT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	env := &testEnv{
		dataDir: filepath.Join(root, "data", "liftlog"),
		files:   filepath.Join(root, "files"),
	}
	if err := os.MkdirAll(env.files, 0750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return env
}

// writeFile stores fixture content and returns its path.
func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.files, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// openDB opens the SQLite store the CLI writes to.
func (e *testEnv) openDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(e.dataDir, storage.DBFilename))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// resetFlags restores command globals between runs.
func resetFlags() {
	verbose = false
	filterSince, filterUntil, filterApps = "", "", nil
	jsonOutput = false
	recordsExercise, recordsLimit = "", 0
	topLimit = 10
	frequencyBy = string(analysis.PeriodMonth)
	exercisesLimit = 20
	importSource = ""
	exportOutput = ""
	migrateTo, migrateDryRun = "", false
	serveAddr = ""
	syncYes = false
	clearChanged(rootCmd)
}

// clearChanged forgets which flags the previous run set, so Changed checks
// see a fresh command line.
func clearChanged(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	for _, c := range cmd.Commands() {
		clearChanged(c)
	}
}

// runCLI executes the root command and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := Execute(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out
}

func TestImportAndList(t *testing.T) {
	env := setupTestCLI(t)
	hevy := env.writeFile(t, "hevy.csv", hevyExport)
	jefit := env.writeFile(t, "jefit.csv", jefitExport)

	out := mustRun(t, "import", hevy, jefit)
	if !strings.Contains(out, "Stored hevy.csv as Hevy export (3 sets)") {
		t.Errorf("unexpected import output: %s", out)
	}
	if !strings.Contains(out, "Stored jefit.csv as Jefit export (2 sets)") {
		t.Errorf("unexpected import output: %s", out)
	}

	uploads, err := env.openDB(t).ListUploads()
	if err != nil {
		t.Fatalf("ListUploads failed: %v", err)
	}
	if len(uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(uploads))
	}

	out = mustRun(t, "uploads")
	if !strings.Contains(out, "hevy.csv") || !strings.Contains(out, "jefit.csv") {
		t.Errorf("uploads output missing files: %s", out)
	}
}

func TestImportReplacesSameApp(t *testing.T) {
	env := setupTestCLI(t)
	first := env.writeFile(t, "old.csv", hevyExport)
	second := env.writeFile(t, "new.csv", strings.SplitAfter(hevyExport, "\n")[0]+
		"Legs,\"1 Mar 2024, 10:00\",\"1 Mar 2024, 11:00\",Squat (Barbell),0,normal,140,3\n")

	mustRun(t, "import", first)
	mustRun(t, "import", second)

	u, err := env.openDB(t).GetUpload(models.SourceHevy)
	if err != nil {
		t.Fatalf("GetUpload failed: %v", err)
	}
	if u.Filename != "new.csv" {
		t.Errorf("Filename = %s, want new.csv", u.Filename)
	}

	out := mustRun(t, "records", "--json")
	var records []models.SetRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("parse records: %v", err)
	}
	if len(records) != 1 || records[0].Exercise != "squat (barbell)" {
		t.Errorf("expected only the newer export's set, got %+v", records)
	}
}

func TestImportRejectsUnknownFormat(t *testing.T) {
	env := setupTestCLI(t)
	path := env.writeFile(t, "mystery.csv", "foo,bar\n1,2\n")

	_, err := runCLI(t, "import", path)
	if err == nil || !strings.Contains(err.Error(), "unrecognized format") {
		t.Fatalf("expected unrecognized format error, got %v", err)
	}

	uploads, _ := env.openDB(t).ListUploads()
	if len(uploads) != 0 {
		t.Errorf("expected nothing stored, got %d uploads", len(uploads))
	}
}

func TestImportRejectsMalformedRow(t *testing.T) {
	env := setupTestCLI(t)
	path := env.writeFile(t, "jefit.csv", "mydate,ename,logs\n2024-01-20,Squat,\"100x5,abc\"\n")

	_, err := runCLI(t, "import", path)
	if err == nil || !strings.Contains(err.Error(), "row 1") {
		t.Fatalf("expected row-level error, got %v", err)
	}
}

func TestImportDeclaredSource(t *testing.T) {
	env := setupTestCLI(t)
	path := env.writeFile(t, "export.csv", strongExport)

	if _, err := runCLI(t, "import", "--source", "hevy", path); err == nil {
		t.Error("expected mismatch error")
	}
	if _, err := runCLI(t, "import", "--source", "fitbod", path); err == nil {
		t.Error("expected unknown source error")
	}
	mustRun(t, "import", "-s", "strong", path)
}

func TestRemove(t *testing.T) {
	env := setupTestCLI(t)
	mustRun(t, "import", env.writeFile(t, "hevy.csv", hevyExport))

	out := mustRun(t, "remove", "hevy")
	if !strings.Contains(out, "Removed Hevy export") {
		t.Errorf("unexpected output: %s", out)
	}

	_, err := runCLI(t, "remove", "hevy")
	if err == nil || !strings.Contains(err.Error(), "no Hevy export stored") {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestDetect(t *testing.T) {
	env := setupTestCLI(t)
	strong := env.writeFile(t, "strong.csv", strongExport)
	mystery := env.writeFile(t, "mystery.csv", "foo,bar\n")

	out := mustRun(t, "detect", strong)
	if !strings.Contains(out, "Strong") {
		t.Errorf("detect output = %q, want Strong", out)
	}

	out, err := runCLI(t, "detect", strong, mystery)
	if err == nil {
		t.Error("expected error for unrecognized file")
	}
	if !strings.Contains(out, "Strong") || !strings.Contains(out, "mystery.csv") {
		t.Errorf("expected both files reported, got %q", out)
	}
}

func TestTopCmd(t *testing.T) {
	env := setupTestCLI(t)
	mustRun(t, "import", env.writeFile(t, "hevy.csv", hevyExport), env.writeFile(t, "jefit.csv", jefitExport))

	out := mustRun(t, "top", "Barbell Bench Press", "--json")
	var top []models.TopSet
	if err := json.Unmarshal([]byte(out), &top); err != nil {
		t.Fatalf("parse top sets: %v", err)
	}
	if len(top) != 4 {
		t.Fatalf("expected 4 top sets, got %d", len(top))
	}
	if top[0].Weight != 110 || top[0].Source != models.SourceJefit {
		t.Errorf("unexpected best set: %+v", top[0])
	}

	out = mustRun(t, "top", "Barbell Bench Press", "-n", "1", "--source", "hevy")
	if !strings.Contains(out, "116.7") || strings.Contains(out, "Jefit") {
		t.Errorf("unexpected filtered output: %s", out)
	}

	out = mustRun(t, "top", "Deadlift")
	if !strings.Contains(out, "No sets found") {
		t.Errorf("expected empty message, got %s", out)
	}
}

func TestAnalysisCommands(t *testing.T) {
	env := setupTestCLI(t)
	mustRun(t, "import",
		env.writeFile(t, "hevy.csv", hevyExport),
		env.writeFile(t, "strong.csv", strongExport),
		env.writeFile(t, "jefit.csv", jefitExport))

	var ov models.Overview
	if err := json.Unmarshal([]byte(mustRun(t, "overview", "--json")), &ov); err != nil {
		t.Fatalf("parse overview: %v", err)
	}
	if ov.TotalWorkoutDays != 4 || ov.UniqueExercises != 3 {
		t.Errorf("unexpected overview: %+v", ov)
	}

	var sources []models.SourceStats
	if err := json.Unmarshal([]byte(mustRun(t, "compare", "--json")), &sources); err != nil {
		t.Fatalf("parse compare: %v", err)
	}
	if len(sources) != 3 || sources[0].Source != models.SourceHevy || sources[2].Source != models.SourceJefit {
		t.Errorf("unexpected comparison order: %+v", sources)
	}

	var freq []models.FrequencyPoint
	if err := json.Unmarshal([]byte(mustRun(t, "frequency", "--json")), &freq); err != nil {
		t.Fatalf("parse frequency: %v", err)
	}
	if len(freq) != 2 || freq[0].Period != "2024-01" || freq[0].Workouts != 3 {
		t.Errorf("unexpected frequency: %+v", freq)
	}

	for _, args := range [][]string{
		{"summary"}, {"compare"}, {"overview"}, {"volume"},
		{"progress", "Barbell Bench Press"}, {"frequency", "--by", "week"}, {"exercises"},
		{"records", "-e", "Barbell Bench Press", "-n", "2"},
	} {
		if out := mustRun(t, args...); out == "" {
			t.Errorf("%v printed nothing", args)
		}
	}

	if _, err := runCLI(t, "frequency", "--by", "day"); err == nil {
		t.Error("expected error for unknown period")
	}
	if _, err := runCLI(t, "records", "--since", "last week"); err == nil {
		t.Error("expected error for bad date")
	}
}

func TestEmptyStore(t *testing.T) {
	setupTestCLI(t)

	out := mustRun(t, "overview")
	if !strings.Contains(out, "No records found") {
		t.Errorf("expected empty hint, got %q", out)
	}

	out = mustRun(t, "records", "--json")
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("expected empty JSON array, got %q", out)
	}
}

func TestExportCSVToFile(t *testing.T) {
	env := setupTestCLI(t)
	mustRun(t, "import", env.writeFile(t, "jefit.csv", jefitExport))

	dest := filepath.Join(env.files, "out.csv")
	out := mustRun(t, "export", "csv", "-o", dest)
	if !strings.Contains(out, "Exported 2 records") {
		t.Errorf("unexpected output: %s", out)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 || lines[0] != strings.Join(storage.CSVHeader, ",") {
		t.Errorf("unexpected CSV:\n%s", data)
	}
}

func TestExportFormats(t *testing.T) {
	env := setupTestCLI(t)
	mustRun(t, "import", env.writeFile(t, "hevy.csv", hevyExport))

	if out := mustRun(t, "export", "json"); !strings.Contains(out, `"tool": "liftlog"`) {
		t.Errorf("unexpected JSON export: %s", out)
	}
	if out := mustRun(t, "export", "yaml"); !strings.Contains(out, "hevy:") {
		t.Errorf("unexpected YAML export: %s", out)
	}
	if out := mustRun(t, "export", "markdown"); !strings.Contains(out, "## 2024-01-15") {
		t.Errorf("unexpected Markdown export: %s", out)
	}
	if _, err := runCLI(t, "export", "pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestConfigSetAndShow(t *testing.T) {
	env := setupTestCLI(t)
	mustRun(t, "import", env.writeFile(t, "hevy.csv", hevyExport), env.writeFile(t, "jefit.csv", jefitExport))

	mustRun(t, "config", "set", "top_limit", "3")

	out := mustRun(t, "config", "show")
	if !strings.Contains(out, "top_limit    3") {
		t.Errorf("config show missing top_limit: %s", out)
	}
	if !strings.Contains(out, "backend      sqlite") {
		t.Errorf("config show missing backend: %s", out)
	}

	var top []models.TopSet
	if err := json.Unmarshal([]byte(mustRun(t, "top", "Barbell Bench Press", "--json")), &top); err != nil {
		t.Fatalf("parse top sets: %v", err)
	}
	if len(top) != 3 {
		t.Errorf("expected configured limit of 3, got %d", len(top))
	}

	if _, err := runCLI(t, "config", "set", "backend", "markdown"); err == nil {
		t.Error("expected validation error")
	}
	if _, err := runCLI(t, "config", "set", "colour", "red"); err == nil {
		t.Error("expected unknown key error")
	}
}

func TestMigrateToBadger(t *testing.T) {
	env := setupTestCLI(t)
	mustRun(t, "import", env.writeFile(t, "hevy.csv", hevyExport), env.writeFile(t, "jefit.csv", jefitExport))

	out := mustRun(t, "migrate", "--to", "badger", "--dry-run")
	if !strings.Contains(out, "2 exports from sqlite to badger") {
		t.Errorf("unexpected dry run output: %s", out)
	}

	out = mustRun(t, "migrate", "--to", "badger")
	if !strings.Contains(out, "Copied 2 exports") {
		t.Errorf("unexpected migrate output: %s", out)
	}

	mustRun(t, "config", "set", "backend", "badger")
	var records []models.SetRecord
	if err := json.Unmarshal([]byte(mustRun(t, "records", "--json")), &records); err != nil {
		t.Fatalf("parse records: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("expected 5 records from badger backend, got %d", len(records))
	}

	if _, err := runCLI(t, "migrate"); err == nil {
		t.Error("expected error without --to")
	}
	if _, err := runCLI(t, "migrate", "--to", "badger"); err == nil {
		t.Error("expected error migrating to the active backend")
	}
}

func TestSyncSubcommands(t *testing.T) {
	want := map[string]bool{"link": false, "unlink": false, "status": false, "reset": false}
	for _, c := range syncCmd.Commands() {
		if _, ok := want[c.Name()]; !ok {
			t.Errorf("unexpected sync subcommand %s", c.Name())
			continue
		}
		want[c.Name()] = true
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected sync %s to be registered", name)
		}
	}
}

func TestSyncStatusReportsEachApp(t *testing.T) {
	env := setupTestCLI(t)
	mustRun(t, "import", env.writeFile(t, "hevy.csv", hevyExport))

	bad := "mydate,ename,logs\n2024-01-20,Squat,\"100x5,abc\"\n"
	if err := env.openDB(t).SaveUpload(models.NewUpload(models.SourceJefit, "jefit_bad.csv", []byte(bad))); err != nil {
		t.Fatalf("SaveUpload failed: %v", err)
	}

	out := mustRun(t, "sync", "status")
	for _, want := range []string{
		"Backend: sqlite",
		"Sync: off",
		"hevy.csv",
		"3 sets",
		"not stored",
		"jefit_bad.csv",
		"skipped: Jefit row 1",
		"Total: 3 sets from 2 exports",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("sync status missing %q:\n%s", want, out)
		}
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	var strongLine string
	for _, l := range lines {
		if strings.Contains(l, "Strong") {
			strongLine = l
		}
	}
	if !strings.Contains(strongLine, "not stored") {
		t.Errorf("expected Strong to be reported as not stored, got %q", strongLine)
	}
}

func TestSyncResetNeedsCharmBackend(t *testing.T) {
	setupTestCLI(t)

	_, err := runCLI(t, "sync", "reset", "--yes")
	if err == nil || !strings.Contains(err.Error(), "needs the charm backend (using sqlite)") {
		t.Errorf("expected backend error, got %v", err)
	}
}

func TestConfirm(t *testing.T) {
	tests := map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "": false}
	for input, want := range tests {
		cmd := &cobra.Command{}
		cmd.SetIn(strings.NewReader(input))
		cmd.SetOut(&bytes.Buffer{})
		if got := confirm(cmd, "Continue?"); got != want {
			t.Errorf("confirm(%q) = %v, want %v", input, got, want)
		}
	}
}
