package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/store"
	"github.com/nhle/todo/internal/todo"
)

// newConfig writes a config using the file backend inside a temp dir and
// returns its path.
func newConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	cfg := model.DefaultAppConfig()
	cfg.Storage.Backend = model.BackendFile
	cfg.Storage.FileDir = filepath.Join(dir, "kv")
	cfg.Storage.OnCorrupt = model.OnCorruptFail
	cfg.Log.File = filepath.Join(dir, "todo.log")

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, model.SaveConfig(path, cfg))
	return path
}

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand("test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, configPath string, args ...string) string {
	t.Helper()
	out, err := run(t, configPath, args...)
	require.NoError(t, err, "todo %s", strings.Join(args, " "))
	return out
}

type listedTask struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// listed decodes "list --json" output.
func listed(t *testing.T, configPath string, args ...string) []listedTask {
	t.Helper()
	out := mustRun(t, configPath, append([]string{"list", "--json"}, args...)...)
	var tasks []listedTask
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	return tasks
}

func firstID(t *testing.T, tasks []listedTask) string {
	t.Helper()
	require.NotEmpty(t, tasks)
	return strconv.FormatInt(tasks[0].ID, 10)
}

func TestAddAndList(t *testing.T) {
	cfg := newConfig(t)

	out := mustRun(t, cfg, "add", "Buy", "milk")
	assert.Contains(t, out, "Buy milk")
	mustRun(t, cfg, "add", "Walk the dog")

	tasks := listed(t, cfg)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Walk the dog", tasks[0].Text, "newest first")
	assert.Equal(t, "Buy milk", tasks[1].Text)

	table := mustRun(t, cfg, "list")
	assert.Contains(t, table, "[ ] ")
	assert.Contains(t, table, "2 shown, 2 active, 0 completed")
}

func TestAddRejectsBlank(t *testing.T) {
	cfg := newConfig(t)

	_, err := run(t, cfg, "add", "   ")
	assert.ErrorIs(t, err, todo.ErrEmptyText)
	assert.Empty(t, listed(t, cfg))
}

func TestToggleFilterAndSearch(t *testing.T) {
	cfg := newConfig(t)
	mustRun(t, cfg, "add", "Buy milk")
	mustRun(t, cfg, "add", "Walk dog")

	id := firstID(t, listed(t, cfg, "--search", "DOG"))
	out := mustRun(t, cfg, "toggle", id)
	assert.Contains(t, out, "completed")

	done := listed(t, cfg, "--filter", "completed")
	require.Len(t, done, 1)
	assert.Equal(t, "Walk dog", done[0].Text)

	active := listed(t, cfg, "--filter", "active")
	require.Len(t, active, 1)
	assert.Equal(t, "Buy milk", active[0].Text)

	_, err := run(t, cfg, "list", "--filter", "starred")
	assert.Error(t, err)
}

func TestEditAndRemove(t *testing.T) {
	cfg := newConfig(t)
	mustRun(t, cfg, "add", "Buy milk")
	id := firstID(t, listed(t, cfg))

	mustRun(t, cfg, "edit", id, "Buy", "oat", "milk")
	assert.Equal(t, "Buy oat milk", listed(t, cfg)[0].Text)

	_, err := run(t, cfg, "edit", id, " ")
	assert.ErrorIs(t, err, todo.ErrEmptyText)
	assert.Equal(t, "Buy oat milk", listed(t, cfg)[0].Text)

	mustRun(t, cfg, "rm", id)
	assert.Empty(t, listed(t, cfg))

	_, err = run(t, cfg, "rm", id)
	assert.ErrorContains(t, err, "no task with id")

	_, err = run(t, cfg, "toggle", "abc")
	assert.ErrorContains(t, err, "invalid task id")
}

func TestBulkCommands(t *testing.T) {
	cfg := newConfig(t)
	mustRun(t, cfg, "add", "a")
	mustRun(t, cfg, "add", "b")

	mustRun(t, cfg, "complete-all")
	assert.Len(t, listed(t, cfg, "--filter", "completed"), 2)

	out := mustRun(t, cfg, "clear-completed")
	assert.Contains(t, out, "Cleared 2 tasks")
	assert.Empty(t, listed(t, cfg))
}

func TestExportImport(t *testing.T) {
	cfg := newConfig(t)
	mustRun(t, cfg, "add", "a")
	mustRun(t, cfg, "add", "b")
	mustRun(t, cfg, "complete-all")

	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "tasks."+format)
			mustRun(t, cfg, "export", "--format", format, "-o", file)

			other := newConfig(t)
			out := mustRun(t, other, "import", "--format", format, file)
			assert.Contains(t, out, "Imported 2 tasks")
			assert.Len(t, listed(t, other, "--filter", "completed"), 2)
		})
	}

	_, err := run(t, cfg, "export", "--format", "csv")
	assert.Error(t, err)
}

func TestImportFailureAddsNothing(t *testing.T) {
	cfg := newConfig(t)
	mustRun(t, cfg, "add", "existing")

	file := filepath.Join(t.TempDir(), "tasks.json")
	records := `[
  {"id": 1, "text": "first", "completed": false, "createdAt": "2025-03-01T09:00:00.000Z"},
  {"id": 2, "text": "   ", "completed": false, "createdAt": "2025-03-01T09:00:01.000Z"}
]`
	require.NoError(t, os.WriteFile(file, []byte(records), 0o644))

	_, err := run(t, cfg, "import", file)
	assert.ErrorIs(t, err, todo.ErrEmptyText)

	tasks := listed(t, cfg)
	require.Len(t, tasks, 1)
	assert.Equal(t, "existing", tasks[0].Text)
}

func TestCorruptStateFailPolicy(t *testing.T) {
	cfg := newConfig(t)
	loaded, err := model.LoadConfig(cfg)
	require.NoError(t, err)

	kv, err := store.NewFileStore(loaded.Storage.FileDir)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), loaded.Storage.Key, "not json"))
	require.NoError(t, kv.Close())

	_, err = run(t, cfg, "list")
	var corrupt *store.CorruptStateError
	assert.ErrorAs(t, err, &corrupt)
}

func TestInitNonInteractive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	out := mustRun(t, path, "init", "--yes",
		"--backend", "file",
		"--file-dir", filepath.Join(dir, "kv"),
		"--default-filter", "active",
	)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := model.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, model.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "active", cfg.Display.DefaultFilter)

	_, err = run(t, path, "init", "--yes")
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, path, "init", "--yes", "--force", "--backend", "etcd")
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestLogLevelFlag(t *testing.T) {
	cfg := newConfig(t)

	_, err := run(t, cfg, "--log-level", "loud", "list")
	assert.ErrorContains(t, err, "invalid log level")

	_, err = run(t, cfg, "--log-level", "debug", "list")
	assert.NoError(t, err)
}
