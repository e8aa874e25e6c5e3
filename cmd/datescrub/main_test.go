package main_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/datescrub"
	main "github.com/fwojciec/datescrub/cmd/datescrub"
	"github.com/fwojciec/datescrub/mock"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postsPage = `<html><body>
<div class="_3-95"><img src="photos/old.jpg">Old post Jan 5, 2021, 3:00 PM</div>
<div class="_3-95"><img src="photos/new.jpg">New post Jan 12, 2021, 9:00 AM</div>
</body></html>`

func writeExport(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "export.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range map[string]string{
		"posts/your_posts.html": postsPage,
		"photos/old.jpg":        "old",
		"photos/new.jpg":        "new",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func readExport(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	contents := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		contents[f.Name] = string(data)
	}
	return contents
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "datescrub")
	assert.Contains(t, stdout.String(), "runs")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_Clean(t *testing.T) {
	t.Parallel()

	t.Run("writes cleaned archive and log next to the input", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeExport(t, dir)
		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{in, "-s", "Jan 11 2021", "-q"}, &stdout, &stderr)

		require.NoError(t, err)
		contents := readExport(t, filepath.Join(dir, "export_CLEANED.zip"))
		assert.NotContains(t, contents["posts/your_posts.html"], "Old post")
		assert.Contains(t, contents["posts/your_posts.html"], "New post")
		assert.Equal(t, "new", contents["photos/new.jpg"])
		assert.NotContains(t, contents, "photos/old.jpg")

		assert.Contains(t, stdout.String(), "1 entries discarded")
		assert.NotContains(t, stdout.String(), "|_.__/", "banner should be suppressed")

		log, err := os.ReadFile(filepath.Join(dir, "export_CLEANED.log"))
		require.NoError(t, err)
		assert.Contains(t, string(log), "discarded entry")
		assert.Contains(t, string(log), "min=2021-01-05T15:00:00Z")
		assert.Contains(t, string(log), "copied asset")
		assert.Contains(t, string(log), "input_sha256=")
		assert.Contains(t, stderr.String(), "discarded entry")
	})

	t.Run("explicit clean command and output directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeExport(t, dir)
		outDir := filepath.Join(dir, "out")
		require.NoError(t, os.Mkdir(outDir, 0o755))
		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{"clean", in, "--out", outDir, "--end", "Jan 6 2021"}, &stdout, &stderr)

		require.NoError(t, err)
		contents := readExport(t, filepath.Join(outDir, "export_CLEANED.zip"))
		assert.Contains(t, contents["posts/your_posts.html"], "Old post")
		assert.NotContains(t, contents["posts/your_posts.html"], "New post")
		assert.Contains(t, stdout.String(), "|_.__/", "banner should be printed")
		_, err = os.Stat(filepath.Join(outDir, "export_CLEANED.log"))
		assert.NoError(t, err)
	})

	t.Run("records the run in the audit ledger", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeExport(t, dir)
		var recorded *datescrub.Run
		m := main.NewMain()
		m.RunService = &mock.RunService{
			CreateRunFn: func(_ context.Context, run *datescrub.Run) error {
				run.ID = "run-1"
				recorded = run
				return nil
			},
		}
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{in, "-q", "-s", "Jan 11 2021"}, &stdout, &stderr)

		require.NoError(t, err)
		require.NotNil(t, recorded)
		assert.Equal(t, in, recorded.InputPath)
		assert.Equal(t, time.Date(2021, time.January, 11, 0, 0, 0, 0, time.UTC), recorded.Window.Start)
		assert.Equal(t, 1, recorded.Discarded())
		assert.NotEmpty(t, recorded.InputDigest)
		assert.Contains(t, stdout.String(), "Recorded run run-1")
	})
}

func TestMain_Run_Clean_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unparseable start", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeExport(t, dir)
		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{in, "-s", "qwertyuiop"}, &stdout, &stderr)

		require.Error(t, err)
		assert.Equal(t, datescrub.EINVALID, datescrub.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error: start:")
		_, statErr := os.Stat(filepath.Join(dir, "export_CLEANED.log"))
		assert.True(t, os.IsNotExist(statErr), "nothing should be written")
	})

	t.Run("end before start", func(t *testing.T) {
		t.Parallel()

		in := writeExport(t, t.TempDir())
		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{in, "-s", "Jan 10 2021", "-e", "Jan 1 2021"}, &stdout, &stderr)

		assert.Equal(t, datescrub.EINVALID, datescrub.ErrorCode(err))
	})

	t.Run("input is not a zip archive", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "export.zip")
		require.NoError(t, os.WriteFile(in, []byte("plain text"), 0o644))
		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{in, "-q"}, &stdout, &stderr)

		require.Error(t, err)
		assert.Equal(t, datescrub.EINVALID, datescrub.ErrorCode(err))
		_, statErr := os.Stat(filepath.Join(dir, "export_CLEANED.zip"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("input does not exist", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{filepath.Join(t.TempDir(), "missing.zip")}, &stdout, &stderr)

		assert.Equal(t, datescrub.EINVALID, datescrub.ErrorCode(err))
	})

	t.Run("invalid config file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeExport(t, dir)
		cfg := filepath.Join(dir, "datescrub.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("entry_classes: []\n"), 0o644))
		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{in, "-c", cfg}, &stdout, &stderr)

		assert.Equal(t, datescrub.EINVALID, datescrub.ErrorCode(err))
		assert.Contains(t, stderr.String(), "entry_classes")
	})
}

func TestMain_Run_Runs(t *testing.T) {
	t.Parallel()

	t.Run("lists recorded runs", func(t *testing.T) {
		t.Parallel()

		var gotFilter datescrub.RunFilter
		m := main.NewMain()
		m.RunService = &mock.RunService{
			FindRunsFn: func(_ context.Context, filter datescrub.RunFilter) ([]*datescrub.Run, error) {
				gotFilter = filter
				return []*datescrub.Run{{
					ID:         "run-1",
					InputPath:  "export.zip",
					OutputPath: "export_CLEANED.zip",
					Window: datescrub.Window{
						Start: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
						End:   time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
					},
					Documents: []datescrub.DocumentResult{{Name: "a.html", Discarded: 3}},
					Assets:    2,
					CreatedAt: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
				}}, nil
			},
		}
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{"runs", "-n", "5", "-i", "export.zip"}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Equal(t, 5, gotFilter.Limit)
		require.NotNil(t, gotFilter.InputPath)
		assert.Equal(t, "export.zip", *gotFilter.InputPath)
		output := stdout.String()
		assert.Contains(t, output, "run-1")
		assert.Contains(t, output, "export.zip -> export_CLEANED.zip")
		assert.Contains(t, output, "window=2020-01-01..2021-01-01")
		assert.Contains(t, output, "discarded=3")
	})

	t.Run("reports when nothing is recorded", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.RunService = &mock.RunService{
			FindRunsFn: func(_ context.Context, _ datescrub.RunFilter) ([]*datescrub.Run, error) {
				return nil, nil
			},
		}
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{"runs"}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No runs recorded.")
	})

	t.Run("uses the sqlite ledger given by flag", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeExport(t, dir)
		db := filepath.Join(dir, "audit.db")

		var stdout, stderr bytes.Buffer
		require.NoError(t, main.NewMain().Run(context.Background(), []string{"--audit-db", db, in, "-q"}, &stdout, &stderr))

		stdout.Reset()
		err := main.NewMain().Run(context.Background(), []string{"--audit-db", db, "runs"}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), in)
	})
}
