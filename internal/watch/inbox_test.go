package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ingested struct {
	name string
	data string
}

func startInbox(t *testing.T, ingest IngestFunc) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "inbox")
	in, err := NewInbox(dir, 200*time.Millisecond, ingest, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		in.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		in.Close()
	})
	return dir
}

func TestInbox_PicksUpWorkbooks(t *testing.T) {
	got := make(chan ingested, 4)
	dir := startInbox(t, func(ctx context.Context, data []byte, filename string) error {
		got <- ingested{name: filename, data: string(data)}
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "~$Rank.xlsx"), []byte("lock"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Rank.xlsx"), []byte("part"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Rank.xlsx"), []byte("whole"), 0o644))

	select {
	case in := <-got:
		assert.Equal(t, "Rank.xlsx", in.name)
		assert.Equal(t, "whole", in.data)
	case <-time.After(5 * time.Second):
		t.Fatal("workbook was not ingested")
	}

	select {
	case extra := <-got:
		t.Fatalf("unexpected ingest of %s", extra.name)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestInbox_IngestErrorKeepsWatching(t *testing.T) {
	calls := make(chan string, 4)
	dir := startInbox(t, func(ctx context.Context, data []byte, filename string) error {
		calls <- filename
		return errors.New("not a workbook")
	})

	for _, name := range []string{"a.xlsx", "b.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
		select {
		case got := <-calls:
			assert.Equal(t, name, got)
		case <-time.After(5 * time.Second):
			t.Fatalf("%s was not ingested", name)
		}
	}
}

func TestIsWorkbook(t *testing.T) {
	tests := map[string]bool{
		"/in/Rank.xlsx":   true,
		"/in/RANK.XLSX":   true,
		"/in/rank.xls":    false,
		"/in/~$Rank.xlsx": false,
		"/in/.Rank.xlsx":  false,
		"/in/rank.csv":    false,
	}
	for path, want := range tests {
		assert.Equal(t, want, isWorkbook(path), path)
	}
}
