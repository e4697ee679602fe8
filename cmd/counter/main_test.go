package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/RoGogDBD/writer-test/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestRun_TableDriven(t *testing.T) {
	tests := []struct {
		name     string
		args     func(dir string) []string
		expCount int64
		wantErr  bool
	}{
		{
			name:     "stop mode reaches max",
			args:     func(dir string) []string { return []string{"-s", dir, "-n", "1", "-l", "error"} },
			expCount: 1,
		},
		{
			name:    "invalid mode",
			args:    func(dir string) []string { return []string{"-s", dir, "-m", "sideways"} },
			wantErr: true,
		},
		{
			name: "help",
			args: func(string) []string { return []string{"-h"} },
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "storage")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			err := run(ctx, tt.args(dir))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.expCount > 0 {
				rec, err := repository.NewFileStore(dir, tt.expCount, nil).LoadCount()
				require.NoError(t, err)
				require.Equal(t, tt.expCount, rec.Count)
			}
		})
	}
}

func TestRun_CancelledResetMode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "storage")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- run(ctx, []string{"-s", dir, "-m", "reset", "-l", "error"}) }()

	store := repository.NewFileStore(dir, 2500, nil)
	require.Eventually(t, func() bool {
		paths, err := store.Snapshots()
		return err == nil && len(paths) > 0
	}, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}
