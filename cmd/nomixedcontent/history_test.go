package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/onethinglab/nomixedcontent/internal/database"
	"github.com/onethinglab/nomixedcontent/internal/model"
)

// openHistoryTestDB creates a populated HistoryDB in a temporary directory.
func openHistoryTestDB(t *testing.T, targets ...string) *database.HistoryDB {
	t.Helper()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})

	for _, target := range targets {
		report := model.NewScanReport(target)
		report.PagesCrawled = 1
		if _, err := db.SaveReport(context.Background(), report); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
	}

	return db
}

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history [url]" {
			t.Errorf("expected use 'history [url]', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"id", "latest", "targets", "json"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})
}

// TestListTargets tests the distinct-target listing.
func TestListTargets(t *testing.T) {
	t.Parallel()

	t.Run("lists distinct targets sorted", func(t *testing.T) {
		t.Parallel()

		db := openHistoryTestDB(t,
			"https://b.example.com/",
			"https://a.example.com/",
			"https://b.example.com/",
		)

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetContext(context.Background())

		if err := listTargets(cmd, db); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "https://a.example.com/\nhttps://b.example.com/\n"
		if buf.String() != want {
			t.Errorf("expected output %q, got %q", want, buf.String())
		}
	})

	t.Run("empty database", func(t *testing.T) {
		t.Parallel()

		db := openHistoryTestDB(t)

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetContext(context.Background())

		if err := listTargets(cmd, db); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "No scans recorded.") {
			t.Errorf("expected empty-history message, got %q", buf.String())
		}
	})
}

// TestListHistory tests the scan metadata table.
func TestListHistory(t *testing.T) {
	t.Parallel()

	t.Run("filters by target", func(t *testing.T) {
		t.Parallel()

		db := openHistoryTestDB(t,
			"https://a.example.com/",
			"https://b.example.com/",
		)

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetContext(context.Background())

		if err := listHistory(cmd, db, "https://a.example.com/"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "https://a.example.com/") {
			t.Error("expected filtered target in output")
		}
		if strings.Contains(output, "https://b.example.com/") {
			t.Error("unexpected other target in filtered output")
		}
	})
}
