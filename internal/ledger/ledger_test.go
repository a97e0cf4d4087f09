package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	led, err := Open(filepath.Join(t.TempDir(), "refile.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = led.Close() })
	return led
}

func TestLedger_RecordAndPlacements(t *testing.T) {
	led := openTestLedger(t)

	if err := led.Record("/src/a.pdf", "/out/2018/05/a.pdf", "titre a"); err != nil {
		t.Fatal(err)
	}
	if err := led.Record("/src/b.pdf", "/out/2019/01/b.pdf", "titre b"); err != nil {
		t.Fatal(err)
	}

	placements, err := led.Placements(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(placements) != 2 {
		t.Fatalf("got %d placements, want 2", len(placements))
	}
	if placements[0].Source != "/src/a.pdf" || placements[0].Title != "titre a" {
		t.Errorf("first placement = %+v", placements[0])
	}
	if placements[1].Destination != "/out/2019/01/b.pdf" {
		t.Errorf("second placement = %+v", placements[1])
	}
	if placements[0].PlacedAt.IsZero() {
		t.Error("PlacedAt not recorded")
	}
}

func TestLedger_Undo(t *testing.T) {
	led := openTestLedger(t)

	dir := t.TempDir()
	placedA := filepath.Join(dir, "a.pdf")
	placedB := filepath.Join(dir, "b.pdf")
	if err := os.WriteFile(placedA, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(placedB, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := led.Record("/src/a.pdf", placedA, ""); err != nil {
		t.Fatal(err)
	}
	if err := led.Record("/src/b.pdf", placedB, ""); err != nil {
		t.Fatal(err)
	}
	// A destination that disappeared on its own must not break undo.
	if err := led.Record("/src/c.pdf", filepath.Join(dir, "gone.pdf"), ""); err != nil {
		t.Fatal(err)
	}

	removed, err := led.Undo(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if _, err := os.Stat(placedA); !os.IsNotExist(err) {
		t.Error("placed file a still present")
	}

	placements, err := led.Placements(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(placements) != 0 {
		t.Errorf("%d placements remain after undo", len(placements))
	}
}

func TestLedger_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refile.db")

	led, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := led.Record("/src/a.pdf", "/out/a.pdf", "t"); err != nil {
		t.Fatal(err)
	}
	if err := led.Close(); err != nil {
		t.Fatal(err)
	}

	led, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer led.Close()

	placements, err := led.Placements(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(placements) != 1 {
		t.Errorf("got %d placements after reopen, want 1", len(placements))
	}
}
