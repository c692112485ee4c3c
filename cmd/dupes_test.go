package cmd

import (
	"slices"
	"testing"
)

func TestCollectDupeBlocks(t *testing.T) {
	entries := []fileEntry{
		{Name: "Alias 01.cbz", TTH: "T1"},
		{Name: "backup/Alias 01.cbz", TTH: "T1"},
		{Name: "one-off.cbz", TTH: "T2"},
		{Name: "Alias 02.cbz", TTH: "T3"},
		{Name: "old/Alias 02.cbz", TTH: "T3"},
		{Name: "spare/Alias 02.cbz", TTH: "T3"},
	}

	blocks := collectDupeBlocks(entries)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2: %v", len(blocks), blocks)
	}
	if blocks[0].tth != "T1" || !slices.Equal(blocks[0].names, []string{"Alias 01.cbz", "backup/Alias 01.cbz"}) {
		t.Errorf("first block = %v", blocks[0])
	}
	if blocks[1].tth != "T3" || len(blocks[1].names) != 3 {
		t.Errorf("second block = %v", blocks[1])
	}
}

// Two different TTHs can lead with the same name (same filename, different
// content). Both blocks must survive.
func TestCollectDupeBlocksSharedLeadName(t *testing.T) {
	entries := []fileEntry{
		{Name: "same.cbz", TTH: "TA"},
		{Name: "same.cbz", TTH: "TB"},
		{Name: "copy-a.cbz", TTH: "TA"},
		{Name: "copy-b.cbz", TTH: "TB"},
	}

	blocks := collectDupeBlocks(entries)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2: %v", len(blocks), blocks)
	}
	// lead names tie, so TTH breaks it
	if blocks[0].tth != "TA" || blocks[1].tth != "TB" {
		t.Errorf("block order = %q, %q", blocks[0].tth, blocks[1].tth)
	}
	if !slices.Equal(blocks[0].names, []string{"same.cbz", "copy-a.cbz"}) {
		t.Errorf("first block names = %v", blocks[0].names)
	}
	if !slices.Equal(blocks[1].names, []string{"same.cbz", "copy-b.cbz"}) {
		t.Errorf("second block names = %v", blocks[1].names)
	}
}

func TestCollectDupeBlocksNoDupes(t *testing.T) {
	entries := []fileEntry{
		{Name: "a.cbz", TTH: "T1"},
		{Name: "b.cbz", TTH: "T2"},
	}
	if blocks := collectDupeBlocks(entries); len(blocks) != 0 {
		t.Errorf("got %d blocks, want none: %v", len(blocks), blocks)
	}
}
