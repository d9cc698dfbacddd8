package metrics

import (
	"strings"
	"testing"
)

func TestCountersAndFormat(t *testing.T) {
	before := Snapshot()

	IncrPageFetches()
	IncrPageFetches()
	IncrTranscriptsFailed()

	after := Snapshot()
	if d := after["page_fetches"] - before["page_fetches"]; d != 2 {
		t.Errorf("Expected page_fetches +2, got %d", d)
	}
	if d := after["transcripts_failed"] - before["transcripts_failed"]; d != 1 {
		t.Errorf("Expected transcripts_failed +1, got %d", d)
	}

	out := Format()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(order) {
		t.Fatalf("Expected %d lines, got %d", len(order), len(lines))
	}
	if !strings.HasPrefix(lines[0], "yttranscripts_page_fetches ") {
		t.Errorf("Unexpected first line %q", lines[0])
	}
}
