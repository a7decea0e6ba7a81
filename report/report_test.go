package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestReporterDedupsExactMatches(t *testing.T) {
	r := NewReporter(100, 0.01)
	m := Match{QueryName: "q1", QueryStart: 0, TargetSeqnum: 2, TargetStart: 10, Length: 20, Score: 40}
	if !r.Add(m) {
		t.Fatal("first Add should report a new match")
	}
	if r.Add(m) {
		t.Fatal("second identical Add should be suppressed as a duplicate")
	}
	if r.Len() != 1 {
		t.Fatalf("got %d matches, want 1", r.Len())
	}
}

func TestReporterWriteSortedOrder(t *testing.T) {
	r := NewReporter(10, 0.01)
	r.Add(Match{QueryName: "q2", QueryStart: 0, TargetSeqnum: 0, TargetStart: 0, Length: 10})
	r.Add(Match{QueryName: "q1", QueryStart: 5, TargetSeqnum: 0, TargetStart: 0, Length: 10})
	r.Add(Match{QueryName: "q1", QueryStart: 0, TargetSeqnum: 0, TargetStart: 0, Length: 10})

	var buf bytes.Buffer
	if err := r.WriteSorted(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "q1\t0\t") {
		t.Fatalf("first line should be q1 at query start 0, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "q1\t5\t") {
		t.Fatalf("second line should be q1 at query start 5, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "q2\t") {
		t.Fatalf("third line should be q2, got %q", lines[2])
	}
}
