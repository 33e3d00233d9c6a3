package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemoryLoggerSequence(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(NewTurnEvent(0, 0))
	l.Log(NewHealthChangeEvent(0, "Main", 1, 30, 26, "lane 0"))
	l.Log(NewTurnEvent(0, 1))

	events := l.Events()
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for i, e := range events {
		if e.Seq != i+1 {
			t.Errorf("event %d Seq = %d", i, e.Seq)
		}
	}
	if n := len(l.EventsOfType(EventNewTurn)); n != 2 {
		t.Errorf("EventsOfType(NewTurn) = %d, want 2", n)
	}
	if l.LastEvent().Player != 1 {
		t.Errorf("LastEvent = %+v", l.LastEvent())
	}
}

func TestTextLoggerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)
	l.Log(NewWinEvent(3, "End", 0, "opponent health reached 0"))
	line := buf.String()
	if !strings.HasPrefix(line, "R3  End") || !strings.Contains(line, "P1 wins!") {
		t.Errorf("line = %q", line)
	}
	if len(l.Events()) != 1 {
		t.Errorf("TextLogger did not record the event")
	}
}

