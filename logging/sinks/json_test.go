package sinks

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"titans-realm/server/logging"
)

func TestJSONSinkWritesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.ndjson")
	sink, err := NewJSONSink(logging.JSONConfig{FilePath: path})
	if err != nil {
		t.Fatal(err)
	}
	events := []logging.Event{
		{Type: "combat.kill", Tick: 1, Severity: logging.SeverityInfo},
		{Type: "economy.loot", Tick: 2, Severity: logging.SeverityInfo},
	}
	for _, ev := range events {
		if err := sink.Write(ev); err != nil {
			t.Fatal(err)
		}
	}
	if err := sink.Close(context.Background()); err != nil {
		t.Fatal(err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	lines := 0
	for scanner.Scan() {
		var decoded logging.Event
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("line %d: %v", lines, err)
		}
		if decoded.Type != events[lines].Type {
			t.Fatalf("line %d type = %s, want %s", lines, decoded.Type, events[lines].Type)
		}
		lines++
	}
	if lines != len(events) {
		t.Fatalf("wrote %d lines, want %d", lines, len(events))
	}
}

func TestJSONSinkRequiresPath(t *testing.T) {
	if _, err := NewJSONSink(logging.JSONConfig{}); err == nil {
		t.Fatal("empty path accepted")
	}
}

func TestMemorySink(t *testing.T) {
	sink := NewMemorySink()
	sink.Write(logging.Event{Type: "a"})
	sink.Write(logging.Event{Type: "b"})
	if got := sink.Events(); len(got) != 2 || got[0].Type != "a" {
		t.Fatalf("events = %+v", got)
	}
	sink.Reset()
	if len(sink.Events()) != 0 {
		t.Fatal("reset did not clear")
	}
}
