package logger

import (
	"testing"
)

func TestNew_ConsoleDefault(t *testing.T) {
	l, err := New("", "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if l == nil {
		t.Fatal("expected a logger")
	}
}

func TestNew_JSON(t *testing.T) {
	l, err := New("json", "debug")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !l.Core().Enabled(-1) { // -1 is zap's debug level
		t.Error("expected debug level to be enabled")
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, err := New("xml", ""); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("console", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestNew_LevelOverride(t *testing.T) {
	l, err := New("console", "error")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if l.Core().Enabled(0) { // 0 is zap's info level
		t.Error("expected info level to be disabled at error level")
	}
}
