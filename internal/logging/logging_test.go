package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevelAndFormatter(t *testing.T) {
	log := New("DEBUG", "production")
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected JSON formatter in production, got %T", log.Formatter)
	}

	log = New("chatty", "development")
	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info fallback, got %s", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("expected text formatter, got %T", log.Formatter)
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatalf("expected a logger for nil input")
	}
	l := New("info", "")
	if OrDiscard(l) != l {
		t.Fatalf("expected the given logger back")
	}
}
