package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{" WARN ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		if got := toZapLevel(tc.in); got != tc.want {
			t.Fatalf("toZapLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGet_ReturnsSingleton(t *testing.T) {
	a := Get(InfoLevel)
	b := Get(DebugLevel)
	if a != b {
		t.Fatalf("expected the same logger instance")
	}
}

func TestNop_DiscardsOutput(t *testing.T) {
	l := Nop()
	if l == nil || l.SugaredLogger == nil {
		t.Fatalf("expected usable nop logger")
	}
	l.Infow("ignored", "k", "v")
}

func TestIsProduction(t *testing.T) {
	cases := map[string]bool{
		"production":   true,
		" Production ": true,
		"development":  false,
		"":             false,
	}
	for in, want := range cases {
		if got := isProduction(in); got != want {
			t.Fatalf("isProduction(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewZapLogger_BothEncodings(t *testing.T) {
	for _, jsonOutput := range []bool{true, false} {
		l := newZapLogger(WarnLevel, jsonOutput)
		if l.Desugar().Core().Enabled(zapcore.InfoLevel) {
			t.Fatalf("json=%v: info must be disabled at warn level", jsonOutput)
		}
		if !l.Desugar().Core().Enabled(zapcore.ErrorLevel) {
			t.Fatalf("json=%v: error must be enabled at warn level", jsonOutput)
		}
	}
}
