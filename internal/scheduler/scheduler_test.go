package scheduler

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewRejectsBadCronSpec(t *testing.T) {
	if _, err := New("not a cron spec", nil, zap.NewNop()); err == nil {
		t.Error("expected error for invalid spec")
	}
}

func TestNewAcceptsDailySpec(t *testing.T) {
	s, err := New("0 2 * * *", nil, zap.NewNop())
	if err != nil {
		t.Fatalf("daily spec rejected: %v", err)
	}
	if s == nil {
		t.Fatal("nil scheduler")
	}
}
