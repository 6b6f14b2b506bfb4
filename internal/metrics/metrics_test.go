package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHelpers_NoopBeforeInit(t *testing.T) {
	// Must not panic while collectors are nil.
	if vendorRequests != nil {
		t.Skip("collectors already registered by another test")
	}
	ObserveVendorRequest("SetTemperature", ResultSuccess, time.Millisecond)
	IncLogin(ResultSuccess)
	IncSessionExpired()
	SetSessionActive(true)
	IncPoll(ResultSkipped)
}

func TestInit_RegistersAndCounts(t *testing.T) {
	Init()
	Init() // idempotent

	before := testutil.ToFloat64(vendorRequests.WithLabelValues("GetCurrentStatus", ResultSuccess))
	ObserveVendorRequest("GetCurrentStatus", ResultSuccess, 20*time.Millisecond)
	after := testutil.ToFloat64(vendorRequests.WithLabelValues("GetCurrentStatus", ResultSuccess))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}

	SetSessionActive(true)
	if v := testutil.ToFloat64(sessionActive); v != 1 {
		t.Fatalf("session gauge = %v, want 1", v)
	}
	SetSessionActive(false)
	if v := testutil.ToFloat64(sessionActive); v != 0 {
		t.Fatalf("session gauge = %v, want 0", v)
	}
}
