package archive

import (
	"testing"
	"time"
)

func TestConfigIsConfigured(t *testing.T) {
	full := Config{Endpoint: "minio:9000", AccessKey: "ak", SecretKey: "sk", Bucket: "reports"}
	if !full.IsConfigured() {
		t.Error("full config should be configured")
	}
	for _, partial := range []Config{
		{},
		{Endpoint: "minio:9000"},
		{Endpoint: "minio:9000", AccessKey: "ak", SecretKey: "sk"},
	} {
		if partial.IsConfigured() {
			t.Errorf("partial config %+v should not be configured", partial)
		}
	}
}

func TestObjectName(t *testing.T) {
	at := time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)
	got := objectName("  General Hospital ", at)
	want := "approved/general-hospital/20250611-090000.pdf"
	if got != want {
		t.Errorf("objectName = %q, want %q", got, want)
	}
}
