package cli

import (
	"testing"
)

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.0", "abc123", "2026-08-01")

	if version != "1.2.0" {
		t.Errorf("version = %q", version)
	}
	if commit != "abc123" {
		t.Errorf("commit = %q", commit)
	}
	if date != "2026-08-01" {
		t.Errorf("date = %q", date)
	}
}
