package domain

import (
	"errors"
	"testing"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    Position
		wantErr bool
	}{
		{"first", PositionFirst, false},
		{"First", PositionFirst, false},
		{"SECOND", PositionSecond, false},
		{" third ", PositionThird, false},
		{"fourth", PositionFourth, false},
		{"fifth", "", true},
		{"", "", true},
		{"1st", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePosition(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePosition(%q) expected error, got %q", tt.in, got)
			} else if !errors.Is(err, ErrInvalidPosition) {
				t.Errorf("ParsePosition(%q) error = %v, want ErrInvalidPosition", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePosition(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePosition(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSnapshot(t *testing.T) {
	snap, err := ParseSnapshot(map[string]string{"First": "3", "second": "1"})
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}
	if snap[PositionFirst] != "3" || snap[PositionSecond] != "1" {
		t.Errorf("snapshot not normalised: %v", snap)
	}
}

func TestParseSnapshotEmpty(t *testing.T) {
	if _, err := ParseSnapshot(nil); !errors.Is(err, ErrEmptySubmission) {
		t.Errorf("expected ErrEmptySubmission, got %v", err)
	}
	if _, err := ParseSnapshot(map[string]string{}); !errors.Is(err, ErrEmptySubmission) {
		t.Errorf("expected ErrEmptySubmission, got %v", err)
	}
}

func TestParseSnapshotInvalidKey(t *testing.T) {
	if _, err := ParseSnapshot(map[string]string{"winner": "3"}); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestSnapshotClone(t *testing.T) {
	orig := Snapshot{PositionFirst: "3"}
	clone := orig.Clone()
	clone[PositionFirst] = "7"
	if orig[PositionFirst] != "3" {
		t.Error("Clone should not share storage with the original")
	}
}
