package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid date", input: "2024-03-15"},
		{name: "leap day", input: "2024-02-29"},
		{name: "wrong format", input: "15/03/2024", wantErr: true},
		{name: "with time component", input: "2024-03-15T10:00:00Z", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "non-leap february 29", input: "2023-02-29", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if d.String() != tt.input {
				t.Errorf("round trip = %q, want %q", d.String(), tt.input)
			}
		})
	}
}

func TestDate_Within(t *testing.T) {
	start := NewDate(2024, 3, 1)
	end := NewDate(2024, 3, 31)

	tests := []struct {
		name string
		date Date
		want bool
	}{
		{name: "inside the range", date: NewDate(2024, 3, 15), want: true},
		{name: "start boundary is inclusive", date: NewDate(2024, 3, 1), want: true},
		{name: "end boundary is inclusive", date: NewDate(2024, 3, 31), want: true},
		{name: "day before start", date: NewDate(2024, 2, 29), want: false},
		{name: "day after end", date: NewDate(2024, 4, 1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.Within(start, end); got != tt.want {
				t.Errorf("Within() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDate_SameMonth(t *testing.T) {
	d := NewDate(2024, 3, 15)
	if !d.SameMonth(2024, time.March) {
		t.Error("SameMonth(2024, March) = false, want true")
	}
	if d.SameMonth(2023, time.March) {
		t.Error("SameMonth(2023, March) = true, want false")
	}
	if d.SameMonth(2024, time.April) {
		t.Error("SameMonth(2024, April) = true, want false")
	}
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2024, time.March, 15, 23, 59, 59, 0, time.UTC)
	d := DateOf(ts)
	if d.String() != "2024-03-15" {
		t.Errorf("DateOf() = %s, want 2024-03-15", d)
	}
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Error("DateOf() kept a wall-clock component")
	}
}
