package plan

import (
	"errors"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		hour    int
		minute  int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", hour: 0, minute: 0},
		{name: "evening", input: "19:30", hour: 19, minute: 30},
		{name: "end of day", input: "23:59", hour: 23, minute: 59},
		{name: "surrounding whitespace", input: " 08:15 ", hour: 8, minute: 15},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "12:60", wantErr: true},
		{name: "single digit hour", input: "8:15", wantErr: true},
		{name: "no colon", input: "0815", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, err := ParseClock(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTime) {
					t.Fatalf("expected ErrInvalidTime, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hour != tt.hour || minute != tt.minute {
				t.Errorf("got %02d:%02d, want %02d:%02d", hour, minute, tt.hour, tt.minute)
			}
		})
	}
}

func TestParseTimeSpec(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeSpec
		wantErr bool
	}{
		{name: "sunrise", input: "sunrise", want: TimeSpec{Kind: TimeSunrise}},
		{name: "sunset", input: "sunset", want: TimeSpec{Kind: TimeSunset}},
		{name: "sunset uppercase", input: "Sunset", want: TimeSpec{Kind: TimeSunset}},
		{name: "midnight", input: "midnight", want: TimeSpec{Kind: TimeMidnight}},
		{name: "noon", input: "noon", want: TimeSpec{Kind: TimeNoon, Hour: 12}},
		{name: "clock", input: "22:45", want: TimeSpec{Kind: TimeClock, Hour: 22, Minute: 45}},
		{name: "garbage", input: "dusk", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeSpec(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTime) {
					t.Fatalf("expected ErrInvalidTime, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTimeSpecString(t *testing.T) {
	tests := []struct {
		spec TimeSpec
		want string
	}{
		{TimeSpec{Kind: TimeSunrise}, "sunrise"},
		{TimeSpec{Kind: TimeSunset}, "sunset"},
		{TimeSpec{Kind: TimeMidnight}, "midnight"},
		{TimeSpec{Kind: TimeNoon, Hour: 12}, "noon"},
		{TimeSpec{Kind: TimeClock, Hour: 7, Minute: 5}, "07:05"},
	}

	for _, tt := range tests {
		if got := tt.spec.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseVariation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    VariationSpec
		wantErr bool
	}{
		{name: "none", input: "none", want: VariationSpec{Kind: VariationNone}},
		{name: "disabled", input: "disabled", want: VariationSpec{Kind: VariationNone}},
		{name: "earlier minutes", input: "- 15 minutes", want: VariationSpec{Kind: VariationEarlier, Range: 15 * time.Minute}},
		{name: "later singular minute", input: "+ 1 minute", want: VariationSpec{Kind: VariationLater, Range: time.Minute}},
		{name: "symmetric minutes", input: "+/- 30 minutes", want: VariationSpec{Kind: VariationSymmetric, Range: 30 * time.Minute}},
		{name: "symmetric hours", input: "+/- 2 hours", want: VariationSpec{Kind: VariationSymmetric, Range: 2 * time.Hour}},
		{name: "case insensitive", input: "+/- 5 Minutes", want: VariationSpec{Kind: VariationSymmetric, Range: 5 * time.Minute}},
		{name: "zero amount", input: "+ 0 minutes", wantErr: true},
		{name: "missing space", input: "+/-10 minutes", wantErr: true},
		{name: "unknown unit", input: "+ 10 seconds", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVariation(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVariation) {
					t.Fatalf("expected ErrInvalidVariation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
