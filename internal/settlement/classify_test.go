package settlement

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func ptr[T any](v T) *T {
	return &v
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		minutes *float64
		want    DurationClass
	}{
		{name: "absent", minutes: nil, want: Medium},
		{name: "zero", minutes: ptr(0.0), want: ShortFast},
		{name: "one minute inclusive", minutes: ptr(1.0), want: ShortFast},
		{name: "just over one", minutes: ptr(1.0001), want: Short},
		{name: "five inclusive", minutes: ptr(5.0), want: Short},
		{name: "five and a half", minutes: ptr(5.5), want: Medium},
		{name: "sixty inclusive", minutes: ptr(60.0), want: Medium},
		{name: "just over sixty", minutes: ptr(60.1), want: Long},
		{name: "a week", minutes: ptr(7 * 24 * 60.0), want: Long},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.minutes); got != tt.want {
				t.Fatalf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyDurationConvertsToMinutes(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want DurationClass
	}{
		{30 * time.Second, ShortFast},
		{60 * time.Second, ShortFast},
		{90 * time.Second, Short},
		{5 * time.Minute, Short},
		{10 * time.Minute, Medium},
		{time.Hour, Medium},
		{61 * time.Minute, Long},
		{24 * time.Hour, Long},
	}
	for _, tt := range tests {
		if got := ClassifyDuration(tt.d); got != tt.want {
			t.Fatalf("ClassifyDuration(%s) = %s, want %s", tt.d, got, tt.want)
		}
	}
	if got := ClassifySeconds(nil); got != Medium {
		t.Fatalf("ClassifySeconds(nil) = %s, want medium", got)
	}
	if got := ClassifySeconds(ptr(int64(300))); got != Short {
		t.Fatalf("ClassifySeconds(300) = %s, want short", got)
	}
	// 60 raw seconds must not be read as 60 minutes.
	if got := ClassifySeconds(ptr(int64(60))); got != ShortFast {
		t.Fatalf("ClassifySeconds(60) = %s, want short_fast", got)
	}
}

func TestSmoothingConstants(t *testing.T) {
	want := map[DurationClass]string{
		ShortFast: "0.2",
		Short:     "0.15",
		Medium:    "0.1",
		Long:      "0.05",
	}
	for class, v := range want {
		if !class.Smoothing().Equal(dec(v)) {
			t.Fatalf("%s smoothing = %s, want %s", class, class.Smoothing(), v)
		}
	}
}

func TestDurationClassText(t *testing.T) {
	for _, class := range []DurationClass{ShortFast, Short, Medium, Long} {
		b, err := json.Marshal(class)
		if err != nil {
			t.Fatalf("marshal %s: %v", class, err)
		}
		var got DurationClass
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if got != class {
			t.Fatalf("round trip %s -> %s", class, got)
		}
	}
	if _, err := ParseDurationClass("hourly"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("ParseDurationClass(hourly) err = %v, want ErrInvalidInput", err)
	}
	if c, err := ParseDurationClass(""); err != nil || c != Medium {
		t.Fatalf("ParseDurationClass(\"\") = %s, %v; want medium", c, err)
	}
}
