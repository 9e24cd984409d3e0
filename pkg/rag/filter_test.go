package rag

import (
	"testing"
	"time"

	"travel-assistant-be/pkg/rag/intent"
	"travel-assistant-be/pkg/vectorindex"
)

// Wednesday 2026-08-26; the upcoming weekend is Aug 29-30.
var fixedNow = time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)

func TestBuildFilterFree(t *testing.T) {
	filter := BuildFilter(intent.FindFree, "free stuff to do", fixedNow)

	predicate, ok := filter["cost"]
	if !ok {
		t.Fatalf("expected cost predicate, got %v", filter)
	}
	if predicate.Op != vectorindex.OpEq || predicate.Value != FreeCostSentinel {
		t.Errorf("cost predicate = %+v, want Eq %q", predicate, FreeCostSentinel)
	}
	if filter.Permissive() {
		t.Error("free filter should not be permissive")
	}
}

func TestBuildFilterCategory(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantCategory string
		wantMatchAll bool
	}{
		{
			name:         "single category keyword",
			query:        "Any good comedy shows?",
			wantCategory: "comedy",
		},
		{
			name:         "vocabulary order decides ties",
			query:        "comedy at the museum",
			wantCategory: "museum",
		},
		{
			name:         "keyword matched case-insensitively",
			query:        "MUSIC festivals please",
			wantCategory: "music",
		},
		{
			name:         "no recognized keyword stays permissive",
			query:        "fun things for kids",
			wantMatchAll: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := BuildFilter(intent.FindCategory, tt.query, fixedNow)

			if tt.wantMatchAll {
				if !filter.Permissive() {
					t.Errorf("expected permissive filter, got %v", filter)
				}
				return
			}

			predicate, ok := filter["category"]
			if !ok {
				t.Fatalf("expected category predicate, got %v", filter)
			}
			if predicate.Op != vectorindex.OpEq || predicate.Value != tt.wantCategory {
				t.Errorf("category predicate = %+v, want Eq %q", predicate, tt.wantCategory)
			}
		})
	}
}

func TestBuildFilterWeekend(t *testing.T) {
	filter := BuildFilter(intent.FindDateRange, "what is on this weekend", fixedNow)

	predicate, ok := filter["eventDate"]
	if !ok {
		t.Fatalf("expected eventDate predicate, got %v", filter)
	}
	if predicate.Op != vectorindex.OpBetween {
		t.Fatalf("eventDate op = %v, want Between", predicate.Op)
	}
	if len(predicate.Values) != 2 {
		t.Fatalf("eventDate bounds = %v, want 2 values", predicate.Values)
	}
	if predicate.Values[0] != "2026-08-29T00:00:00Z" {
		t.Errorf("weekend start = %v, want 2026-08-29T00:00:00Z", predicate.Values[0])
	}
	if predicate.Values[1] != "2026-08-30T23:59:59Z" {
		t.Errorf("weekend end = %v, want 2026-08-30T23:59:59Z", predicate.Values[1])
	}
}

func TestBuildFilterDateRangeWithoutPhrase(t *testing.T) {
	filter := BuildFilter(intent.FindDateRange, "events next month", fixedNow)
	if !filter.Permissive() {
		t.Errorf("expected permissive filter, got %v", filter)
	}
}

func TestBuildFilterDefaults(t *testing.T) {
	for _, it := range []intent.Intent{intent.General, intent.Intent("gibberish"), intent.Intent("")} {
		filter := BuildFilter(it, "anything at all", fixedNow)
		if !filter.Permissive() {
			t.Errorf("intent %q: expected permissive filter, got %v", it, filter)
		}
		if len(filter) == 0 {
			t.Errorf("intent %q: permissive filter must not be empty", it)
		}
	}
}

func TestUpcomingWeekendOnSaturday(t *testing.T) {
	saturdayNoon := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	start, end := upcomingWeekend(saturdayNoon)

	if !start.Equal(time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("weekend start = %v, want same Saturday midnight", start)
	}
	if !end.Equal(time.Date(2026, time.August, 30, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("weekend end = %v, want Sunday 23:59:59", end)
	}
}
