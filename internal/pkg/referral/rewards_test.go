package referral

import "testing"

func TestBonusMonths(t *testing.T) {
	tests := []struct {
		count int
		want  float64
	}{
		{count: 0, want: 0},
		{count: 1, want: 0.25},
		{count: 2, want: 0},
		{count: 3, want: 0.25},
		{count: 4, want: 0},
		{count: 5, want: 0.5},
		{count: 7, want: 0},
		{count: 10, want: 1},
		{count: 20, want: 1},
		{count: 50, want: 9},
		{count: 51, want: 0},
		{count: 100, want: 0},
	}

	for _, tt := range tests {
		if got := BonusMonths(tt.count); got != tt.want {
			t.Fatalf("BonusMonths(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestBonusMonthsCumulative(t *testing.T) {
	var total float64
	for count := 1; count <= 50; count++ {
		total += BonusMonths(count)
	}
	if total != 12 {
		t.Fatalf("summed rewards over 50 completions = %v, want 12", total)
	}
}

func TestNextMilestone(t *testing.T) {
	if m := NextMilestone(0); m == nil || m.Count != 1 {
		t.Fatalf("NextMilestone(0) = %+v, want count 1", m)
	}
	if m := NextMilestone(5); m == nil || m.Count != 10 {
		t.Fatalf("NextMilestone(5) = %+v, want count 10", m)
	}
	if m := NextMilestone(50); m != nil {
		t.Fatalf("NextMilestone(50) = %+v, want nil", m)
	}
}

func TestExtensionSeconds(t *testing.T) {
	tests := []struct {
		months float64
		want   int64
	}{
		{months: 0.25, want: 648000},
		{months: 0.5, want: 1296000},
		{months: 1, want: 2592000},
		{months: 9, want: 23328000},
	}

	for _, tt := range tests {
		if got := ExtensionSeconds(tt.months); got != tt.want {
			t.Fatalf("ExtensionSeconds(%v) = %d, want %d", tt.months, got, tt.want)
		}
	}
}
