package referral

// Milestone pairs a completed-referral count with the total reward months a
// referrer has earned once they reach that count.
type Milestone struct {
	Count  int
	Months float64
}

// milestones is ordered ascending by Count. Months is cumulative, so the
// increment owed at a milestone is its Months minus the previous milestone's.
var milestones = []Milestone{
	{Count: 1, Months: 0.25},
	{Count: 3, Months: 0.5},
	{Count: 5, Months: 1},
	{Count: 10, Months: 2},
	{Count: 20, Months: 3},
	{Count: 50, Months: 12},
}

// BonusMonths returns the reward months owed for reaching exactly newCount
// completed referrals. Counts between milestones owe nothing.
func BonusMonths(newCount int) float64 {
	var reached float64
	var prev float64
	matched := false
	for _, m := range milestones {
		if m.Count == newCount {
			reached = m.Months
			matched = true
			break
		}
		if m.Count < newCount {
			prev = m.Months
		}
	}
	if !matched {
		return 0
	}
	// prev holds the highest milestone strictly below newCount.
	return reached - prev
}

// NextMilestone returns the first milestone above count, or nil when the
// referrer is past the last one.
func NextMilestone(count int) *Milestone {
	for i := range milestones {
		if milestones[i].Count > count {
			m := milestones[i]
			return &m
		}
	}
	return nil
}

// ExtensionSeconds converts reward months into the subscription extension,
// with a month counted as 30 days.
func ExtensionSeconds(months float64) int64 {
	return int64(months * 30 * 86400)
}
