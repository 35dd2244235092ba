package model

// Stats summarizes the review queue.
type Stats struct {
	Total        int
	Pending      int
	Verified     int
	Rejected     int
	HighPriority int
}

// ComputeStats derives summary counts in a single pass over the collection.
// HighPriority counts reports that are both PENDING and HIGH priority.
func ComputeStats(reports []Report) Stats {
	var s Stats
	s.Total = len(reports)
	for i := range reports {
		switch reports[i].Status {
		case StatusPending:
			s.Pending++
			if reports[i].Priority == PriorityHigh {
				s.HighPriority++
			}
		case StatusVerified:
			s.Verified++
		case StatusRejected:
			s.Rejected++
		}
	}
	return s
}
