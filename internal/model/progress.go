package model

// MilestoneProgress returns round(100 * completed / total) using half-up
// rounding on the exact ratio, so 1/3 is 33 and 2/3 is 67.
// ok is false when there are no milestones, in which case the goal's
// manually set progress stands.
func MilestoneProgress(completed, total int) (progress int, ok bool) {
	if total <= 0 {
		return 0, false
	}
	if completed < 0 {
		completed = 0
	}
	if completed > total {
		completed = total
	}
	return (200*completed + total) / (2 * total), true
}
