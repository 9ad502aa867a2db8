package models

// EntryStatus is the lifecycle state of a queue entry.
type EntryStatus string

const (
	StatusWaiting   EntryStatus = "waiting"
	StatusCalled    EntryStatus = "called"
	StatusServing   EntryStatus = "serving"
	StatusCompleted EntryStatus = "completed"
	StatusNoShow    EntryStatus = "no_show"
)

var statusLabels = map[EntryStatus]string{
	StatusWaiting:   "Waiting",
	StatusCalled:    "Called",
	StatusServing:   "Being served",
	StatusCompleted: "Completed",
	StatusNoShow:    "No show",
}

var statusColors = map[EntryStatus]string{
	StatusWaiting:   "#F59E0B",
	StatusCalled:    "#3B82F6",
	StatusServing:   "#10B981",
	StatusCompleted: "#6B7280",
	StatusNoShow:    "#EF4444",
}

// Label returns the display label clients show for a status.
func (s EntryStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Color returns the display color (hex) clients use for a status.
func (s EntryStatus) Color() string {
	if color, ok := statusColors[s]; ok {
		return color
	}
	return "#6B7280"
}
