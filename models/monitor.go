package models

import (
	"fmt"
	"sort"
)

// Monitor describes one connected output and the area it covers in the
// virtual screen.
type Monitor struct {
	ID      string
	X       int
	Y       int
	Width   int
	Height  int
	Primary bool
}

// SameGeometry reports whether m and o cover the same rectangle.
func (m Monitor) SameGeometry(o Monitor) bool {
	return m.X == o.X && m.Y == o.Y && m.Width == o.Width && m.Height == o.Height
}

func (m Monitor) String() string {
	return fmt.Sprintf("%s %dx%d+%d+%d", m.ID, m.Width, m.Height, m.X, m.Y)
}

// SortMonitors orders monitors left to right, then top to bottom, then by ID.
func SortMonitors(monitors []Monitor) {
	sort.SliceStable(monitors, func(i, j int) bool {
		a, b := monitors[i], monitors[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.ID < b.ID
	})
}
