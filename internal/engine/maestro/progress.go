package maestro

import (
	"fmt"
	"math"

	"go.trai.ch/maestro/internal/core/domain"
)

// progress formats the entry logged before a target builds, e.g. "[ 50%] CONCAT out.txt".
// The percentage is the share of completed provides.
func (m *Maestro) progress(t domain.Target, total int) string {
	if m.verbose {
		return fmt.Sprintf("Running target %s...", t.Name())
	}
	return fmt.Sprintf("[%3d%%] %-*s %s", percent(len(m.completed), total), m.labelWidth, t.Label(), t.Name())
}

func percent(done, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
