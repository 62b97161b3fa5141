package maestro

import (
	"context"
	"slices"
)

// Clean deletes every persisted output that exists as a file and then the state directory.
func (m *Maestro) Clean(_ context.Context) error {
	ids, err := m.outputs.Load(m.stateDir)
	if err != nil {
		return err
	}
	slices.Sort(ids)

	for _, id := range slices.Compact(ids) {
		if !m.fs.IsFile(id) {
			continue
		}
		m.logger.Info("RM " + id)
		if err := m.fs.Remove(id); err != nil {
			return err
		}
	}

	if m.fs.IsDir(m.stateDir) {
		m.logger.Info("RMTREE " + m.stateDir)
		if err := m.fs.RemoveAll(m.stateDir); err != nil {
			return err
		}
	}
	return nil
}
