package maestro

import (
	"fmt"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/zerr"
)

// RuleDescriber turns a target back into the rule that builds it.
type RuleDescriber interface {
	Describe(t domain.Target) (domain.Rule, error)
}

// SaveRules writes every registered target, as described by d, to the rule file at path.
func (m *Maestro) SaveRules(path string, d RuleDescriber) error {
	rules := make([]domain.Rule, 0, len(m.targets))
	for _, t := range m.targets {
		rule, err := d.Describe(t)
		if err != nil {
			return zerr.With(err, "target", t.Name())
		}
		rules = append(rules, rule)
	}
	if err := m.rules.Save(path, rules); err != nil {
		return err
	}
	m.logger.Debug(fmt.Sprintf("wrote %d rule(s) to %s", len(rules), path))
	return nil
}

// LoadRules reads the rule file at path and registers a target for every rule.
func (m *Maestro) LoadRules(path string, factory TargetFactory) error {
	rules, err := m.rules.Load(path)
	if err != nil {
		return err
	}
	for _, rule := range rules {
		t, err := factory.New(rule)
		if err != nil {
			return zerr.With(err, "path", path)
		}
		if err := m.Add(t); err != nil {
			return err
		}
	}
	m.logger.Debug(fmt.Sprintf("loaded %d rule(s) from %s", len(rules), path))
	return nil
}
