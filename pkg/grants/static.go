package grants

import "context"

// StaticPolicy serves grants from an in-code table. It backs tests and
// deployments that have not externalized their policy files yet.
type StaticPolicy struct {
	grants map[string][]string
}

// NewStaticPolicy copies the given subject-to-entitlements table.
func NewStaticPolicy(table map[string][]string) *StaticPolicy {
	grants := make(map[string][]string, len(table))
	for subject, ents := range table {
		grants[subject] = append([]string(nil), ents...)
	}
	return &StaticPolicy{grants: grants}
}

func (p *StaticPolicy) Grants(_ context.Context, subject string) ([]string, error) {
	ents, ok := p.grants[subject]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), ents...), nil
}
