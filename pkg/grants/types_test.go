package grants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectForRole(t *testing.T) {
	assert.Equal(t, "role:club_lead", SubjectForRole("club_lead"))
	assert.Equal(t, "role:club_lead", SubjectForRole("Club_Lead"))
	assert.Equal(t, "role:club_lead", SubjectForRole("role:club_lead"))
	assert.Equal(t, "role:unnamed", SubjectForRole("  "))
}

func TestSubjectForTier(t *testing.T) {
	assert.Equal(t, "tier:privileged", SubjectForTier("privileged"))
	assert.Equal(t, "tier:privileged", SubjectForTier("PRIVILEGED"))
	assert.Equal(t, "tier:privileged", SubjectForTier("tier:privileged"))
	assert.Equal(t, "tier:member", SubjectForTier(""))
}
