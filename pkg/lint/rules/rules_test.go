package rules_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sniff/pkg/lint"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules"
)

func TestRegistry(t *testing.T) {
	all := lint.GetAll()
	require.Len(t, all, 32)

	names := make(map[string]string)
	standard := 0
	for _, r := range all {
		t.Run(r.ID, func(t *testing.T) {
			assert.NotEmpty(t, r.Name)
			assert.NotEmpty(t, r.Group)
			assert.NotEmpty(t, r.Description)

			if prev, dup := names[r.Name]; dup {
				t.Errorf("name %q used by %s and %s", r.Name, prev, r.ID)
			}
			names[r.Name] = r.ID

			if r.Extends != "" {
				base, ok := lint.GetByID(r.Extends)
				require.True(t, ok, "extends unknown rule %s", r.Extends)
				assert.True(t, base.IsBase())
			}
		})
		if strings.HasPrefix(r.ID, "CodingStandard.") {
			standard++
		}
	}
	assert.Equal(t, 30, standard)
}
