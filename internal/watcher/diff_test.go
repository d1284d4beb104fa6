package watcher_test

import (
	"testing"
	"watcher/internal/watcher"
	"watcher/pkg/domain"

	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	cases := []struct {
		name       string
		discovered []string
		persisted  []string
		added      []string
		removed    []string
	}{
		{
			name:       "no change",
			discovered: []string{"a", "b"},
			persisted:  []string{"b", "a"},
			added:      []string{},
			removed:    []string{},
		},
		{
			name:       "first run",
			discovered: []string{"c", "a", "b"},
			added:      []string{"a", "b", "c"},
			removed:    []string{},
		},
		{
			name:       "additions and removals are sorted",
			discovered: []string{"z", "a", "m"},
			persisted:  []string{"m", "y", "b"},
			added:      []string{"a", "z"},
			removed:    []string{"b", "y"},
		},
		{
			name:      "everything removed",
			persisted: []string{"a"},
			added:     []string{},
			removed:   []string{"a"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := watcher.Diff(domain.NewItemSet(tc.discovered...), domain.NewItemSet(tc.persisted...))
			require.Equal(t, tc.added, res.Added)
			require.Equal(t, tc.removed, res.Removed)
		})
	}
}
