package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIssueNumberForEpoch(t *testing.T) {
	in := IssueNumberFor(0, 12)
	require.Equal(t, 1, in.Display)
	require.Equal(t, 2010, in.Year)
	require.Equal(t, "1/2010", in.String())
}

func TestIssueNumberForRollsYears(t *testing.T) {
	in := IssueNumberFor(13, 12)
	require.Equal(t, 2, in.Display)
	require.Equal(t, 2011, in.Year)
	require.Equal(t, "2/2011", in.String())
}

func TestIssueNumberForRespectsFrequency(t *testing.T) {
	// Quarterly journal: four issues per year.
	in := IssueNumberFor(13, 4)
	require.Equal(t, 2, in.Display)
	require.Equal(t, 2013, in.Year)

	in = IssueNumberFor(3, 4)
	require.Equal(t, 4, in.Display)
	require.Equal(t, 2010, in.Year)
}

func TestIssueNumberForDefaultsInvalidFrequency(t *testing.T) {
	in := IssueNumberFor(24, 0)
	require.Equal(t, 1, in.Display)
	require.Equal(t, 2012, in.Year)
}
