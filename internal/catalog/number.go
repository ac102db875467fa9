package catalog

import "fmt"

// Issue numbering is anchored at a fixed epoch: number 0 is the first issue
// of 2010. Publication year and within-year display number derive from the
// journal frequency.
const (
	epochYear    = 2010
	epochDisplay = 1
)

// IssueNumber is the human-facing rendering of a raw issue sequence number.
type IssueNumber struct {
	Display int
	Year    int
}

// IssueNumberFor derives the display number and year for the n-th issue of a
// journal publishing frequency issues per year.
func IssueNumberFor(n, frequency int) IssueNumber {
	if frequency <= 0 {
		frequency = 12
	}
	if n < 0 {
		n = 0
	}
	return IssueNumber{
		Display: epochDisplay + n%frequency,
		Year:    epochYear + n/frequency,
	}
}

func (in IssueNumber) String() string {
	return fmt.Sprintf("%d/%d", in.Display, in.Year)
}
