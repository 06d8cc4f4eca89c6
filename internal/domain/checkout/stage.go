package checkout

// Stage is a step of the checkout workflow
type Stage string

const (
	StageInformation Stage = "INFORMATION"
	StageShipping    Stage = "SHIPPING"
	StagePayment     Stage = "PAYMENT"
	StageReview      Stage = "REVIEW"
	StagePlaced      Stage = "PLACED"
)

var stageOrder = []Stage{StageInformation, StageShipping, StagePayment, StageReview, StagePlaced}

// Stages returns the stages in workflow order
func Stages() []Stage {
	return append([]Stage(nil), stageOrder...)
}

// IsValid checks if the stage is a known Stage
func (s Stage) IsValid() bool {
	return s.index() >= 0
}

// String returns the string representation of Stage
func (s Stage) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are possible
func (s Stage) IsTerminal() bool {
	return s == StagePlaced
}

// Next returns the stage that follows s, or s itself when terminal
func (s Stage) Next() Stage {
	i := s.index()
	if i < 0 || i == len(stageOrder)-1 {
		return s
	}
	return stageOrder[i+1]
}

// Before reports whether s comes earlier in the workflow than other
func (s Stage) Before(other Stage) bool {
	return s.index() >= 0 && other.index() >= 0 && s.index() < other.index()
}

// CanGoBackTo checks whether navigating back from s to target is allowed
func (s Stage) CanGoBackTo(target Stage) bool {
	if s.IsTerminal() || target.IsTerminal() {
		return false
	}
	return target.Before(s)
}

func (s Stage) index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}
