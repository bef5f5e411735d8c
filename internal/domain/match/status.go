package match

import "strings"

// Provider status short codes.
const (
	StatusFullTime        = "FT"
	StatusAfterExtraTime  = "AET"
	StatusPenalties       = "PEN"
	StatusAbandoned       = "ABD"
	StatusAwarded         = "AWD"
	StatusWalkOver        = "WO"
	StatusCancelled       = "CANC"
	StatusToBeDefined     = "TBD"
	StatusNotStarted      = "NS"
	StatusPostponed       = "PST"
	StatusFirstHalf       = "1H"
	StatusHalfTime        = "HT"
	StatusSecondHalf      = "2H"
	StatusExtraTime       = "ET"
	StatusBreakTime       = "BT"
	StatusPenaltyShootout = "P"
	StatusSuspended       = "SUSP"
	StatusInterrupted     = "INT"
	StatusLive            = "LIVE"
)

// StatusClass groups status codes by match lifecycle.
type StatusClass int

const (
	ClassScheduled StatusClass = iota
	ClassLive
	ClassFinished
)

func (c StatusClass) String() string {
	switch c {
	case ClassFinished:
		return "FINISHED"
	case ClassLive:
		return "LIVE"
	default:
		return "SCHEDULED"
	}
}

func NormalizeStatus(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// IsFinished reports whether the full-time score of a match with this status
// is final. Only FT, AET and PEN qualify.
func IsFinished(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFullTime, StatusAfterExtraTime, StatusPenalties:
		return true
	default:
		return false
	}
}

// IsTerminal extends IsFinished with statuses that end a match without a
// played result.
func IsTerminal(status string) bool {
	if IsFinished(status) {
		return true
	}
	switch NormalizeStatus(status) {
	case StatusAbandoned, StatusAwarded, StatusWalkOver, StatusCancelled:
		return true
	default:
		return false
	}
}

func IsLive(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFirstHalf, StatusHalfTime, StatusSecondHalf, StatusExtraTime,
		StatusBreakTime, StatusPenaltyShootout, StatusSuspended, StatusInterrupted, StatusLive:
		return true
	default:
		return false
	}
}

// Classify maps a status code to its lifecycle class. Unknown codes are
// treated as scheduled.
func Classify(status string) StatusClass {
	switch {
	case IsTerminal(status):
		return ClassFinished
	case IsLive(status):
		return ClassLive
	default:
		return ClassScheduled
	}
}
