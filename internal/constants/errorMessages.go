package constants

// DenialCode is the machine-readable reason attached to every refused
// operation. Clients branch on the code; the message is for humans.
type DenialCode string

const (
	// validation
	DenialInvalidRequest DenialCode = "INVALID_REQUEST"
	DenialInvalidRoster  DenialCode = "INVALID_ROSTER"
	DenialInvalidReason  DenialCode = "INVALID_REASON"
	DenialNoMatchingLeg  DenialCode = "NO_MATCHING_LEG"

	// policy
	DenialRestRemaining     DenialCode = "REST_REMAINING"
	DenialMonthlyCeiling    DenialCode = "MONTHLY_CEILING"
	DenialDailyCeiling      DenialCode = "DAILY_CEILING"
	DenialRankBlocked       DenialCode = "RANK_BLOCKED"
	DenialReportsIncomplete DenialCode = "REPORTS_INCOMPLETE"

	// conflict
	DenialNotResting      DenialCode = "NOT_RESTING"
	DenialNotOnDuty       DenialCode = "NOT_ON_DUTY"
	DenialDuplicateLeg    DenialCode = "DUPLICATE_LEG"
	DenialAlreadyReviewed DenialCode = "ALREADY_REVIEWED"
	DenialCallsignTaken   DenialCode = "CALLSIGN_TAKEN"
	DenialPilotOnDuty     DenialCode = "PILOT_ON_DUTY"
	DenialRosterNotFound  DenialCode = "ROSTER_NOT_FOUND"
	DenialReportNotFound  DenialCode = "REPORT_NOT_FOUND"
	DenialPilotNotFound   DenialCode = "PILOT_NOT_FOUND"
)

// DenialCategory groups codes for HTTP mapping and metrics labels.
type DenialCategory string

const (
	CategoryValidation DenialCategory = "validation"
	CategoryPolicy     DenialCategory = "policy"
	CategoryConflict   DenialCategory = "conflict"
)

var denialCategories = map[DenialCode]DenialCategory{
	DenialInvalidRequest: CategoryValidation,
	DenialInvalidRoster:  CategoryValidation,
	DenialInvalidReason:  CategoryValidation,
	DenialNoMatchingLeg:  CategoryValidation,

	DenialRestRemaining:     CategoryPolicy,
	DenialMonthlyCeiling:    CategoryPolicy,
	DenialDailyCeiling:      CategoryPolicy,
	DenialRankBlocked:       CategoryPolicy,
	DenialReportsIncomplete: CategoryPolicy,

	DenialNotResting:      CategoryConflict,
	DenialNotOnDuty:       CategoryConflict,
	DenialDuplicateLeg:    CategoryConflict,
	DenialAlreadyReviewed: CategoryConflict,
	DenialCallsignTaken:   CategoryConflict,
	DenialPilotOnDuty:     CategoryConflict,
	DenialRosterNotFound:  CategoryConflict,
	DenialReportNotFound:  CategoryConflict,
	DenialPilotNotFound:   CategoryConflict,
}

// CategoryOf returns the taxonomy bucket for a code, defaulting to
// validation for anything unmapped.
func CategoryOf(code DenialCode) DenialCategory {
	if cat, ok := denialCategories[code]; ok {
		return cat
	}
	return CategoryValidation
}

const (
	MsgNotResting        = "Pilot is already on duty"
	MsgNotOnDuty         = "Pilot is not on duty"
	MsgDuplicateLeg      = "A report for this roster leg has already been filed"
	MsgAlreadyReviewed   = "This report has already been reviewed"
	MsgRosterNotFound    = "Roster no longer exists"
	MsgReportNotFound    = "Report not found"
	MsgPilotNotFound     = "Pilot not found"
	MsgCallsignTaken     = "Callsign is already registered"
	MsgPilotOnDuty       = "Pilot is on duty; force-rest before deleting"
	MsgNoMatchingLeg     = "Filed details match no leg of the current roster"
	MsgReportsIncomplete = "Not every roster leg has a filed report"
	MsgEmptyReason       = "A rejection needs a non-empty reason"
)
