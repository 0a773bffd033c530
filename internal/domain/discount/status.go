package discount

import "time"

const DateLayout = "2006-01-02"

// DisplayExpired is shown once the calendar date is past the end date
const DisplayExpired = "Expired"

// DisplayStatus derives the status shown for a discount. A discount whose
// end date lies before today's calendar date is Expired whatever its stored
// status; otherwise the stored status is returned verbatim. Empty or
// unparsable end dates never expire.
func DisplayStatus(status, endDate string, today time.Time) string {
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return status
	}
	if today.Format(DateLayout) > end.Format(DateLayout) {
		return DisplayExpired
	}
	return status
}
