package availability

// Reason is a rejection code. It satisfies error so services can return it
// directly and handlers can match it with errors.As.
type Reason string

const (
	ReasonInvalidRange         Reason = "InvalidRange"
	ReasonPastDate             Reason = "PastDate"
	ReasonEquipmentNotBookable Reason = "EquipmentNotBookable"
	ReasonNonBookableDay       Reason = "NonBookableDay"
	ReasonTimeConflict         Reason = "TimeConflict"
)

var reasonMessages = map[Reason]string{
	ReasonInvalidRange:         "end time must be after start time",
	ReasonPastDate:             "cannot book a time in the past",
	ReasonEquipmentNotBookable: "equipment is not open for booking",
	ReasonNonBookableDay:       "bookings are not accepted on weekends or public holidays",
	ReasonTimeConflict:         "the time range overlaps another booking",
}

func (r Reason) Error() string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return string(r)
}

// Verdict is the outcome of Validate. The zero value means accepted.
type Verdict struct {
	Reason Reason
}

func reject(r Reason) Verdict {
	return Verdict{Reason: r}
}

func (v Verdict) Accepted() bool {
	return v.Reason == ""
}

// Err returns nil when accepted and the Reason otherwise.
func (v Verdict) Err() error {
	if v.Accepted() {
		return nil
	}
	return v.Reason
}
