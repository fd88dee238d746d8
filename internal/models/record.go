package models

// Urgency is the derived time-sensitivity tag of a record.
type Urgency string

const (
	UrgencyOverdue   Urgency = "overdue"
	UrgencyAttention Urgency = "attention"
	UrgencyNone      Urgency = ""
)

// DisplayName returns the human label shown in tables and exports.
func (u Urgency) DisplayName() string {
	switch u {
	case UrgencyOverdue:
		return "Atrasado"
	case UrgencyAttention:
		return "Atenção"
	default:
		return ""
	}
}

// Record is one normalized, classified item. Persons, Date and Status
// hold either resolved values or the sentinel strings ("No person",
// "No date", "No status") that filters and consumers depend on.
type Record struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Group   string  `json:"group"`
	Board   string  `json:"board"`
	Persons string  `json:"persons"`
	Date    string  `json:"date"`
	Status  string  `json:"status"`
	Urgency Urgency `json:"urgency,omitempty"`
}
