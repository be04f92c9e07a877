package models

// Event types published while meals are loaded or generated
const (
	EventInterim = "interim"
	EventFinal   = "final"
	EventNotice  = "notice"
	EventError   = "error"
)

// MealEvent is one state publication for a date. Meals from two refresh
// invocations never share an event.
type MealEvent struct {
	Type      string `json:"type"`
	RefreshID string `json:"refreshId,omitempty"`
	Date      string `json:"date"`
	Meals     []Meal `json:"meals,omitempty"`
	Message   string `json:"message,omitempty"`
}
