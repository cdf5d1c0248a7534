package models

// DailySelection is the cached pick for one calendar day.
type DailySelection struct {
	Date     string   `json:"date"`
	Handle   string   `json:"handle,omitempty"`
	Global   Problem  `json:"global"`
	Personal *Problem `json:"personal,omitempty"`
}

// SolveStatus reports which of the day's problems the handle has accepted.
type SolveStatus struct {
	GlobalSolved   bool `json:"globalSolved"`
	PersonalSolved bool `json:"personalSolved"`
	// Known is false when the submission history could not be fetched.
	Known bool `json:"known"`
}
