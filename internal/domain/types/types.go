// Package types contains common types used across the application
package types

// Entry is one ranked row of a points breakdown (per action or per rep).
type Entry struct {
	Rank   int    `json:"rank"`
	Key    string `json:"key"`
	Points int    `json:"points"`
	Events int    `json:"events"`
}

// DayTotal is the points scored on one local calendar day.
type DayTotal struct {
	Day    string `json:"day"`
	Points int    `json:"points"`
}
