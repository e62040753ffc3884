// Package types contains the read shapes shared by the repository and the API.
package types

// Entry is one operator's position in a metric's ranking.
type Entry struct {
	Rank     int      `json:"rank"`
	Operator string   `json:"operator"`
	Mean     *float64 `json:"mean"`
	Years    int      `json:"years"`
}
