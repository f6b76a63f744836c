package dtos

import (
	"encoding/json"
	"math"
)

// RoundedHours renders an hour total with two decimals so multiplier
// arithmetic never leaks float noise into responses.
type RoundedHours float64

func (h RoundedHours) MarshalJSON() ([]byte, error) {
	return json.Marshal(math.Round(float64(h)*100) / 100)
}

func (h *RoundedHours) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*h = RoundedHours(f)
	return nil
}
