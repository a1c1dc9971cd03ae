package history

import (
	"fmt"
	"math"
)

// DailyRecord is one day of tracked values.
// Weight and height are only used to derive BMI and are not kept.
// NoBMI marks a record whose height was not positive, its BMI is then 0.
type DailyRecord struct {
	Day   string  `json:"day"`
	Steps int     `json:"steps"`
	Water float64 `json:"water"`
	Sleep float64 `json:"sleep"`
	BMI   float64 `json:"bmi"`
	NoBMI bool    `json:"-"`
}

// Submission holds already parsed values of a single daily submission.
type Submission struct {
	Steps  int
	Water  float64 // liters
	Sleep  float64 // hours
	Weight float64 // kilograms
	Height float64 // centimeters
}

func DayLabel(n int) string {
	return fmt.Sprintf("Day %d", n)
}

// CalculateBMI expects height in centimeters and weight in kilograms.
// Result is rounded to 2 decimals, and is 0 for a non-positive height.
func CalculateBMI(weightKg, heightCm float64) float64 {
	h := heightCm / 100 // to meters
	if h <= 0 {
		return 0
	}
	return roundTo2(weightKg / (h * h))
}

func roundTo2(v float64) float64 {
	// ties go to the even neighbour, e.g. 0.125 -> 0.12
	return math.RoundToEven(v*100) / 100
}

func (s Submission) toRecord(day string) DailyRecord {
	return DailyRecord{
		Day:   day,
		Steps: s.Steps,
		Water: s.Water,
		Sleep: s.Sleep,
		BMI:   CalculateBMI(s.Weight, s.Height),
		NoBMI: s.Height <= 0,
	}
}
