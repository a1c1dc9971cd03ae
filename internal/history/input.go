package history

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidInput = errors.New("invalid numeric input")

// ValidationError is returned when one of the raw submission fields is not numeric.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s: value [%s] is not numeric: %s", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidInput, e.Err}
}

// RawInput is a submission as it comes from a form, one text value per field.
type RawInput struct {
	Steps  string `json:"steps"`
	Water  string `json:"water"`
	Sleep  string `json:"sleep"`
	Weight string `json:"weight"`
	Height string `json:"height"`
}

const (
	defaultNumber = 0
	// blank height falls back to 1cm, keeps BMI calculation away from zero division
	defaultHeight = 1
)

// ParseSubmission converts raw form values to a Submission.
// Blank fields get their defaults; anything else has to be numeric.
func ParseSubmission(in RawInput) (Submission, error) {
	steps, err := parseInt("steps", in.Steps, defaultNumber)
	if err != nil {
		return Submission{}, err
	}
	water, err := parseFloat("water", in.Water, defaultNumber)
	if err != nil {
		return Submission{}, err
	}
	sleep, err := parseFloat("sleep", in.Sleep, defaultNumber)
	if err != nil {
		return Submission{}, err
	}
	weight, err := parseFloat("weight", in.Weight, defaultNumber)
	if err != nil {
		return Submission{}, err
	}
	height, err := parseFloat("height", in.Height, defaultHeight)
	if err != nil {
		return Submission{}, err
	}

	return Submission{
		Steps:  steps,
		Water:  water,
		Sleep:  sleep,
		Weight: weight,
		Height: height,
	}, nil
}

func parseInt(field, raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw, Err: err}
	}
	return v, nil
}

func parseFloat(field, raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Value: raw, Err: errors.New("not a finite number")}
	}
	return v, nil
}
