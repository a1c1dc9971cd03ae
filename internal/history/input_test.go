package history

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBMI(t *testing.T) {
	testCases := []struct {
		name     string
		weight   float64
		height   float64
		expected float64
	}{
		{name: "regular", weight: 70, height: 175, expected: 22.86},
		{name: "zero height", weight: 70, height: 0, expected: 0},
		{name: "negative height", weight: 70, height: -10, expected: 0},
		{name: "zero weight", weight: 0, height: 180, expected: 0},
		{name: "default height of 1cm", weight: 1, height: 1, expected: 10000},
		{name: "half rounds to even", weight: 0.125, height: 100, expected: 0.12},
		{name: "half rounds up to even", weight: 0.375, height: 100, expected: 0.38},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CalculateBMI(tc.weight, tc.height))
		})
	}
}

func TestParseSubmission(t *testing.T) {
	testCases := []struct {
		name          string
		in            RawInput
		expected      Submission
		expectedField string
	}{
		{
			name:     "all blank gets defaults",
			in:       RawInput{},
			expected: Submission{Height: 1},
		},
		{
			name:     "all set",
			in:       RawInput{Steps: "8000", Water: "2.5", Sleep: "7.5", Weight: "70", Height: "175"},
			expected: Submission{Steps: 8000, Water: 2.5, Sleep: 7.5, Weight: 70, Height: 175},
		},
		{
			name:     "surrounding spaces are fine",
			in:       RawInput{Steps: " 10 ", Height: " 180"},
			expected: Submission{Steps: 10, Height: 180},
		},
		{
			name:     "explicit zero height is kept",
			in:       RawInput{Weight: "70", Height: "0"},
			expected: Submission{Weight: 70, Height: 0},
		},
		{
			name:     "negative values are numeric",
			in:       RawInput{Steps: "-5", Water: "-1"},
			expected: Submission{Steps: -5, Water: -1, Height: 1},
		},
		{
			name:          "steps not a number",
			in:            RawInput{Steps: "abc"},
			expectedField: "steps",
		},
		{
			name:          "steps has to be whole",
			in:            RawInput{Steps: "1.5"},
			expectedField: "steps",
		},
		{
			name:          "whitespace only",
			in:            RawInput{Water: "   "},
			expectedField: "water",
		},
		{
			name:          "nan",
			in:            RawInput{Sleep: "NaN"},
			expectedField: "sleep",
		},
		{
			name:          "inf",
			in:            RawInput{Weight: "inf"},
			expectedField: "weight",
		},
		{
			name:          "bad height",
			in:            RawInput{Height: "1,80"},
			expectedField: "height",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := ParseSubmission(tc.in)
			if tc.expectedField != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				var validationErr *ValidationError
				require.True(t, errors.As(err, &validationErr))
				assert.Equal(t, tc.expectedField, validationErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, s)
		})
	}
}

func TestSubmit_BMIFromSubmission(t *testing.T) {
	h := New(PolicyOverwriteLast)

	rec, err := h.SubmitRaw(RawInput{Steps: "0", Water: "0", Sleep: "0", Weight: "70", Height: "175"})
	require.NoError(t, err)
	assert.Equal(t, 22.86, rec.BMI)
	assert.False(t, rec.NoBMI)

	rec, err = h.SubmitRaw(RawInput{Weight: "70", Height: "0"})
	require.NoError(t, err)
	assert.Equal(t, float64(0), rec.BMI)
	assert.True(t, rec.NoBMI)
	assert.Equal(t, "Day 2", rec.Day)
}
