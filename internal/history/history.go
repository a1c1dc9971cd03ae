package history

import (
	"fmt"
	"strings"
)

// Capacity is the max number of daily records kept.
const Capacity = 7

// Policy decides what happens with a submission once the history is full.
type Policy string

const (
	// PolicyOverwriteLast keeps overwriting the last slot ("Day 7") once full.
	PolicyOverwriteLast Policy = "overwrite_last"
	// PolicyRolling evicts the oldest record and keeps counting days.
	PolicyRolling Policy = "rolling"
)

func (p Policy) String() string {
	return string(p)
}

func (p Policy) IsValid() bool {
	switch p {
	case PolicyOverwriteLast, PolicyRolling:
		return true
	default:
		return false
	}
}

// ParsePolicy maps a config value to a Policy, empty value means PolicyOverwriteLast.
func ParsePolicy(s string) (Policy, error) {
	if s == "" {
		return PolicyOverwriteLast, nil
	}
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("unknown history policy: %s", s)
	}
	return p, nil
}

// History is the bounded, chronologically ordered list of daily records.
// It is not safe for concurrent use, callers serialize access.
type History struct {
	policy      Policy
	records     []DailyRecord
	submissions int
}

func New(policy Policy) *History {
	if !policy.IsValid() {
		policy = PolicyOverwriteLast
	}
	return &History{
		policy:  policy,
		records: make([]DailyRecord, 0, Capacity),
	}
}

func (h *History) Policy() Policy {
	return h.policy
}

// Submit merges a parsed submission and returns the merged record.
func (h *History) Submit(s Submission) DailyRecord {
	h.submissions++

	if len(h.records) < Capacity {
		rec := s.toRecord(DayLabel(len(h.records) + 1))
		h.records = append(h.records, rec)
		return rec
	}

	switch h.policy {
	case PolicyRolling:
		rec := s.toRecord(DayLabel(h.submissions))
		copy(h.records, h.records[1:])
		h.records[Capacity-1] = rec
		return rec
	default:
		rec := s.toRecord(DayLabel(Capacity))
		h.records[Capacity-1] = rec
		return rec
	}
}

// SubmitRaw parses the raw input and merges it. On a parse error
// the history stays untouched.
func (h *History) SubmitRaw(in RawInput) (DailyRecord, error) {
	s, err := ParseSubmission(in)
	if err != nil {
		return DailyRecord{}, err
	}
	return h.Submit(s), nil
}

// Records returns a copy of the current records.
func (h *History) Records() []DailyRecord {
	out := make([]DailyRecord, len(h.records))
	copy(out, h.records)
	return out
}

func (h *History) Len() int {
	return len(h.records)
}

func (h *History) Latest() (DailyRecord, bool) {
	if len(h.records) == 0 {
		return DailyRecord{}, false
	}
	return h.records[len(h.records)-1], true
}

// Submissions is the count of successful submissions, including overwritten ones.
func (h *History) Submissions() int {
	return h.submissions
}
