package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxAttendees is the meeting capacity when none is specified.
const DefaultMaxAttendees = 15

// Meeting is a sign-up event. A meeting is identified by the (Topic, Date)
// pair; topics repeat across dates.
type Meeting struct {
	ID           string
	Topic        string
	Date         time.Time
	Attendees    []string // ordered by sign-up, no duplicates
	MaxAttendees int

	// Version is the optimistic-concurrency token guarding roster writes.
	Version int64
}

// Registered reports whether name is on the roster.
func (m *Meeting) Registered(name string) bool {
	for _, a := range m.Attendees {
		if a == name {
			return true
		}
	}
	return false
}

// Full reports whether the roster has reached capacity.
func (m *Meeting) Full() bool {
	max := m.MaxAttendees
	if max <= 0 {
		max = DefaultMaxAttendees
	}
	return len(m.Attendees) >= max
}

var topicCapacityRe = regexp.MustCompile(`(?i)\[max:(\d+)\]`)

// ParseTopicCapacity splits a legacy topic string into its display topic and
// capacity. Older data encoded capacity inline as a "[max:N]" suffix; this is
// the one-time import adapter for that convention. Topics without the suffix
// get DefaultMaxAttendees.
func ParseTopicCapacity(raw string) (topic string, maxAttendees int) {
	maxAttendees = DefaultMaxAttendees
	m := topicCapacityRe.FindStringSubmatch(raw)
	if m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			maxAttendees = n
		}
		raw = topicCapacityRe.ReplaceAllString(raw, "")
	}
	return strings.TrimSpace(raw), maxAttendees
}
