package defense

import "time"

// Statuses
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	// StatusCancelled is never derived here; it is only ever set by an
	// external signal (an admin cancelling a session).
	StatusCancelled = "cancelled"
)

const (
	// DefaultDuration is the defense session length in minutes. The
	// committee-assignment payload carries no duration, so every session
	// gets this value.
	DefaultDuration = 90

	// DefaultMemberRole labels a viewing lecturer that is not on the committee.
	DefaultMemberRole = "Thành viên"
)

type CommitteeMember struct {
	LecturerCode string `json:"lecturerCode"`
	Name         string `json:"name"`
	Role         string `json:"role"`
}

type CommitteeAssignment struct {
	TopicCode   string `json:"topicCode"`
	Title       string `json:"title"`
	StudentCode string `json:"studentCode"`
	StudentName string `json:"studentName"`
}

// CommitteeRecord is one row of the committee-assignment payload, consumed
// as delivered (already deserialized). DefenseDate/StartTime/EndTime are
// empty until the session is scheduled.
type CommitteeRecord struct {
	CommitteeCode string                `json:"committeeCode"`
	Name          string                `json:"name"`
	Room          string                `json:"room,omitempty"`
	DefenseDate   string                `json:"defenseDate,omitempty"`
	StartTime     string                `json:"startTime,omitempty"`
	EndTime       string                `json:"endTime,omitempty"`
	Members       []CommitteeMember     `json:"members"`
	Assignments   []CommitteeAssignment `json:"assignments"`
}

// DefenseSchedule is one projected calendar event: a committee sitting on one
// calendar day. Student/topic fields aggregate every assignment of the
// committee for that day. Immutable once built.
type DefenseSchedule struct {
	ID            int    `json:"id"`
	TopicCode     string `json:"topicCode"`
	TopicTitle    string `json:"topicTitle"`
	StudentCode   string `json:"studentCode"`
	StudentName   string `json:"studentName"`
	CommitteeCode string `json:"committeeCode"`
	CommitteeName string `json:"committeeName"`
	Room          string `json:"room"`
	ScheduledAt   string `json:"scheduledAt"` // defenseDate, carried verbatim
	Duration      int    `json:"duration"`    // minutes
	Status        string `json:"status"`
	LecturerRole  string `json:"lecturerRole"`

	day time.Time // UTC midnight of the defense day
}

// Day returns the UTC calendar day the session falls on.
func (s DefenseSchedule) Day() time.Time { return s.day }

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDefenseDate parses a defenseDate string. A record whose date does not
// parse is "unscheduled" and contributes nothing, so no error is returned.
func parseDefenseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dayUTC truncates t to its UTC calendar day. The UTC convention reproduces
// the upstream date-key behavior; a session late in the local evening may
// bucket under the next UTC day.
func dayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func dayKeyUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
