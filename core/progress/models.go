package progress

import (
	"math"
	"time"

	"github.com/gradhub/thesisdesk/core"
)

// Milestone is one named checkpoint in a student's thesis progress
// (registration, progress report, final submission, defense, ...).
type Milestone struct {
	ID        string    `json:"id"`
	TopicCode string    `json:"topic_code"`
	Name      string    `json:"name"`
	DueDate   time.Time `json:"due_date"` // UTC
	Done      bool      `json:"done"`
	Note      string    `json:"note,omitempty"`
	DoneAt    time.Time `json:"done_at,omitempty"` // UTC; zero until completed
	CreatedAt time.Time `json:"created_at"`        // UTC
	UpdatedAt time.Time `json:"updated_at"`        // UTC
}

// NewMilestone contains information needed to plan a new Milestone.
type NewMilestone struct {
	TopicCode string    `json:"topic_code" validate:"required,alphanum_"`
	Name      string    `json:"name" validate:"required"`
	DueDate   time.Time `json:"due_date" validate:"required"`
}

func (nm *NewMilestone) Validate() error {
	nm.TopicCode = core.CleanString(nm.TopicCode)
	nm.Name = core.CleanString(nm.Name)
	return core.Validate.Struct(nm)
}

// CompleteMilestone marks a milestone done, with an optional report note.
type CompleteMilestone struct {
	Note string `json:"note"`
}

// CompletionPercent computes the share of completed milestones as a rounded
// integer percentage. An empty set is 0, never an error.
func CompletionPercent(milestones []Milestone) int {
	if len(milestones) == 0 {
		return 0
	}
	var done int
	for _, m := range milestones {
		if m.Done {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(milestones)) * 100))
}
