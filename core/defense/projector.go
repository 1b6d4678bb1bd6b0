package defense

import (
	"hash/fnv"
	"strings"
	"time"
)

// NowFunc supplies "now" for status classification. mockable
var NowFunc = time.Now

// Project folds raw committee records into at most one DefenseSchedule per
// (committee, UTC calendar day) pair. The first record seen for a pair wins;
// later records for the same pair are discarded, not merged. Records with a
// missing or unparsable defenseDate are skipped. viewerLecturerCode resolves
// the caller's role on each committee.
//
// Statuses are classified against a single "now" captured at the start of
// the call; they are snapshots, and callers re-project to refresh them.
// Output order follows first appearance in the input, but callers must only
// rely on "each distinct pair present exactly once".
func Project(records []CommitteeRecord, viewerLecturerCode string) []DefenseSchedule {
	now := NowFunc()

	byKey := make(map[string]struct{}, len(records))
	schedules := make([]DefenseSchedule, 0, len(records))

	for _, rec := range records {
		at, ok := parseDefenseDate(rec.DefenseDate)
		if !ok {
			continue
		}

		key := rec.CommitteeCode + "_" + dayKeyUTC(at)
		if _, dup := byKey[key]; dup {
			continue
		}
		byKey[key] = struct{}{}

		status := StatusScheduled
		if at.Before(now) {
			status = StatusCompleted
		}

		schedules = append(schedules, DefenseSchedule{
			ID:            scheduleID(rec.CommitteeCode, len(schedules)),
			TopicCode:     aggregate(rec.Assignments, ", ", func(a CommitteeAssignment) string { return a.TopicCode }),
			TopicTitle:    aggregate(rec.Assignments, "; ", func(a CommitteeAssignment) string { return a.Title }),
			StudentCode:   aggregate(rec.Assignments, ", ", func(a CommitteeAssignment) string { return a.StudentCode }),
			StudentName:   aggregate(rec.Assignments, ", ", func(a CommitteeAssignment) string { return a.StudentName }),
			CommitteeCode: rec.CommitteeCode,
			CommitteeName: rec.Name,
			Room:          rec.Room,
			ScheduledAt:   rec.DefenseDate,
			Duration:      DefaultDuration,
			Status:        status,
			LecturerRole:  memberRole(rec.Members, viewerLecturerCode),
			day:           dayUTC(at),
		})
	}
	return schedules
}

// scheduleID derives a deterministic synthetic id from the committee code
// plus the schedule's ordinal in the projection. The ordinal occupies the
// low 16 bits, so ids stay unique within a projection of up to 65536
// schedules unless two committee codes hash alike. Dedup is keyed by the
// composite string key, never by the id, so even then no distinct pair is
// displaced.
func scheduleID(committeeCode string, ordinal int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(committeeCode))
	return int(h.Sum32())<<16 | (ordinal & 0xffff)
}

// aggregate joins one assignment field across all assignments, in order.
// No assignments → empty string, never a hole in the projection.
func aggregate(assignments []CommitteeAssignment, sep string, field func(CommitteeAssignment) string) string {
	if len(assignments) == 0 {
		return ""
	}
	parts := make([]string, 0, len(assignments))
	for _, a := range assignments {
		parts = append(parts, field(a))
	}
	return strings.Join(parts, sep)
}

// memberRole resolves the viewer's role on the committee, defaulting to
// DefaultMemberRole when the viewer is not a member.
func memberRole(members []CommitteeMember, viewerLecturerCode string) string {
	for _, m := range members {
		if m.LecturerCode == viewerLecturerCode {
			return m.Role
		}
	}
	return DefaultMemberRole
}
