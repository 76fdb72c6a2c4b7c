package services

import (
	"time"

	"confhub/contexts/conference-program/program-engine/domain/entities"
)

const (
	SessionCapacity       = 6
	MaxTalkSessionsPerDay = 2
	GeneralSessionTitle   = "General Session"
	LunchTitle            = "Lunch"
)

type slot struct {
	start    string
	end      string
	location string
}

// Talk slots in placement order; the lunch break sits between them.
var (
	talkSlots = [MaxTalkSessionsPerDay]slot{
		{start: "09:00", end: "12:00", location: "Room A"},
		{start: "14:00", end: "17:00", location: "Room B"},
	}
	lunchSlot = slot{start: "12:00", end: "14:00"}
)

// TopicBucket holds approved submission ids sharing a topic, in insertion
// order. HasTopic is false for the bucket of submissions without a topic.
type TopicBucket struct {
	HasTopic      bool
	TopicID       string
	Title         string
	SubmissionIDs []string
}

// BucketByTopic partitions submissions by topic. Buckets come out in the
// order their first submission was seen; submissions without a topic share
// the untopiced bucket.
func BucketByTopic(submissions []entities.Submission, topics []entities.Topic) []TopicBucket {
	names := make(map[string]string, len(topics))
	for _, topic := range topics {
		names[topic.TopicID] = topic.Name
	}

	positions := make(map[bucketKey]int)
	var buckets []TopicBucket
	for _, submission := range submissions {
		key := bucketKey{}
		if submission.HasTopic() {
			key = bucketKey{hasTopic: true, topicID: submission.TopicID}
		}
		pos, ok := positions[key]
		if !ok {
			bucket := TopicBucket{HasTopic: key.hasTopic, Title: GeneralSessionTitle}
			if key.hasTopic {
				bucket.TopicID = submission.TopicID
				if name, found := names[submission.TopicID]; found && name != "" {
					bucket.Title = "Session: " + name
				}
			}
			buckets = append(buckets, bucket)
			pos = len(buckets) - 1
			positions[key] = pos
		}
		buckets[pos].SubmissionIDs = append(buckets[pos].SubmissionIDs, submission.SubmissionID)
	}
	return buckets
}

type bucketKey struct {
	hasTopic bool
	topicID  string
}

// PlannedSession is a session layout before ids are assigned.
type PlannedSession struct {
	Day           int
	Date          string
	Title         string
	TopicID       string
	StartTime     string
	EndTime       string
	Location      string
	Kind          entities.SessionKind
	SubmissionIDs []string
}

// PlanProgram lays buckets out over days starting at start. Each day makes a
// single pass over the buckets in order; every non-empty bucket contributes
// one talk session of up to SessionCapacity submissions until the day holds
// MaxTalkSessionsPerDay talks. A day with at least one talk gets a lunch
// break after its talks. Submissions that do not fit are returned as
// unscheduled, in bucket order. Dates are calendar days counted from start's
// date in its own location.
func PlanProgram(start time.Time, days int, buckets []TopicBucket) ([]PlannedSession, []string) {
	first := CalendarDay(start)
	remaining := make([][]string, len(buckets))
	for i, bucket := range buckets {
		remaining[i] = bucket.SubmissionIDs
	}

	var planned []PlannedSession
	for day := 0; day < days; day++ {
		date := first.AddDate(0, 0, day).Format(entities.DateLayout)
		placed := 0
		for i, bucket := range buckets {
			if placed == MaxTalkSessionsPerDay {
				break
			}
			if len(remaining[i]) == 0 {
				continue
			}
			take := min(SessionCapacity, len(remaining[i]))
			ids := append([]string(nil), remaining[i][:take]...)
			remaining[i] = remaining[i][take:]

			s := talkSlots[placed]
			planned = append(planned, PlannedSession{
				Day:           day,
				Date:          date,
				Title:         bucket.Title,
				TopicID:       bucket.TopicID,
				StartTime:     s.start,
				EndTime:       s.end,
				Location:      s.location,
				Kind:          entities.SessionKindTalk,
				SubmissionIDs: ids,
			})
			placed++
		}
		if placed > 0 {
			planned = append(planned, PlannedSession{
				Day:       day,
				Date:      date,
				Title:     LunchTitle,
				StartTime: lunchSlot.start,
				EndTime:   lunchSlot.end,
				Kind:      entities.SessionKindBreak,
			})
		}
	}

	var unscheduled []string
	for _, ids := range remaining {
		unscheduled = append(unscheduled, ids...)
	}
	return planned, unscheduled
}

// CalendarDay returns midnight UTC of t's date as seen in t's own location.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
