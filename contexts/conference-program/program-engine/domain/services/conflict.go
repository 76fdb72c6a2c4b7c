package services

import (
	"fmt"

	"confhub/contexts/conference-program/program-engine/domain/entities"
)

// Conflicts reports whether candidateID overlaps any of chosenIDs. Two
// sessions overlap when they share a date and their half-open time ranges
// intersect, so back-to-back sessions do not conflict. Unknown ids and the
// candidate itself are ignored.
func Conflicts(candidateID string, chosenIDs []string, sessions []entities.Session) bool {
	index := indexSessions(sessions)
	candidate, ok := index[candidateID]
	if !ok {
		return false
	}
	for _, id := range chosenIDs {
		if id == candidateID {
			continue
		}
		other, ok := index[id]
		if !ok {
			continue
		}
		if candidate.Overlaps(other) {
			return true
		}
	}
	return false
}

// FindConflicts returns one warning per overlapping pair in chosenIDs, in the
// order the pairs are first encountered.
func FindConflicts(chosenIDs []string, sessions []entities.Session) []entities.ScheduleWarning {
	index := indexSessions(sessions)
	chosen := make([]entities.Session, 0, len(chosenIDs))
	seen := make(map[string]struct{}, len(chosenIDs))
	for _, id := range chosenIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if session, ok := index[id]; ok {
			chosen = append(chosen, session)
		}
	}

	var warnings []entities.ScheduleWarning
	for i := 0; i < len(chosen); i++ {
		for j := i + 1; j < len(chosen); j++ {
			a, b := chosen[i], chosen[j]
			if !a.Overlaps(b) {
				continue
			}
			warnings = append(warnings, entities.ScheduleWarning{
				Code:       entities.WarningCodeScheduleConflict,
				Severity:   entities.SeverityWarning,
				SessionAID: a.SessionID,
				SessionBID: b.SessionID,
				Message: fmt.Sprintf("%q (%s %s-%s) overlaps %q (%s-%s)",
					a.Title, a.Date, a.StartTime, a.EndTime, b.Title, b.StartTime, b.EndTime),
			})
		}
	}
	return warnings
}

func indexSessions(sessions []entities.Session) map[string]entities.Session {
	index := make(map[string]entities.Session, len(sessions))
	for _, session := range sessions {
		index[session.SessionID] = session
	}
	return index
}
