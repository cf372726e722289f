package hermes

import "strings"

const (
	// SubjectScoreRequest carries tasks submitted by other services for scoring.
	SubjectScoreRequest = "readiness.intake.request"
	SubjectStats        = "readiness.stats"

	StreamName   = "READINESS_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

var streamSubjects = []string{"readiness.task.>", "readiness.session.>", "readiness.stats"}

// token makes a client-supplied id safe to embed as a single subject token.
// Anything outside [A-Za-z0-9_-] becomes an underscore.
func token(id string) string {
	if id == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, id)
}

func SubjectTaskScored(taskID string) string { return "readiness.task." + token(taskID) + ".scored" }
func SubjectTaskEnhanced(taskID string) string {
	return "readiness.task." + token(taskID) + ".enhanced"
}
func SubjectTaskRemoved(taskID string) string { return "readiness.task." + token(taskID) + ".removed" }

func SubjectSessionCreated(sessionID string) string {
	return "readiness.session." + sessionID + ".created"
}
func SubjectSessionCleared(sessionID string) string {
	return "readiness.session." + sessionID + ".cleared"
}
func SubjectSessionDeleted(sessionID string) string {
	return "readiness.session." + sessionID + ".deleted"
}
