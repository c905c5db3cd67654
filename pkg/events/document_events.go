package events

import "time"

// Event type codes used on the bus. Subjects become "events.<code>".
const (
	TypeSessionCreated     = "SESSION_CREATED"
	TypeFieldsMerged       = "FIELDS_MERGED"
	TypeDocumentCompleted  = "DOCUMENT_COMPLETED"
	TypeDocumentExported   = "DOCUMENT_EXPORTED"
	TypeRepositoryAnalyzed = "REPOSITORY_ANALYZED"
)

// NewSessionCreated fires when a chat session and its backing document
// state are created.
func NewSessionCreated(sessionID, userID, documentType string) Event {
	return BaseEvent{
		Type: TypeSessionCreated,
		Data: map[string]interface{}{
			"session_id":    sessionID,
			"user_id":       userID,
			"document_type": documentType,
		},
		OccurredAt: time.Now(),
	}
}

// NewFieldsMerged fires after a batch of extracted field values is merged
// into a document. completion is the recomputed percentage after the merge.
func NewFieldsMerged(sessionID string, mergedPaths []string, completion float64) Event {
	return BaseEvent{
		Type: TypeFieldsMerged,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"paths":      mergedPaths,
			"completion": completion,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentCompleted fires when a document first reaches 100% of its
// required fields.
func NewDocumentCompleted(sessionID, userID, documentType string) Event {
	return BaseEvent{
		Type: TypeDocumentCompleted,
		Data: map[string]interface{}{
			"session_id":    sessionID,
			"user_id":       userID,
			"document_type": documentType,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentExported fires after a successful export render.
func NewDocumentExported(sessionID, userID, documentType, format string) Event {
	return BaseEvent{
		Type: TypeDocumentExported,
		Data: map[string]interface{}{
			"session_id":    sessionID,
			"user_id":       userID,
			"document_type": documentType,
			"format":        format,
		},
		OccurredAt: time.Now(),
	}
}

// NewRepositoryAnalyzed fires when a repository scan finishes and its
// field proposals have been merged.
func NewRepositoryAnalyzed(sessionID, repoURL string, mergedCount int) Event {
	return BaseEvent{
		Type: TypeRepositoryAnalyzed,
		Data: map[string]interface{}{
			"session_id":   sessionID,
			"repo_url":     repoURL,
			"merged_count": mergedCount,
		},
		OccurredAt: time.Now(),
	}
}
