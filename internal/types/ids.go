package types

import "github.com/google/uuid"

type SessionID string
type SectionID string
type MessageID string
type SuggestionID string
type ProgressionID string
type ProjectID string

func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

func NewSectionID() SectionID {
	return SectionID(uuid.New().String())
}

func NewMessageID() MessageID {
	return MessageID(uuid.New().String())
}

func NewSuggestionID() SuggestionID {
	return SuggestionID(uuid.New().String())
}

func NewProjectID() ProjectID {
	return ProjectID(uuid.New().String())
}
