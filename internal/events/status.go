package events

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

func IsValidStatus(status string) bool {
	switch Status(status) {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}
