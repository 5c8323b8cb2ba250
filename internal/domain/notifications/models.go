package notifications

import "time"

type Notification struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Link        string     `json:"link,omitempty"`
	RelatedID   string     `json:"relatedId,omitempty"`
	RelatedType string     `json:"relatedType,omitempty"`
	IsRead      bool       `json:"isRead"`
	ReadAt      *time.Time `json:"readAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type Input struct {
	UserID      string
	Type        string
	Title       string
	Message     string
	Link        string
	RelatedID   string
	RelatedType string
}
