package notification

// SendNotificationRequest is a direct message from the caller to another user.
type SendNotificationRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	Title       string `json:"title" binding:"required,max=200"`
	Message     string `json:"message" binding:"max=2000"`
	Type        string `json:"type" binding:"omitempty,max=40"`
	ReferenceID string `json:"reference_id"`
}

type UnreadCountsResponse struct {
	Total  int64            `json:"total"`
	ByUser map[string]int64 `json:"by_user"`
}
