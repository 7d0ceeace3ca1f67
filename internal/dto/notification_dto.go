package dto

type NotificationResponse struct {
	ID        string  `json:"id"`
	OrderID   *string `json:"order_id"`
	Message   string  `json:"message"`
	Read      bool    `json:"read"`
	CreatedAt string  `json:"created_at"`
}

type NotificationListResponse struct {
	Data   []NotificationResponse `json:"data"`
	Unread int64                  `json:"unread"`
}
