package models

type ConnectionUser struct {
	Username         string  `json:"username"`
	ProductID        string  `json:"product_id"`
	Email            string  `json:"email"`
	ConnectionStatus bool    `json:"connection_status"`
	LastActive       *string `json:"last_active"`
}

type ConnectionStatusResponse struct {
	Timestamp  string           `json:"timestamp"`
	Users      []ConnectionUser `json:"users"`
	TotalCount int              `json:"total_count"`
}

type ConnectionStatusRequest struct {
	ProductID string `json:"product_id"`
	Status    bool   `json:"status"`
}
