package contract

type OnlineUserResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	LastActive string `json:"last_active"`
}
