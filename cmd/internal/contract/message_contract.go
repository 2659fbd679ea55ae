package contract

const MaxMessageContentLength = 4000

// MessageResponse is the wire shape of a persisted message, shared by the
// socket new_message event and the REST history endpoints. The "_id" key
// is what clients have always consumed for message identifiers.
type MessageResponse struct {
	ID        int64   `json:"_id,string"`
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Content   string  `json:"content"`
	IsRead    bool    `json:"isRead"`
	ReadAt    *string `json:"readAt,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
