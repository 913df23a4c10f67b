package handler

// PayloadData carries a raw EDIFACT payload in responses
type PayloadData struct {
	MessageRef string `json:"message_ref"`
	Payload    string `json:"payload"`
}
