package email

// Message is a plain text email rendered from a store template
type Message struct {
	ToAddress string `json:"to_address" validate:"required,email"`
	Subject   string `json:"subject" validate:"required"`
	Text      string `json:"text" validate:"required"`
}

type SendResult struct {
	MessageID string
	Sent      bool
}
