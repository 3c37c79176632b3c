package dto

// SubscribeRequest represents the newsletter subscribe and unsubscribe body
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}
