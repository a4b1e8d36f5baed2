package response_models

type LoginResponse struct {
	Token string `json:"token"`
	Admin bool   `json:"admin"`
	// Set instead of Token when the account is frozen and has to go back
	// through checkout before logging in.
	CheckoutURL string `json:"checkout_url,omitempty"`
}

type AccountResponse struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	IsSubscribed     bool   `json:"is_subscribed"`
	SubscriptionType string `json:"subscription_type"`
	GroupID          string `json:"group_id,omitempty"`
	Status           string `json:"status"`
}
