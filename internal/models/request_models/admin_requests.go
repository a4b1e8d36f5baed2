package request_models

type AddUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type GroupSubscribeRequest struct {
	Emails    string `json:"emails" binding:"required"`
	GroupName string `json:"group_name" binding:"required"`
}
