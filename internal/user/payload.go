package user

type CreateRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Username string `json:"username" validate:"required,min=1,max=64"`
	FullName string `json:"full_name" validate:"max=128"`
	Email    string `json:"email" validate:"omitempty,email"`
	Bio      string `json:"bio" validate:"max=512"`
	Avatar   string `json:"avatar" validate:"omitempty,url"`
	Private  bool   `json:"private_account"`
}

type CreateResponse struct {
	Status string `json:"status"`
	User   *User  `json:"user"`
}

type GetResponse struct {
	Status string `json:"status"`
	User   *User  `json:"user"`
}
