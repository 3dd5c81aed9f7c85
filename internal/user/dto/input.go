package dto

type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	BusinessName string
}

type LoginInput struct {
	Email    string
	Password string
}

type UpdateProfileInput struct {
	UserID       string
	Name         *string
	BusinessName *string
}

type ResetPasswordInput struct {
	Token    string
	Password string
}
