package models

// User минимальная запись пользователя. Пароль никогда не сериализуется
// в ответах API.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"-"`
}

type UserInput struct {
	FullName string `json:"fullName" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthenticateInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthenticateResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
}
