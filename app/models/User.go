package models

type User struct {
	Id       string
	Email    string
	Username string
	Password string `json:"-"`
}

type UserDto struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Pass     string `json:"pass"`
}
