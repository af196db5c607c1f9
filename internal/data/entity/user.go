package entity

type User struct {
	Base
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	IsAdmin      bool   `db:"is_admin"`
}
