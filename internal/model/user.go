package model

// User represents an application user record as stored in the
// `users` table.  The password hash is never serialized; handlers
// can return a User directly as a JSON body.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Email        – contact address (not unique).
type User struct {
	ID           uint64 `json:"id"`       // users.id
	Username     string `json:"username"` // users.username
	PasswordHash string `json:"-"`        // users.password_hash
	Email        string `json:"email"`    // users.email
}
