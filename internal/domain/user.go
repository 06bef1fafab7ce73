package domain

type User struct {
	Id                 UserId
	Username           string
	Email              string
	PassHash           string
	Inactive           bool
	ActivationToken    string
	PasswordResetToken string
	Image              string // profile image filename, empty when none
}

// UserView is the public projection embedded in listings and hoax views.
type UserView struct {
	Id       UserId `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Image    string `json:"image,omitempty"`
}

func (u *User) View() UserView {
	return UserView{Id: u.Id, Username: u.Username, Email: u.Email, Image: u.Image}
}
