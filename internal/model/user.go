package model

import "time"

type User struct {
	ID              int64         `json:"id"`
	Email           string        `json:"email"`
	Provider        OAuthProvider `json:"provider"`
	OauthID         string        `json:"oauthId"`
	FirstName       string        `json:"firstName"`
	LastName        string        `json:"lastName"`
	IsEmailVerified bool          `json:"isEmailVerified"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	LastLoginAt     *time.Time    `json:"lastLoginAt"`
}

type PublicUser struct {
	ID        int64         `json:"id"`
	Email     string        `json:"email"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Provider  OAuthProvider `json:"provider"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Provider:  u.Provider,
	}
}
