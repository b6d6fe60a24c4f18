package provider

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/abisalde/accounts-service/internal/model"
)

func DecodeGoogleProfile(body io.Reader) (*model.OAuthUserResponse, error) {
	var info struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		GivenName     string `json:"given_name"`
		FamilyName    string `json:"family_name"`
	}
	if err := json.NewDecoder(body).Decode(&info); err != nil {
		return nil, err
	}
	return &model.OAuthUserResponse{
		ID:              info.ID,
		Email:           info.Email,
		Name:            info.Name,
		FirstName:       info.GivenName,
		LastName:        info.FamilyName,
		IsEmailVerified: info.VerifiedEmail,
	}, nil
}

func DecodeFacebookProfile(body io.Reader) (*model.OAuthUserResponse, error) {
	var info struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.NewDecoder(body).Decode(&info); err != nil {
		return nil, err
	}
	profile := &model.OAuthUserResponse{
		ID:        info.ID,
		Email:     info.Email,
		Name:      info.Name,
		FirstName: info.FirstName,
		LastName:  info.LastName,
		// Facebook only returns confirmed addresses.
		IsEmailVerified: info.Email != "",
	}
	fillNames(profile)
	return profile, nil
}

func DecodeGithubProfile(body io.Reader) (*model.OAuthUserResponse, error) {
	var info struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(body).Decode(&info); err != nil {
		return nil, err
	}
	profile := &model.OAuthUserResponse{
		Email: info.Email,
		Name:  info.Name,
	}
	if info.ID != 0 {
		profile.ID = strconv.FormatInt(info.ID, 10)
	}
	if profile.Name == "" {
		profile.Name = info.Login
	}
	fillNames(profile)
	return profile, nil
}

func fillNames(p *model.OAuthUserResponse) {
	if p.FirstName != "" || p.Name == "" {
		return
	}
	first, last, _ := strings.Cut(strings.TrimSpace(p.Name), " ")
	p.FirstName = first
	p.LastName = strings.TrimSpace(last)
}
