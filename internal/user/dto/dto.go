package dto

import "github.com/fekuna/omnipos-dashboard/internal/model"

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}
