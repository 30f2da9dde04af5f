package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")

	ErrUserNotFound       = errors.New("user not found")
	ErrExperienceNotFound = errors.New("experience not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrFeedbackNotFound   = errors.New("feedback not found")
	ErrRecipientNotFound  = errors.New("feedback recipient not found")

	ErrEmailExists      = errors.New("email already exists")
	ErrExperienceExists = errors.New("experience already exists")
	ErrProjectExists    = errors.New("project already exists")
	ErrFeedbackExists   = errors.New("feedback already exists")

	ErrFeedbackNotAllowed = errors.New("feedback is allowed only for another user and on your behalf")
)
