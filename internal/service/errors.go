package service

import "errors"

var (
	ErrSessionNotFound   = errors.New("registration session not found or expired")
	ErrPhoneCheckPending = errors.New("still checking this phone number, please wait")
	ErrAttemptInProgress = errors.New("a registration attempt is already in progress")
	ErrUpload            = errors.New("photo upload failed, please try again")
	ErrStaffOnly         = errors.New("manual registration requires a staff account")
	ErrEventNotFound     = errors.New("event not found")
	ErrNotConfirmed      = errors.New("registration is not confirmed yet")
)
