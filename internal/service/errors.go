package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation")            // 400
	ErrAlreadyExists       = errors.New("already exists")        // 400
	ErrNotMember           = errors.New("not a member")          // 400
	ErrNotFound            = errors.New("not found")             // 404
	ErrForbidden           = errors.New("forbidden")             // 403
	ErrInvalidCredentials  = errors.New("invalid credentials")   // 401
	ErrInvalidRefreshToken = errors.New("invalid refresh token") // 401
	ErrSelfSubscription    = fmt.Errorf("%w: cannot subscribe to yourself", ErrValidation)
)
