package domain

import (
	"errors"
	"time"
)

type UserID string
type ProjectID string
type RequestID string

type Timestamp = time.Time

// ErrNotFound is returned by stores when a looked-up document does not exist.
var ErrNotFound = errors.New("not found")

type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleFounder   UserRole = "founder"
	RoleRecruiter UserRole = "recruiter"
)
