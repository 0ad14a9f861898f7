package models

import (
	"fmt"
	"strings"
	"time"
)

// Session is a persisted bearer token for one API base URL.
type Session struct {
	ID        string
	Sequence  int
	Token     string
	UserID    ID
	Username  string
	BaseURL   string
	Created   time.Time
	Updated   time.Time
	DeletedAt *time.Time
}

func (s *Session) GetID() string        { return s.ID }
func (s *Session) CreatedAt() time.Time { return s.Created }
func (s *Session) UpdatedAt() time.Time { return s.Updated }

// Validate checks that the session carries a token bound to a base URL.
func (s *Session) Validate() error {
	if strings.TrimSpace(s.Token) == "" {
		return fmt.Errorf("session token is required")
	}
	if strings.TrimSpace(s.BaseURL) == "" {
		return fmt.Errorf("session base URL is required")
	}
	return nil
}
