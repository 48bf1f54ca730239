package domain

import "time"

// Session lives in the session store, never in Postgres.
type Session struct {
	ID                   string     `json:"id"`
	IsAuthenticated      bool       `json:"isAuthenticated"`
	AuthenticatedAt      *time.Time `json:"authenticatedAt,omitempty"`
	AccessCodeID         *int64     `json:"accessCodeId,omitempty"`
	CustomerName         string     `json:"customerName,omitempty"`
	IsAdmin              bool       `json:"isAdmin"`
	AdminAuthenticatedAt *time.Time `json:"adminAuthenticatedAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	// ProgressKey owns checklist progress and survives id rotation on login.
	ProgressKey string `json:"progressKey,omitempty"`
}

// ProgressOwner is the key checklist progress is stored under.
func (s *Session) ProgressOwner() string {
	if s.ProgressKey != "" {
		return s.ProgressKey
	}
	return s.ID
}

// AdminActive applies the fixed admin window, which does not roll with activity.
func (s *Session) AdminActive(now time.Time, window time.Duration) bool {
	if !s.IsAdmin || s.AdminAuthenticatedAt == nil {
		return false
	}
	return now.Before(s.AdminAuthenticatedAt.Add(window))
}

// Capabilities are resolved once per request from the session.
type Capabilities struct {
	Visitor bool
	Admin   bool
}

func (s *Session) Capabilities(now time.Time, adminWindow time.Duration) Capabilities {
	if s == nil {
		return Capabilities{}
	}
	return Capabilities{
		Visitor: s.IsAuthenticated,
		Admin:   s.AdminActive(now, adminWindow),
	}
}
