package domain

import (
	"encoding/json"
	"strings"
	"time"
)

type AccessCode struct {
	ID            int64      `json:"id"`
	Code          string     `json:"code"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"`
	CustomerEmail string     `json:"customerEmail"`
	Notes         string     `json:"notes"`
	IsActive      bool       `json:"isActive"`
	UsageCount    int        `json:"usageCount"`
	MaxUsage      int        `json:"maxUsage"`
	LastUsedAt    *time.Time `json:"lastUsedAt"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Rejection returns nil when the code may be used at now, otherwise the
// outcome to report. Checks run in a fixed priority order.
func (c *AccessCode) Rejection(now time.Time) error {
	switch {
	case !c.IsActive:
		return ErrDeactivated
	case c.ExpiresAt != nil && now.After(*c.ExpiresAt):
		return ErrExpired
	case c.MaxUsage > 0 && c.UsageCount >= c.MaxUsage:
		return ErrUsageLimitReached
	}
	return nil
}

func (c *AccessCode) IsValid(now time.Time) bool {
	return c.Rejection(now) == nil
}

type AccessCodeInput struct {
	Code          string     `json:"code"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"`
	CustomerEmail string     `json:"customerEmail"`
	Notes         string     `json:"notes"`
	MaxUsage      int        `json:"maxUsage"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	SendEmail     bool       `json:"sendEmail"`
}

// AccessCodePatch only touches the fields present in the request body.
type AccessCodePatch struct {
	CustomerName  *string      `json:"customerName"`
	CustomerPhone *string      `json:"customerPhone"`
	CustomerEmail *string      `json:"customerEmail"`
	Notes         *string      `json:"notes"`
	IsActive      *bool        `json:"isActive"`
	MaxUsage      *int         `json:"maxUsage"`
	ExpiresAt     NullableTime `json:"expiresAt"`
}

func (p AccessCodePatch) Apply(c *AccessCode) {
	if p.CustomerName != nil {
		c.CustomerName = strings.TrimSpace(*p.CustomerName)
	}
	if p.CustomerPhone != nil {
		c.CustomerPhone = strings.TrimSpace(*p.CustomerPhone)
	}
	if p.CustomerEmail != nil {
		c.CustomerEmail = strings.ToLower(strings.TrimSpace(*p.CustomerEmail))
	}
	if p.Notes != nil {
		c.Notes = strings.TrimSpace(*p.Notes)
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	if p.MaxUsage != nil {
		c.MaxUsage = *p.MaxUsage
	}
	if p.ExpiresAt.Set {
		c.ExpiresAt = p.ExpiresAt.Value
	}
}

// NullableTime tells an absent JSON field apart from an explicit null or "".
type NullableTime struct {
	Set   bool
	Value *time.Time
}

func (n *NullableTime) UnmarshalJSON(b []byte) error {
	n.Set = true
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		n.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	n.Value = &t
	return nil
}
