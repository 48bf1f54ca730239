package domain

import "time"

// AccessLog is written once per code submission and never updated.
type AccessLog struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	AccessCodeID *int64    `json:"accessCode"`
	CodeUsed     string    `json:"codeUsed"`
	CustomerName string    `json:"customerName"`
	IPAddress    string    `json:"ipAddress"`
	UserAgent    string    `json:"userAgent"`
	Success      bool      `json:"success"`
}

type AdminStats struct {
	ProvidersCount   int64       `json:"providersCount"`
	CategoriesCount  int64       `json:"categoriesCount"`
	AccessCodesCount int64       `json:"accessCodesCount"`
	ActiveCodesCount int64       `json:"activeCodesCount"`
	RecentLogs       []AccessLog `json:"recentLogs"`
}
