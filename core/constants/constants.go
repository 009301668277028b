package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
	ContextRawToken  = "raw_token"
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Timeouts
const (
	DefaultTimeout        = 5 * time.Second
	DefaultRequestTimeout = 10 * time.Second
	ShutdownTimeout       = 15 * time.Second
)

// Database pool defaults, overridable from config
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Redis keys
const (
	RedisKeyRevokedToken = "auth:revoked:"
	RedisKeyLoginAttempt = "auth:login:"
)

// Login throttling
const (
	MaxLoginAttempts = 5
	BlockDuration    = 15 * time.Minute
)

// Invitations
const (
	InviteTokenLength         = 32
	DefaultEmailExpireDays    = 7
	MaxEmailsPerInviteBatch   = 50
	DefaultPageSize           = 20
	MaxPageSize               = 100
	ExpiredInviteRetention    = 30 * 24 * time.Hour
	DefaultCalendarColor      = "#3B82F6"
	DefaultMainCalendarName   = "My calendar"
	DefaultExportPresignTTL   = 15 * time.Minute
	CalendarExportContentType = "text/calendar; charset=utf-8"
)
