package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Jubilee/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Jubilee"
	AppBinary         = "go-jubilee"
	AppID             = "com.github.tartampluch.go-jubilee"
	KeyringService    = "com.github.tartampluch.go-jubilee"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	EnvPrefix         = "JUBILEE"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion = "version"
	FlagDebug   = "debug"
	FlagConfig  = "config"
	FlagGroup   = "group"
	FlagServe   = "serve"
	FlagPerson  = "person"
	FlagJubilee = "jubilee"
	FlagLang    = "lang"

	FlagStorePassword     = "store-password"
	FlagDescStorePassword = "Read the web password from stdin and save it in the OS keyring"

	FlagDescVersion = "Show application version and exit"
	FlagDescDebug   = "Enable debug logging to stderr"
	FlagDescConfig  = "Path to a YAML settings file"
	FlagDescGroup   = "Path to a group file (.csv or .vcf); overrides the configured source"
	FlagDescServe   = "Serve the jubilee calendar and summary over HTTP until interrupted"
	FlagDescPerson  = "Name of the person whose age is shown in the report"
	FlagDescJubilee = "Label of the jubilee shown in the report (e.g. \"50 years\")"
	FlagDescLang    = "Report language (overrides settings)"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Settings Keys (viper) & Defaults
// -----------------------------------------------------------------------------

const (
	KeySourceMode      = "source.mode"
	KeySourceFormat    = "source.format"
	KeySourcePath      = "source.path"
	KeySourceURL       = "source.url"
	KeySourceUser      = "source.user"
	KeyServerPort      = "server.port"
	KeyRefreshInterval = "refresh.interval"
	KeyLanguage        = "language"
	KeyJubileeYears    = "jubilee.period_years"
	KeyJubileeCount    = "jubilee.count"
	KeyReminderEnabled = "reminder.enabled"
	KeyReminderValue   = "reminder.value"
	KeyReminderUnit    = "reminder.unit"
	KeyReminderDir     = "reminder.direction"

	ConfigTypeYAML = "yaml"
)

// SupportedLanguages defines the list of available report languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

const (
	SourceModeWeb   = "web"
	SourceModeLocal = "local"

	FormatAuto  = "auto"
	FormatCSV   = "csv"
	FormatVCard = "vcard"

	DefaultPort            = 18080
	DefaultRefreshInterval = 60 * time.Minute
	DefaultLanguage        = "en"
	DefaultJubileeYears    = 25
	DefaultJubileeCount    = 40
	DefaultReminderValue   = 1
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISOTimePrefix     = "T"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyReportTitle      = "report_title"
	TKeyCardAvgBirthday  = "card_average_birthday"
	TKeyCardTotalAge     = "card_total_age"
	TKeyCardJubileeDate  = "card_jubilee_date" // Requires Label
	TKeyCardAverageAge   = "card_average_age"
	TKeyCardPersonAge    = "card_person_age" // Requires Name
	TKeyValueBreakdown   = "value_breakdown" // Requires Years, Weeks, Days
	TKeyValueJubilee     = "value_jubilee"   // Requires Date, Days
	TKeyNoJubilee        = "no_jubilee"
	TKeyEvtJubilee       = "event_jubilee" // Requires Label
	TKeyEvtGroupBirthday = "event_group_birthday"
	TKeyMembers          = "report_members" // Requires Count
)

// -----------------------------------------------------------------------------
// Age Engine Constants
// -----------------------------------------------------------------------------

const (
	// TropicalYearDays is the mean tropical year used to decompose day counts.
	TropicalYearDays = 365.242199
	DaysPerWeek      = 7
	MonthsPerYear    = 12

	// Formatter tiers.
	AgeCapYears      = 80
	AgeYearsOnly     = 12
	AgeHalfYearsFrom = 2
	AgeHalfMonths    = 6
	AgeMonthsFrom    = 6
	AgeWeeksFromDays = 14

	FormatAgeCapped   = "80 years or older"
	FormatAgeYears    = "%d years"
	FormatAgeHalfYear = "%d and a half years"
	FormatAgeMonths   = "%d months"
	FormatAgeWeeks    = "%d weeks"
	FormatAgeDays     = "%d days"

	FormatJubileeLabel = "%d years"
)

// MinBirthdate is the earliest birthdate accepted at the group boundary.
var MinBirthdate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Jubilee//Engine//EN"
	ICalCalName   = "Jubilees"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalRRuleYear = "FREQ=YEARLY"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRRule       = "RRULE"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"

	DefaultICalRefresh = 1 * time.Hour

	// UIDNamespace seeds deterministic (UUIDv5) event identifiers.
	UIDNamespace      = "go-jubilee-v1"
	FormatUIDName     = "%s|%s"
	UIDGroupBirthday  = "group-birthday"
	FormatDescJubilee = "%d days from %s"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// DateFormatOutput is the single output convention for dates.
	DateFormatOutput = "2006-01-02"

	// Date layouts accepted at ingestion.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatDotted    = "02.01.2006"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// CSV layout: one identifier column and one date column.
	CSVColName    = 0
	CSVColDate    = 1
	CSVMinColumns = 2

	MinPort = 1
	MaxPort = 65535

	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
	ExtCSV   = ".csv"

	FallbackName = "Unknown"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	RouteCalendar = "/jubilees.ics"
	RouteSummary  = "/summary.json"
	RouteMetrics  = "/metrics"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricRequestsTotal = "jubilee_http_requests_total"
	MetricRequestsHelp  = "Total number of HTTP requests by route and status class"
	MetricGroupSize     = "jubilee_group_members"
	MetricGroupHelp     = "Number of members in the last computed group"
	MetricRefreshes     = "jubilee_refreshes_total"
	MetricRefreshHelp   = "Number of completed refreshes by outcome"
	MetricLabelRoute    = "route"
	MetricLabelStatus   = "status"
	MetricLabelOutcome  = "outcome"
	OutcomeSuccess      = "success"
	OutcomeError        = "error"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidInput    = "invalid input"
	ErrEmptyGroup      = "empty group"
	ErrNotFound        = "not found"
	ErrFutureBirthdate = "birthdate is after today"
	ErrTooOldBirthdate = "birthdate is before the minimum supported date"
	ErrUnknownMember   = "no member named"
	ErrUnknownJubilee  = "no upcoming jubilee labelled"
	ErrLocalPathEmpty  = "configuration error: local path is empty"
	ErrWebURLEmpty     = "configuration error: web URL is empty"
	ErrWebUserEmpty    = "configuration error: web user is empty"
	ErrPasswordStore   = "failed to store password in keyring"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrModeUnsupport   = "configuration error: unsupported source mode"
	ErrFormatUnsupport = "configuration error: unsupported group format"
	ErrSettingsRead    = "failed to read settings file"
	ErrSettingsDecode  = "unable to decode settings"
	ErrSettingsInvalid = "invalid settings"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port must be between 1 and 65535"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrRosterRead      = "failed to read group"
	ErrCSVHeader       = "group CSV needs a name column and a date column"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrJSONEncode      = "failed to encode summary"
	ErrDateParse       = "unable to parse date"
	ErrDateNoYear      = "birthdate has no year"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrReportWrite     = "failed to write report"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Jubilees initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackReportTitle   = "Group ages"
	FallbackAvgBirthday   = "Average birthday of group"
	FallbackTotalAge      = "Total age of family"
	FallbackJubileeDate   = "Date of %s jubilee"
	FallbackAverageAge    = "Average age of family"
	FallbackPersonAge     = "%s's age"
	FallbackBreakdown     = "%d years %d weeks and %d days"
	FallbackJubileeValue  = "%s (in %d days)"
	FallbackNoJubilee     = "No upcoming jubilee"
	FallbackEvtJubilee    = "Group jubilee: %s"
	FallbackGroupBirthday = "Group birthday"
	FallbackMembers       = "%d members"
	FormatReportLine      = "%-28s %s\n"
	FormatReportTitle     = "%s (%s)\n"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgRefreshStarted = "Refresh started"
	MsgRefreshFailed  = "Refresh failed. Check logs."
	MsgRefreshDone    = "Refresh finished"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgAppStop        = "Application stopped gracefully"
	MsgAppStarting    = "Starting application"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgSkippedRow     = "Skipping invalid group row"
	MsgDuplicateName  = "Duplicate name, last entry wins"
	MsgGroupLoaded    = "Group loaded"
	MsgFeedGenerated  = "Calendar generation successful"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Payload cache updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgLangFallback   = "No locale for language, using English"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgSettingsLoaded = "Settings loaded"
	MsgPasswordStored = "Password stored in keyring"
	MsgJubileeToday   = "Jubilee reached today"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyFormat    = "format"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeyLine      = "line"
	LogKeyValue     = "value"
	LogKeyName      = "name"
	LogKeyLabel     = "label"
	LogKeyMembers   = "members"
	LogKeyJubilees  = "jubilees"
	LogKeyToday     = "today"
	LogKeyStats     = "stats"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyRoute     = "route"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyBuilt   = "built"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompApp      = "app"
	CompEngine   = "engine"
	CompRoster   = "roster"
	CompFeed     = "feed"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompWorker   = "worker"
	CompMain     = "main"
	CompI18n     = "i18n"
	CompSettings = "settings"
)
