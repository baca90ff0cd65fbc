package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

type SourceSettings struct {
	Mode     string `mapstructure:"mode" validate:"required|in:local,web"`
	Format   string `mapstructure:"format" validate:"in:auto,csv,vcard"`
	Path     string `mapstructure:"path" validate:"requiredIf:Mode,local"`
	URL      string `mapstructure:"url" validate:"requiredIf:Mode,web"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"-"` // From the OS keyring, never from files.
}

type ServerSettings struct {
	Port int `mapstructure:"port" validate:"required|int|min:1|max:65535"`
}

type RefreshSettings struct {
	Interval time.Duration `mapstructure:"interval"`
}

type JubileeSettings struct {
	PeriodYears int `mapstructure:"period_years" validate:"required|int|min:1"`
	Count       int `mapstructure:"count" validate:"required|int|min:1|max:400"`
}

type ReminderSettings struct {
	Enabled   bool   `mapstructure:"enabled"`
	Value     int    `mapstructure:"value" validate:"int|min:0"`
	Unit      string `mapstructure:"unit" validate:"in:d,h,m"`
	Direction string `mapstructure:"direction" validate:"in:before,after"`
}

// Settings is the runtime configuration: defaults, then the YAML file,
// then JUBILEE_* environment variables.
type Settings struct {
	Source   SourceSettings   `mapstructure:"source"`
	Server   ServerSettings   `mapstructure:"server"`
	Refresh  RefreshSettings  `mapstructure:"refresh"`
	Language string           `mapstructure:"language"`
	Jubilee  JubileeSettings  `mapstructure:"jubilee"`
	Reminder ReminderSettings `mapstructure:"reminder"`
}

// Override forces a settings key, typically from a command-line flag.
type Override struct {
	Key   string
	Value any
}

// LoadSettings reads the optional YAML file at path and the environment,
// then applies overrides. An empty path means defaults and environment only.
func LoadSettings(path string, overrides ...Override) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(ConfigTypeYAML)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
		}
	}

	for _, o := range overrides {
		v.Set(o.Key, o.Value)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsDecode, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Refresh.Interval <= 0 {
		s.Refresh.Interval = DefaultRefreshInterval
	}

	s.Source.Password = lookupPassword(s.Source.User)

	slog.Info(MsgSettingsLoaded,
		LogKeyComponent, CompSettings,
		LogKeyFile, v.ConfigFileUsed(),
		LogKeyMode, s.Source.Mode,
		LogKeyPort, s.Server.Port,
	)
	return &s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeySourceMode, SourceModeLocal)
	v.SetDefault(KeySourceFormat, FormatAuto)
	v.SetDefault(KeySourcePath, "")
	v.SetDefault(KeySourceURL, "")
	v.SetDefault(KeySourceUser, "")
	v.SetDefault(KeyServerPort, DefaultPort)
	v.SetDefault(KeyRefreshInterval, DefaultRefreshInterval)
	v.SetDefault(KeyLanguage, DefaultLanguage)
	v.SetDefault(KeyJubileeYears, DefaultJubileeYears)
	v.SetDefault(KeyJubileeCount, DefaultJubileeCount)
	v.SetDefault(KeyReminderEnabled, false)
	v.SetDefault(KeyReminderValue, DefaultReminderValue)
	v.SetDefault(KeyReminderUnit, UnitDays)
	v.SetDefault(KeyReminderDir, DirBefore)
}

// Validate checks every section and joins the failures.
func (s *Settings) Validate() error {
	var errs []error
	for _, section := range []any{&s.Source, &s.Server, &s.Jubilee, &s.Reminder} {
		if v := validate.Struct(section); !v.Validate() {
			errs = append(errs, v.Errors)
		}
	}
	lv := validate.Map(map[string]any{"language": s.Language})
	lv.StringRule("language", "in:"+strings.Join(SupportedLanguages, ","))
	if !lv.Validate() {
		errs = append(errs, lv.Errors)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsInvalid, err)
	}
	return nil
}

// lookupPassword reads the web password from the OS keyring.
func lookupPassword(user string) string {
	if user == "" {
		return ""
	}
	p, err := keyring.Get(KeyringService, user)
	if err != nil {
		slog.Debug(MsgPassFail,
			LogKeyUser, user,
			LogKeyError, err,
			LogKeyComponent, CompSettings)
		return ""
	}
	return p
}

// StorePassword saves the web password for user in the OS keyring.
func StorePassword(user, password string) error {
	return keyring.Set(KeyringService, user, password)
}

// ReminderTrigger is the alarm trigger for calendar events, or "".
func (s *Settings) ReminderTrigger() string {
	return s.Reminder.Trigger()
}

// Trigger renders the reminder as an ISO 8601 duration relative to the
// event start ("-P1D", "PT30M"). It is empty when reminders are off.
func (r ReminderSettings) Trigger() string {
	if !r.Enabled {
		return ""
	}

	sign := ISOPeriodPrefix
	if r.Direction != DirAfter {
		sign = ISONegativePrefix
	}

	switch r.Unit {
	case UnitHours:
		return fmt.Sprintf("%s%s%d%s", sign, ISOTimePrefix, r.Value, ISOHour)
	case UnitMinutes:
		return fmt.Sprintf("%s%s%d%s", sign, ISOTimePrefix, r.Value, ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", sign, r.Value, ISODay)
	}
}
