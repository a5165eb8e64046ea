// Package profile loads run defaults from a YAML profile file.
package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/quantworks/cerebro/model"
)

const defaultProfilePath = "~/.cerebro/config.yaml"

// Profile holds run settings read from the profile file. Every field is
// optional; zero values mean "not set".
type Profile struct {
	Strategy   string  `mapstructure:"strategy"`
	Cash       float64 `mapstructure:"cash"`
	Commission float64 `mapstructure:"commission"`
	Margin     float64 `mapstructure:"margin"`
	Mult       float64 `mapstructure:"mult"`
	Stake      float64 `mapstructure:"stake"`
	Sizer      string  `mapstructure:"sizer"`
	Percent    float64 `mapstructure:"percent"`
	Output     string  `mapstructure:"output"`
	DateFormat string  `mapstructure:"date_format"`
	DBPath     string  `mapstructure:"db_path"`
	SortBy     string  `mapstructure:"sort_by"`
	Top        int     `mapstructure:"top"`
}

// Service loads and applies profile files.
type Service interface {
	Load(path string) (*Profile, error)
	Apply(p *Profile, flags *model.Flags, changed func(name string) bool)
}

type service struct{}

// NewService creates a profile service.
func NewService() Service {
	return &service{}
}

// Load reads the profile at path. An empty path falls back to the default
// location; a missing default file is not an error, a missing explicit
// path is.
func (s *service) Load(path string) (*Profile, error) {
	explicit := path != ""
	if !explicit {
		path = defaultProfilePath
	}
	if resolved, err := resolveHome(path); err == nil {
		path = resolved
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", path, err)
	}
	return &p, nil
}

// Apply copies profile values into flags for every flag the user did not
// set on the command line.
func (s *service) Apply(p *Profile, flags *model.Flags, changed func(name string) bool) {
	if p == nil || flags == nil {
		return
	}
	if p.Strategy != "" && !changed("strategy") {
		flags.Strategy = p.Strategy
	}
	if p.Cash > 0 && !changed("cash") {
		flags.Cash = p.Cash
	}
	if p.Commission > 0 && !changed("commission") {
		flags.Commission = p.Commission
	}
	if p.Margin > 0 && !changed("margin") {
		flags.Margin = p.Margin
	}
	if p.Mult > 0 && !changed("mult") {
		flags.Mult = p.Mult
	}
	if p.Stake > 0 && !changed("stake") {
		flags.Stake = p.Stake
	}
	if p.Sizer != "" && !changed("sizer") {
		flags.Sizer = p.Sizer
	}
	if p.Percent > 0 && !changed("percent") {
		flags.Percent = p.Percent
	}
	if p.Output != "" && !changed("output") {
		flags.Output = p.Output
	}
	if p.DateFormat != "" && !changed("date-format") {
		flags.DateFormat = p.DateFormat
	}
	if p.DBPath != "" && !changed("db-path") {
		flags.DBPath = p.DBPath
	}
	if p.SortBy != "" && !changed("sort-by") {
		flags.SortBy = p.SortBy
	}
	if p.Top > 0 && !changed("top") {
		flags.Top = p.Top
	}
}

func resolveHome(p string) (string, error) {
	if len(p) >= 2 && p[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[2:]), nil
	}
	return p, nil
}
