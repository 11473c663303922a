package config

import (
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"
)

// Config is the whole build configuration. It is constructed once at build
// start, passed down the pipeline explicitly, and discarded with the build.
type Config struct {
	Site  SiteConfig  `yaml:"site"`
	Build BuildConfig `yaml:"build"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	Author      string `yaml:"author"`
	SiteURL     string `yaml:"site_url"`
	Theme       string `yaml:"theme"`
	TimeZone    string `yaml:"time_zone"`
	Language    string `yaml:"language"`
	Description string `yaml:"description"`
}

type BuildConfig struct {
	SourceDir string `yaml:"source_dir"`
	PublicDir string `yaml:"public_dir"`
	ThemeDir  string `yaml:"theme_dir"`
	BasePath  string `yaml:"base_path"`

	// IncludeFuture keeps posts dated after the build time in the output.
	IncludeFuture bool `yaml:"include_future"`

	Now time.Time `yaml:"-"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Inkwell",
			SiteURL:  "https://example.com",
			Theme:    "default",
			Language: "en",
		},
		Build: BuildConfig{
			SourceDir:     "_posts",
			PublicDir:     "public",
			ThemeDir:      "themes",
			BasePath:      "",
			IncludeFuture: true,
			Now:           time.Now(),
		},
	}
}

func (c SiteConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Required.Error("must not be empty")),
		validation.Field(&c.SiteURL,
			validation.Required.Error("must not be empty"),
			is.URL.Error("must be a valid absolute URL"),
		),
		validation.Field(&c.Theme, validation.Required.Error("must not be empty")),
	)
}

func (c BuildConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SourceDir, validation.Required.Error("must not be empty")),
		validation.Field(&c.PublicDir, validation.Required.Error("must not be empty")),
		validation.Field(&c.ThemeDir, validation.Required.Error("must not be empty")),
		validation.Field(&c.BasePath, validation.By(checkBasePath)),
	)
}

func (c Config) Validate() error {
	return validation.Errors{
		"site":  c.Site.Validate(),
		"build": c.Build.Validate(),
	}.Filter()
}

func checkBasePath(value any) error {
	bp, _ := value.(string)
	bp = strings.TrimSpace(bp)
	if bp == "" {
		return nil
	}
	if !strings.HasPrefix(bp, "/") {
		return validation.NewError("validation_base_path", "must start with '/'")
	}
	if strings.HasSuffix(bp, "/") && bp != "/" {
		return validation.NewError("validation_base_path", "must not end with '/'")
	}
	return nil
}

// Location resolves the configured time zone, falling back to local time.
func (c Config) Location() *time.Location {
	tz := strings.TrimSpace(c.Site.TimeZone)
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load reads a yaml config file on top of the defaults: fields present in
// the file override, everything else keeps its default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but tolerates a missing file.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && os.IsNotExist(err) {
		cfg = Default()
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	return cfg, err
}
