// Package config loads huntdesk settings from the environment and an
// optional YAML config file, in that precedence order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"github.com/spf13/viper"
)

// Service holds the settings of one upstream integration.
type Service struct {
	Token   string
	BaseURL string
}

// Training extends Service with the public-facing URL bases used when
// a machine is pushed into a workspace collection.
type Training struct {
	Service

	// WebURL is the base of the human-facing machine pages.
	WebURL string

	// AssetsURL is the base of avatar and icon assets.
	AssetsURL string
}

// Workspace extends Service with workspace-only settings.
type Workspace struct {
	Service

	// Version pins the upstream API version header.
	Version string

	// RootCollection parents new collections when no selection is
	// active.
	RootCollection string

	// TemplateDir holds the JSON templates for create operations.
	TemplateDir string
}

// CacheSettings selects the response cache backend.
type CacheSettings struct {
	Type     string
	Dir      string
	TTL      time.Duration
	NATSURLs []string
	Bucket   string
}

// Config is the fully-resolved application configuration.
type Config struct {
	Training    Training
	Bounty      Service
	Workspace   Workspace
	Cache       CacheSettings
	HTTPTimeout time.Duration
	Verbose     bool
}

const (
	defaultTrainingURL    = "https://labs.hackthebox.com/api/v4"
	defaultTrainingWeb    = "https://app.hackthebox.com"
	defaultTrainingAssets = "https://labs.hackthebox.com"
	defaultBountyURL    = "https://api.intigriti.com/external/researcher/v1"
	defaultWorkspaceURL = "https://api.notion.com/v1"
	defaultVersion      = "2022-06-28"
	defaultTemplateDir  = "templates"
)

// Init builds a viper instance with huntdesk defaults, environment
// binding (HUNTDESK_ prefix, dots mapped to underscores), and the
// optional config file. A missing config file is not an error; an
// unreadable one is.
func Init(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("training.url", defaultTrainingURL)
	v.SetDefault("training.web_url", defaultTrainingWeb)
	v.SetDefault("training.assets_url", defaultTrainingAssets)
	v.SetDefault("bounty.url", defaultBountyURL)
	v.SetDefault("workspace.url", defaultWorkspaceURL)
	v.SetDefault("workspace.version", defaultVersion)
	v.SetDefault("workspace.templates", defaultTemplateDir)
	v.SetDefault("cache.type", string(huntapi.CacheTypeFile))
	v.SetDefault("cache.dir", defaultCacheDir())
	v.SetDefault("cache.ttl", huntapi.DefaultTTL)
	v.SetDefault("cache.bucket", "huntdesk-cache")
	v.SetDefault("http.timeout", 30*time.Second)

	v.SetEnvPrefix("HUNTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".huntdesk"))
		}

		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return v, nil
}

// FromViper maps viper keys onto a Config.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Training: Training{
			Service: Service{
				Token:   v.GetString("training.token"),
				BaseURL: v.GetString("training.url"),
			},
			WebURL:    v.GetString("training.web_url"),
			AssetsURL: v.GetString("training.assets_url"),
		},
		Bounty: Service{
			Token:   v.GetString("bounty.token"),
			BaseURL: v.GetString("bounty.url"),
		},
		Workspace: Workspace{
			Service: Service{
				Token:   v.GetString("workspace.token"),
				BaseURL: v.GetString("workspace.url"),
			},
			Version:        v.GetString("workspace.version"),
			RootCollection: v.GetString("workspace.root_collection"),
			TemplateDir:    v.GetString("workspace.templates"),
		},
		Cache: CacheSettings{
			Type:     v.GetString("cache.type"),
			Dir:      v.GetString("cache.dir"),
			TTL:      v.GetDuration("cache.ttl"),
			NATSURLs: v.GetStringSlice("cache.nats_urls"),
			Bucket:   v.GetString("cache.bucket"),
		},
		HTTPTimeout: v.GetDuration("http.timeout"),
		Verbose:     v.GetBool("verbose"),
	}
}

// CacheConfig translates the cache settings into a backend
// configuration for the factory.
func (c *Config) CacheConfig() *huntapi.CacheConfig {
	cfg := &huntapi.CacheConfig{
		Type: huntapi.CacheType(c.Cache.Type),
		TTL:  c.Cache.TTL,
	}

	switch cfg.Type {
	case huntapi.CacheTypeFile, "":
		cfg.File = &huntapi.FileCacheConfig{Dir: c.Cache.Dir}
	case huntapi.CacheTypeNATS:
		cfg.NATS = &huntapi.NATSKVConfig{
			URLs:   c.Cache.NATSURLs,
			Bucket: c.Cache.Bucket,
			TTL:    c.Cache.TTL,
		}
	}

	return cfg
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cache"
	}

	return filepath.Join(home, ".huntdesk", "cache")
}
