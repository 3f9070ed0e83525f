// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all drills configuration.
type Config struct {
	Contacts Contacts `yaml:"contacts"`
	Database Database `yaml:"database"`
	Books    Books    `yaml:"books"`
}

// Contacts holds address book extraction settings.
type Contacts struct {
	File     string `yaml:"file"`     // Address book read when no path is given
	Format   string `yaml:"format"`   // "text" | "template" | "json" | "yaml" | "table"
	Template string `yaml:"template"` // text/template for the "template" format
}

// Database holds the SQLite location shared by the students and diary demos.
type Database struct {
	Path string `yaml:"path"`
}

// Books holds catalog location and the thresholds used by the book operations.
type Books struct {
	File      string  `yaml:"file"`
	Discount  float64 `yaml:"discount"`   // Sale discount fraction
	LongPages int     `yaml:"long_pages"` // Page count at which a book is "long"
	DealPrice float64 `yaml:"deal_price"` // Price at or under which a book is a good deal
}

// DefaultTemplate renders a record the same way as the plain text format.
const DefaultTemplate = "{{.FirstName}} {{.LastName}} <{{.Email}}>"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Contacts: Contacts{
			File:     "names.txt",
			Format:   "text",
			Template: DefaultTemplate,
		},
		Database: Database{
			Path: ".drills/drills.db",
		},
		Books: Books{
			File:      "books.yaml",
			Discount:  0.2,
			LongPages: 600,
			DealPrice: 5,
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	return LoadLayered(path)
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files and empty paths are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	switch c.Contacts.Format {
	case "text", "template", "json", "yaml", "table":
		// valid
	default:
		return fmt.Errorf("config: contacts.format must be one of text, template, json, yaml, table; got %q", c.Contacts.Format)
	}
	if c.Contacts.Format == "template" && c.Contacts.Template == "" {
		return errors.New("config: contacts.template cannot be empty when contacts.format is \"template\"")
	}
	if c.Database.Path == "" {
		return errors.New("config: database.path cannot be empty")
	}
	if c.Books.Discount < 0 || c.Books.Discount >= 1 {
		return fmt.Errorf("config: books.discount must be in [0, 1), got %v", c.Books.Discount)
	}
	if c.Books.LongPages <= 0 {
		return fmt.Errorf("config: books.long_pages must be positive, got %d", c.Books.LongPages)
	}
	if c.Books.DealPrice < 0 {
		return fmt.Errorf("config: books.deal_price must be non-negative, got %v", c.Books.DealPrice)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: DRILLS_CONTACTS_FILE, DRILLS_FORMAT, DRILLS_DB_PATH,
// DRILLS_BOOKS_FILE, DRILLS_BOOKS_DISCOUNT.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DRILLS_CONTACTS_FILE"); v != "" {
		c.Contacts.File = v
	}
	if v := os.Getenv("DRILLS_FORMAT"); v != "" {
		c.Contacts.Format = v
	}
	if v := os.Getenv("DRILLS_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("DRILLS_BOOKS_FILE"); v != "" {
		c.Books.File = v
	}
	if v := os.Getenv("DRILLS_BOOKS_DISCOUNT"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: invalid DRILLS_BOOKS_DISCOUNT %q: %w", v, err)
		}
		c.Books.Discount = d
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Contacts *rawContacts `yaml:"contacts"`
	Database *rawDatabase `yaml:"database"`
	Books    *rawBooks    `yaml:"books"`
}

type rawContacts struct {
	File     *string `yaml:"file"`
	Format   *string `yaml:"format"`
	Template *string `yaml:"template"`
}

type rawDatabase struct {
	Path *string `yaml:"path"`
}

type rawBooks struct {
	File      *string  `yaml:"file"`
	Discount  *float64 `yaml:"discount"`
	LongPages *int     `yaml:"long_pages"`
	DealPrice *float64 `yaml:"deal_price"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Contacts != nil {
		if layer.Contacts.File != nil {
			c.Contacts.File = *layer.Contacts.File
		}
		if layer.Contacts.Format != nil {
			c.Contacts.Format = *layer.Contacts.Format
		}
		if layer.Contacts.Template != nil {
			c.Contacts.Template = *layer.Contacts.Template
		}
	}
	if layer.Database != nil {
		if layer.Database.Path != nil {
			c.Database.Path = *layer.Database.Path
		}
	}
	if layer.Books != nil {
		if layer.Books.File != nil {
			c.Books.File = *layer.Books.File
		}
		if layer.Books.Discount != nil {
			c.Books.Discount = *layer.Books.Discount
		}
		if layer.Books.LongPages != nil {
			c.Books.LongPages = *layer.Books.LongPages
		}
		if layer.Books.DealPrice != nil {
			c.Books.DealPrice = *layer.Books.DealPrice
		}
	}
}
