package store

import (
	"os"
	"strconv"
)

// Config holds configuration for the Store.
type Config struct {
	// TableName is the name of the products table.
	TableName string

	// CategoryIndex is the GSI keyed by category, sorted by name.
	// Default: "CategoryIndex"
	CategoryIndex string

	// BrandIndex is the GSI keyed by brand, sorted by name.
	// Default: "BrandIndex"
	BrandIndex string

	// DefaultLimit is the page size used when a list request does not
	// supply one. Default: 20
	DefaultLimit int32
}

// FromEnv builds a Config from the Lambda environment.
//
//	TABLE_NAME           products table (required at deploy time)
//	CATEGORY_INDEX_NAME  category GSI override
//	BRAND_INDEX_NAME     brand GSI override
//	DEFAULT_PAGE_LIMIT   default page size override
func FromEnv() Config {
	cfg := Config{
		TableName:     os.Getenv("TABLE_NAME"),
		CategoryIndex: os.Getenv("CATEGORY_INDEX_NAME"),
		BrandIndex:    os.Getenv("BRAND_INDEX_NAME"),
	}
	if v := os.Getenv("DEFAULT_PAGE_LIMIT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			cfg.DefaultLimit = int32(n)
		}
	}
	return cfg
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.CategoryIndex == "" {
		c.CategoryIndex = "CategoryIndex"
	}
	if c.BrandIndex == "" {
		c.BrandIndex = "BrandIndex"
	}
	if c.DefaultLimit < 1 {
		c.DefaultLimit = 20
	}
}
