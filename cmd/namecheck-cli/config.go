package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"namecheck/internal/mariadb"
	"namecheck/matcher"
)

const defaultConfigFile = "namecheck.toml"

// fileConfig is the optional TOML configuration. Every field has a working
// default, so a missing file is not an error.
type fileConfig struct {
	// Scorer selects the similarity algorithm: "composite" (default) or
	// one of the matcher.NewAlgorithmScorer names.
	Scorer  string         `toml:"scorer"`
	Matcher matcher.Config `toml:"matcher"`
	DB      dbConfig       `toml:"db"`
}

type dbConfig struct {
	DSN                 string `toml:"dsn"`
	Table               string `toml:"table"`
	IDColumn            string `toml:"id_column"`
	NameColumn          string `toml:"name_column"`
	NormColumn          string `toml:"norm_column"`
	KeyColumn           string `toml:"key_column"`
	DeletedColumn       string `toml:"deleted_column"`
	ExactCacheSeconds   int    `toml:"exact_cache_seconds"`
	QueryTimeoutSeconds int    `toml:"query_timeout_seconds"`
}

// loadFileConfig reads the TOML file at path (default ./namecheck.toml).
// A missing default file yields the zero configuration plus defaults.
func loadFileConfig(path string) (fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			cfg.Matcher.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.Matcher.ApplyDefaults()
	return cfg, nil
}

// storeOptions maps the file/env configuration onto the store.
func (c dbConfig) storeOptions() mariadb.Options {
	return mariadb.Options{
		Table:         firstNonEmpty(os.Getenv("DB_TABLE"), c.Table),
		IDColumn:      c.IDColumn,
		NameColumn:    c.NameColumn,
		NormColumn:    c.NormColumn,
		KeyColumn:     c.KeyColumn,
		DeletedColumn: c.DeletedColumn,
		ExactCacheTTL: time.Duration(c.ExactCacheSeconds) * time.Second,
		QueryTimeout:  time.Duration(c.QueryTimeoutSeconds) * time.Second,
	}
}

// dsnFromEnv assembles a go-sql-driver DSN from the environment variables
// the reference deployment uses (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD or
// DB_PASS, DB_NAME). Returns an error when DB_NAME is unset.
func dsnFromEnv() (string, error) {
	name := os.Getenv("DB_NAME")
	if name == "" {
		return "", errors.New("set DB_NAME (and DB_HOST/DB_USER/DB_PASS as needed), or pass -dsn / -directory")
	}
	host := firstNonEmpty(os.Getenv("DB_HOST"), "127.0.0.1")
	port := 3306
	if p := os.Getenv("DB_PORT"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil {
			return "", fmt.Errorf("invalid DB_PORT %q: %w", p, err)
		}
		port = v
	}
	user := firstNonEmpty(os.Getenv("DB_USER"), "root")
	pass := firstNonEmpty(os.Getenv("DB_PASSWORD"), os.Getenv("DB_PASS"))
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", user, pass, host, port, name), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
