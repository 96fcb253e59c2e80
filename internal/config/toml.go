// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Data   DataConfig   `toml:"data"`
	Query  QueryConfig  `toml:"query"`
	Server ServerConfig `toml:"server"`
	Fetch  FetchConfig  `toml:"fetch"`
}

// DataConfig locates the database and export files.
type DataConfig struct {
	DB        *string `toml:"db"`
	ImportDir *string `toml:"import-dir"`
	Percent   *bool   `toml:"percent"`
}

// QueryConfig holds the default format bucket for analytics commands.
type QueryConfig struct {
	Generation   *string `toml:"generation"`
	BattleFormat *string `toml:"format"`
	Rating       *int    `toml:"rating"`
	From         *string `toml:"from"`
	To           *string `toml:"to"`
	Output       *string `toml:"output"`
}

// ServerConfig maps the MCP server settings. The API key is read from the
// environment only.
type ServerConfig struct {
	Addr      *string `toml:"addr"`
	Path      *string `toml:"path"`
	Transport *string `toml:"transport"`
}

// FetchConfig maps species API settings.
type FetchConfig struct {
	BaseURL  *string `toml:"base-url"`
	CacheDir *string `toml:"cache-dir"`
	TTL      *string `toml:"ttl"`
	Parallel *int    `toml:"parallel"`
	SleepMS  *int    `toml:"sleep-ms"`
	Offline  *bool   `toml:"offline"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Example is written by "arena config init".
const Example = `# arena configuration

[data]
# db = "~/.local/share/arena/arena.db"
# import-dir = "./data"
# percent = false

[query]
generation = "gen9"
format = "ou"
rating = 0
# from = "2024-01"
# to = "2024-12"
output = "table"

[server]
addr = ":8080"
path = "/mcp"
transport = "http"

[fetch]
# base-url = "https://pokeapi.co/api/v2"
ttl = "24h"
parallel = 8
sleep-ms = 0
offline = false
`
