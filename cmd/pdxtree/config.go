package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Config holds the settings of the pdxtree command. Settings may be read from
// a HuJSON file (JSON with comments and trailing commas), and flags given on
// the command line override the file.
type Config struct {
	// MaxDepth limits the nesting depth of blocks when parsing.
	// Zero means no limit.
	MaxDepth int `json:"maxDepth"`

	// SearchDepth and MaxResults bound the search and browse find commands.
	SearchDepth int `json:"searchDepth"`
	MaxResults  int `json:"maxResults"`

	// Indent is the indentation used for JSON and text output.
	Indent string `json:"indent"`

	// EmptyBlockAsArray reports empty blocks "{}" as arrays.
	EmptyBlockAsArray bool `json:"emptyBlockAsArray"`

	// Progress logs parsing progress to stderr.
	Progress bool `json:"progress"`

	// Comments includes comment tokens in the output of the tokens command.
	Comments bool `json:"comments"`

	// History, if set, is the path of the browse command history file.
	History string `json:"history"`
}

func defaultConfig() Config {
	return Config{
		SearchDepth: 50,
		MaxResults:  100,
		Indent:      "\t",
	}
}

// loadConfig reads a config file from path, and returns the defaults updated
// with its contents. If path == "", the defaults are returned.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := parseConfig(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func parseConfig(data []byte, cfg *Config) error {
	std, err := hujson.Standardize(data)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(std))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}
