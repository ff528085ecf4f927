// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/pytifex/services/checkers"
)

// Config is the optional pytifex.yaml file. It overrides how the four
// checker binaries are invoked; the logical tool set is fixed.
type Config struct {
	// Checkers overrides command lines per tool name. Tools absent from
	// the map keep their defaults; unknown names are rejected.
	Checkers map[string]struct {
		Command string   `yaml:"command"`
		Args    []string `yaml:"args"`
	} `yaml:"checkers"`
}

// loadToolConfig returns the checker tool set, applying overrides from
// the config file when it exists. A missing file is not an error.
func loadToolConfig(path string) ([]checkers.ToolConfig, error) {
	tools := checkers.DefaultTools()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tools, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	known := make(map[string]int, len(tools))
	for i, tool := range tools {
		known[tool.Name] = i
	}
	for name, override := range cfg.Checkers {
		i, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("config %s: unknown checker %q", path, name)
		}
		if override.Command != "" {
			tools[i].Command = override.Command
		}
		if override.Args != nil {
			tools[i].Args = override.Args
		}
	}

	slog.Debug("Loaded checker config", slog.String("path", path))
	return tools, nil
}
