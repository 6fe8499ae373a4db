// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package config manages JSON configuration loading for the save decoder.
// It layers an optional config file (default map name, max-object cap,
// strict-mode toggle, debug flags) over built-in defaults.
package config
