// Package config loads runtime configuration for the NodeVault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   data directory (default <UserConfigDir>/nodevault)
//	-m int      minimum master password length (default 10)
//	-l string   log level (default info)
//
// # JSON schema
//
// Every key is optional; absent keys keep the value of the previous stage.
//
//	{
//	  "data_dir": "/home/me/.config/nodevault",
//	  "auth_file": "auth.json",
//	  "database_file": "vault.db",
//	  "min_password_length": 12,
//	  "iterations": 310000,
//	  "log_level": "debug"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
