// Package config loads the optional reviewflow YAML config file shared
// by both tools. Values resolve in precedence order: explicitly-set
// command-line flag, then config file, then built-in default.
//
// Load fills missing fields from the engine defaults and validates value
// ranges, so a loaded Config is always complete and usable.
package config
