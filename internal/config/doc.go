// Package config loads service settings from an optional config.yaml, a .env
// file and SQUAD_-prefixed environment variables, and validates them before
// any component is constructed.
package config
