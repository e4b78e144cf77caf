// Package config loads and validates the application's settings from the
// environment (TASKDECK_-prefixed variables) and an optional config file,
// giving the rest of the system type-safe access to server and database
// configuration.
package config
