// Package config provides configuration loading and validation for the
// transcriber tools. Values come from built-in defaults, an optional YAML
// file and API keys in the environment, in that order.
package config
