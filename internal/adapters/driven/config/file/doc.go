// Package file provides file-based configuration adapters.
//
// Adapters:
//   - Config: TOML configuration with .env and SERCHA_* environment overrides
//   - PromptStore: user-editable LLM prompt templates
package file
