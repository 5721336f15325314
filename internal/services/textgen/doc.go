// Package textgen talks to an OpenRouter-compatible chat completion endpoint
// to produce item summaries and icon prompts.
package textgen
