// Package config loads environment-tagged structs once per type, with an
// optional .env file for local development. Components declare their own
// config structs (cache TTLs, retry budgets, API endpoints) and share the
// parsed values process-wide.
package config
