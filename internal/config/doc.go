// Package config manages application configuration for the Crucible API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg, err := config.Load()
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - MatchmakerConfig: queue entry lifetime and matchmaking timings
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT             - HTTP server port (default: 8080)
//	DB_HOST / DB_PORT       - SurrealDB endpoint
//	DB_NAMESPACE / DB_DATABASE - SurrealDB namespace and database
//	DB_USER / DB_PASSWORD   - Database credentials
//	QUEUE_ENTRY_TTL         - Queue entry lifetime (default: 30m)
//	QUEUE_SWEEP_INTERVAL    - Sweeper tick interval (default: 1m)
//	PROVISION_TIMEOUT       - Per-group provisioning timeout (default: 30s)
//	CHARACTER_FETCH_TIMEOUT - Per-character profile fetch timeout (default: 5s)
//
// # Default Values
//
// Sensible defaults are provided for development:
//
//	func getEnv(key, defaultValue string) string {
//	    if value := os.Getenv(key); value != "" {
//	        return value
//	    }
//	    return defaultValue
//	}
package config
