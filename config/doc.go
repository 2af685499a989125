// Package config loads service configuration with viper.
//
// Values come from an optional config.yml, an optional .env file and the
// process environment, in increasing precedence. Every struct leaf is bound
// to an environment variable derived from its key:
//
//	database.dsn        -> DATABASE_DSN
//	storage.bucket      -> STORAGE_BUCKET
//	server.cors.origins -> SERVER_CORS_ORIGINS
package config
