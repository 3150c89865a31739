// Package config loads the eventdesk YAML configuration.
//
// Precedence is flags > environment > file > defaults. This package covers
// the last three; the serve command applies flags on top.
//
// Example file:
//
//	backend_url: http://localhost:3000
//	default_timezone: Asia/Colombo
//	request_timeout: 30s
//	server:
//	  transport: streamable-http
//	  http_addr: :8080
package config
