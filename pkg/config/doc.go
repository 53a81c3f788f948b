// Package config loads langconv configuration.
//
// Values come from four layers, later layers winning:
//
//  1. Built-in defaults (NewDefault)
//  2. A YAML file: the --config path, or .langconvrc.yaml in the working directory
//  3. LANGCONV_* environment variables
//  4. Command-line flags, applied by the CLI after Load returns
//
// Example file:
//
//	backend: http
//	baseUrl: http://localhost:4280/api
//	timeout: 10s
//	retries: 2
//	languages:
//	  searchParam: searchText
//	conversions:
//	  url: http://converter.internal/api/conversions
//	log:
//	  level: debug
//	server:
//	  port: 4280
//	  seedFile: seed.yaml
package config
