// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	if err := cliparse.LoadEnvFile(".env"); err != nil { ... }
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Flags and Environment

	-p              PORT                     (default 3318)
	-d              DATABASE_URL             (required)
	-t              DATABASE_TYPE            sqlite | postgres
	-option-policy  OPTION_SELECTION_POLICY  reject | filter
	-log-level      LOG_LEVEL                debug | info | warn | error
	-log-format     LOG_FORMAT               auto | text | json
	-rate           RATE_LIMIT               requests per second, 0 disables
	-burst          RATE_BURST               (default 20)

CLI flags take precedence over environment variables, which take precedence
over a .env file.
*/
package cliparse
