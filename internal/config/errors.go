package config

import "errors"

// Validation errors returned by Config.Validate. Sentinel errors so callers
// can match with errors.Is while still printing a useful message.
var (
	// ErrNoProxyAddress is returned when the SOCKS5 proxy address is empty.
	ErrNoProxyAddress = errors.New("no proxy address: set --external-tor or a proxy in the config file")

	// ErrInvalidTimeout is returned when any request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidWorkers is returned when the liveness worker ceiling is not
	// positive. Zero workers would stall every probe forever.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidExportFormat is returned for formats other than
	// json, csv, markdown, or txt.
	ErrInvalidExportFormat = errors.New("invalid export format: expected json, csv, markdown, or txt")

	// ErrBadEngineTemplate is returned when a config-file engine override
	// carries a query-URL template without exactly one %s term slot.
	ErrBadEngineTemplate = errors.New("invalid engine URL template")
)
