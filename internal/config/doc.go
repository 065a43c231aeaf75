// Package config loads the dashboard configuration from
// ~/.config/beepbasket/config.toml.
//
// A missing file is not an error: every field has a usable default except the
// host token, which stays empty and simply disables the Authorization header.
// Paths support ~ expansion. The scanner device has no default because most
// installations type or paste barcodes instead of attaching a reader.
package config
