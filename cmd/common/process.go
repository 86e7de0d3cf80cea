// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"kakeibo/cmd/root"
	"kakeibo/internal/container"
	"kakeibo/internal/parsererror"
)

// BuildContainer wires the application from the configuration loaded by
// the root command.
func BuildContainer(ctx context.Context, opts container.Options) (*container.Container, error) {
	if root.AppConfig == nil {
		return nil, errors.New("configuration not loaded")
	}
	if opts.Logger == nil {
		opts.Logger = root.Log
	}
	return container.NewContainer(ctx, root.AppConfig, opts)
}

// OpenInput opens the --input file.
func OpenInput(path string) (*os.File, error) {
	if path == "" {
		return nil, &parsererror.ValidationError{Field: "input", Reason: "an input file is required (--input)"}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &parsererror.FileReadError{Source: path, Err: err}
	}
	return f, nil
}

// RequireOwner validates the --user flag.
func RequireOwner(owner string) error {
	if owner == "" {
		return &parsererror.ValidationError{Field: "user", Reason: "an owner is required (--user)"}
	}
	return nil
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
