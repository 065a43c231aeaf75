// Package scan reads a single decoded barcode from a scanner device.
//
// The actual decoding happens in hardware: USB and serial barcode scanners
// present as character devices that emit one text line per successful scan.
// This package only waits for that line. A scan attempt yields zero or one
// barcode; closing the device or cancelling the context without a scan is not
// an error, just an empty result.
package scan

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// Read blocks until the device at path emits one line, the device closes, or
// ctx is cancelled. The returned barcode is trimmed; it is empty when no scan
// happened.
func Read(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("scanner device not configured")
	}
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open scanner: %w", err)
	}

	// Closing the device unblocks the pending read when ctx ends first.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = file.Close()
	}()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return "", nil
		}
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read scanner: %w", err)
		}
		return "", nil
	}
	return strings.TrimSpace(scanner.Text()), nil
}
