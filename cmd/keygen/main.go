// AngelaMos | 2026
// main.go

// Command keygen writes the ES256 key pair the API signs tokens with.
// Run it once before first start; the output paths match the
// jwt.private_key_path and jwt.public_key_path config defaults.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/carterperez-dev/rolodex/internal/auth"
)

func main() {
	privatePath := flag.String(
		"private",
		"keys/private.pem",
		"private key output path",
	)
	publicPath := flag.String(
		"public",
		"keys/public.pem",
		"public key output path",
	)
	flag.Parse()

	for _, p := range []string{*privatePath, *publicPath} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				slog.Error("create key directory", "dir", dir, "error", err)
				os.Exit(1)
			}
		}
	}

	if err := auth.GenerateKeyPair(*privatePath, *publicPath); err != nil {
		slog.Error("generate key pair", "error", err)
		os.Exit(1)
	}

	slog.Info("key pair written",
		"private", *privatePath,
		"public", *publicPath,
	)
}
