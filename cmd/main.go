package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// @title Movie Catalog API
// @version 1.0
// @description Offline-first TMDB movie catalog: paged category sync into a local store with live Server-Sent Events streams.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8010
// @BasePath /api/v1
// @schemes http https

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
