package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// @title                       vidshare API
// @version                     1.0
// @description                 Video upload and sharing with per-user catalogs and an admin play dashboard.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
