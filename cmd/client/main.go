package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jbccc/znote/internal/client"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	app, err := client.NewApp(buildInfo())
	if err != nil {
		fmt.Fprintf(os.Stderr, "init client app error: %v\n", err)
		os.Exit(1)
	}

	if err = app.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "client run error: %v\n", err)
		os.Exit(1)
	}
}

func buildInfo() string {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	return fmt.Sprintf("%s (built %s, commit %s)", buildVersion, buildDate, buildCommit)
}
