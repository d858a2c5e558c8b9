// Command accessibility-builder produces the Lat,Lon,SEAI table read by the
// accessibility overlay from postal code centroids and OpenStreetMap extracts.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/route-planner/service-planner/internal/platform/logger"
)

func main() {
	log, err := logger.NewNamed(os.Getenv("PLANNER_APP_ENV"), "accessibility-builder")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := newRootCmd(log).Execute(); err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
