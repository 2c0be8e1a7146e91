// Command sweep reports blob objects that no resource record references.
// Such orphans appear when a metadata write fails after its blob write
// succeeded; the pipeline never deletes them on its own, so this tool
// lists them for operator review. It does not delete anything either.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/studyshare/platform/pkg/studyshare/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, _, err := cfg.BuildServices(ctx)
	if err != nil {
		slog.Error("Failed to build services", "err", err)
		os.Exit(1)
	}

	orphans, err := svc.FindOrphanedBlobs(ctx)
	if err != nil {
		slog.Error("Failed to scan for orphaned blobs", "err", err)
		os.Exit(1)
	}

	if len(orphans) == 0 {
		fmt.Println("no orphaned blobs found")
		return
	}

	fmt.Printf("%d orphaned blob(s):\n", len(orphans))
	for _, key := range orphans {
		fmt.Println(key)
	}
}
