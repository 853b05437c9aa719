package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"notion-mirror/core/calendar"
	"notion-mirror/core/config"
	"notion-mirror/feature/mirror"

	"go.uber.org/zap"
)

// Prints identity and projected properties for every event of the current
// month, without touching Notion. Useful to inspect what a run would write.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	tz, err := cfg.Sync.Location()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	source, err := calendar.NewGoogleSource(ctx, cfg.Calendar, tz, zap.NewNop())
	if err != nil {
		log.Fatal(err)
	}

	infos, err := source.Calendars(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Found %d calendars\n", len(infos))

	projector := mirror.NewProjector(mirror.DefaultPropertyNames(), tz)

	now := time.Now().In(tz)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, tz)
	to := from.AddDate(0, 1, 0)

	seen := map[string]string{}

	for _, info := range infos {
		fmt.Printf("\n=== %s (%s) ===\n", info.Summary, info.ID)

		events, err := source.Events(ctx, info, from, to)
		if err != nil {
			log.Fatal(err)
		}

		for _, ev := range events {
			identity := mirror.EventIdentity(ev)
			if prev, dup := seen[identity]; dup {
				fmt.Printf("  ⚠️  identity %q already used by %q\n", identity, prev)
			}
			seen[identity] = ev.Title

			data, err := json.MarshalIndent(projector.Project(ev), "", "  ")
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("\n%s -> %s\n%s\n", ev.Title, identity, data)
		}
	}
}
