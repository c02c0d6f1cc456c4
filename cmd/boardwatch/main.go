// boardwatch renders the booking board in a terminal: it polls the API
// the same way the web board does and prints a snapshot on every tick.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kordei/zoneboard/internal/board"
	"github.com/kordei/zoneboard/internal/client"
	"github.com/kordei/zoneboard/internal/domain"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		apiURL   = flag.String("api", "http://localhost:8080", "booking board API base URL")
		branch   = flag.String("branch", domain.BranchMoskovskoe, "branch to watch")
		interval = flag.Duration("interval", 30*time.Second, "poll interval")
		tz       = flag.String("tz", "Europe/Samara", "venue time zone")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		logger.Error("invalid time zone", "tz", *tz, "error", err)
		os.Exit(1)
	}

	b := board.New(client.New(*apiURL), board.Config{
		Branch:       *branch,
		PollInterval: *interval,
		Location:     loc,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return b.Run(gCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(*interval)
		defer ticker.Stop()

		render(b)
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				render(b)
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("boardwatch finished with error", "error", err)
		os.Exit(1)
	}
}

func render(b *board.Board) {
	zones := b.Zones()
	summary := b.Summary()
	endingSoon := map[int64]bool{}
	for _, id := range b.EndingSoonZones() {
		endingSoon[id] = true
	}

	fmt.Printf("\n== %s — %s ==\n", b.Branch(), b.LastUpdate().Format("15:04:05"))
	for _, z := range zones {
		marker := " "
		if z.NeedsCleaning {
			marker = "*"
		}
		fmt.Printf("%s %-8s (до %d чел.)", marker, z.Name, z.Capacity)
		if z.IsVip {
			fmt.Print(" [VIP]")
		}
		if endingSoon[z.ID] {
			fmt.Print(" [СЧ заканчиваются!]")
		}
		fmt.Println()
		for _, bk := range z.Bookings {
			fmt.Printf("    %s %s — %d чел., %s\n", bk.Time, bk.Name, bk.Guests, bk.Status)
		}
	}
	fmt.Printf("активные: %d  ожидающие: %d  свободные: %d\n",
		summary.Active, summary.Pending, summary.Free)

	for _, t := range b.Toasts() {
		fmt.Printf("[%s] %s\n", t.Kind, t.Message)
	}
}
