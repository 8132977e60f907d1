package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"ttsdeck/internal/deck"
	"ttsdeck/internal/media"
	"ttsdeck/internal/notifications"
	"ttsdeck/internal/pipeline"
	"ttsdeck/internal/render"
	"ttsdeck/internal/scryfall"
	"ttsdeck/internal/tts"
)

// cliUser identifies the local operator on the notification bus.
const cliUser notifications.UserID = 1

func newRenderCommand(cmdCtx *commandContext) *cobra.Command {
	var title string
	var output string

	cmd := &cobra.Command{
		Use:   "render <decklist>",
		Short: "Render a decklist into a Tabletop Simulator saved object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, cmdCtx, args[0], title, output)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Deck title (defaults to the decklist file name)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output JSON path (defaults to <title>.json)")
	return cmd
}

func runRender(cmd *cobra.Command, cmdCtx *commandContext, listPath, title, output string) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cmdCtx.ensureLogger()
	if err != nil {
		return err
	}

	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "render.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire render lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another ttsdeck render is already running")
	}
	defer func() { _ = lock.Unlock() }()

	store, err := cmdCtx.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if title == "" {
		base := filepath.Base(listPath)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if output == "" {
		output = title + ".json"
	}

	listFile, err := os.Open(listPath)
	if err != nil {
		return fmt.Errorf("open decklist: %w", err)
	}
	defer listFile.Close()

	ctx := cmd.Context()
	list, err := deck.ParseTextList(ctx, listFile, title, store)
	if err != nil {
		return fmt.Errorf("parse decklist %s: %w", listPath, err)
	}

	bus := notifications.NewBus()
	events, unsubscribe := bus.Subscribe(cliUser)
	defer unsubscribe()
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		reportProgress(cmd.ErrOrStderr(), events)
	}()

	client := scryfall.NewClient(scryfall.ClientOptions{
		BaseURL:   cfg.Scryfall.BaseURL,
		UserAgent: cfg.Scryfall.UserAgent,
		Timeout:   time.Duration(cfg.Scryfall.RequestTimeout) * time.Second,
		CacheDir:  filepath.Join(cfg.Paths.MediaDir, "card_data"),
		Logger:    logger,
	})
	fileStore := media.NewFSStore(cfg.Paths.MediaDir, cfg.Media.BaseURL)
	assembler := deck.NewAssembler(store, logger)
	coordinator := render.NewCoordinator(bus, logger,
		time.Duration(cfg.Render.LockPollSeconds)*time.Second)
	renderer := render.NewPageRenderer(client, fileStore, bus, logger, cfg.Render.Parallelism)
	encoder := tts.NewEncoder(cfg.Media.BackURL)
	pipe := pipeline.New(assembler, coordinator, renderer, encoder, bus, logger)

	rendered, err := pipe.RenderDeck(ctx, deck.NewID(), cliUser, list)
	unsubscribe()
	<-progressDone
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, rendered.JSON, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rendered %q to %s\n", title, output)
	fmt.Fprintln(out, renderSummaryTable(rendered))
	return nil
}

// reportProgress mirrors render notifications onto the terminal. Card and
// page counters rewrite the current line on a TTY and fall back to one
// line per event otherwise.
func reportProgress(w io.Writer, events <-chan notifications.Event) {
	tty := shouldRewriteLine(w)
	rewrote := false
	endLine := func() {
		if rewrote {
			fmt.Fprintln(w)
			rewrote = false
		}
	}
	for event := range events {
		switch e := event.(type) {
		case notifications.Waiting:
			endLine()
			fmt.Fprintf(w, "Waiting for an earlier render to finish (%d queued)\n", e.QueueLength)
		case notifications.RenderingImages:
			if tty {
				fmt.Fprintf(w, "\rRendering card images %d/%d", e.Rendered, e.Total)
				rewrote = true
			} else if e.Rendered == e.Total {
				fmt.Fprintf(w, "Rendered %d card images\n", e.Total)
			}
		case notifications.SavingPages:
			if tty {
				fmt.Fprintf(w, "\rSaving pages %d/%d", e.Saved, e.Total)
				rewrote = true
			} else if e.Saved == e.Total {
				fmt.Fprintf(w, "Saved %d pages\n", e.Total)
			}
		case notifications.Rendered:
			endLine()
		case notifications.RenderFailed:
			endLine()
		}
	}
	endLine()
}

func renderSummaryTable(rendered *pipeline.RenderedDeck) string {
	rows := make([][]string, 0, len(rendered.Pages))
	for i, page := range rendered.Pages {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%dx%d", page.Width, page.Height),
			strconv.Itoa(len(page.Mapping)),
			page.File.URL(),
		})
	}
	return renderTable(
		[]string{"Page", "Grid", "Cards", "URL"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
	)
}
