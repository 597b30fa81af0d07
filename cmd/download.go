package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brogergvhs/mangafox/internal/chapters"
	"github.com/brogergvhs/mangafox/internal/config"
	"github.com/brogergvhs/mangafox/internal/downloader"
	"github.com/brogergvhs/mangafox/internal/ui"
	"github.com/brogergvhs/mangafox/internal/util"

	"github.com/spf13/cobra"
)

var (
	// naming
	flagEnumerate bool
	flagOutput    string

	// runtime
	flagCBZ         bool
	flagKeepFolders bool
	flagSkipBroken  bool
	flagDryRun      bool
	flagYes         bool
	flagDelay       time.Duration
)

func init() {
	downloadCmd := &cobra.Command{
		Use:   "download <comic-url> [selection...]",
		Short: "Download chapters page by page. Uses the defaults from the selected config, overwritten by CLI flags",
		Long: `Download chapters of a comic into one folder per chapter.

A selection is a chapter index as printed by "list", a range (5-8) or a
comma separated mix (0,1,5-8). Several selections are combined. Without a
selection every chapter is downloaded after confirmation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDownload,
	}

	downloadCmd.Flags().BoolVarP(&flagEnumerate, "enumerate", "n", false, "name chapter folders by index (000, 001, ...) instead of chapter name")
	downloadCmd.Flags().StringVar(&flagOutput, "output", "", "output folder")

	downloadCmd.Flags().BoolVar(&flagCBZ, "cbz", false, "pack every finished chapter into <folder>.cbz")
	downloadCmd.Flags().BoolVar(&flagKeepFolders, "keep-folders", false, "keep chapter folders after packing")
	downloadCmd.Flags().BoolVar(&flagSkipBroken, "skip-broken", false, "skip failed images instead of failing the whole chapter")
	downloadCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "show what would be downloaded, don't download")
	downloadCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "do not ask before downloading every chapter")
	downloadCmd.Flags().DurationVar(&flagDelay, "delay", 0, "pause between pages, e.g. 500ms")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := newSession(config.Options{
		Output:      flagOutput,
		Enumerate:   flagEnumerate,
		CBZ:         flagCBZ,
		KeepFolders: flagKeepFolders,
		SkipBroken:  flagSkipBroken,
		Delay:       flagDelay,
	})
	if err != nil {
		return err
	}
	cfg := sess.cfg
	out := cmd.OutOrStdout()

	if sess.log.Debug {
		fmt.Fprintf(out, "Config file: %s\n", sess.usedPath)
		fmt.Fprintln(out, "Full config:")
		cfg.Print()
		fmt.Fprintln(out)
	}

	all, err := sess.chapters(ctx, args[0])
	if err != nil {
		return err
	}

	var selected []chapters.Chapter
	if len(args) > 1 {
		selected, err = chapters.Select(all, args[1:])
		if err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Found %d chapters on the site.\n", len(all))

		ok := flagYes || flagDryRun
		if !ok {
			ok, err = ui.Confirm("Download all chapters?")
			if err != nil {
				return err
			}
		}
		if !ok {
			fmt.Fprintln(out, "nothing to download")
			return nil
		}
		selected = all
	}

	folders := chapterFolders(selected, cfg.Enumerate)

	if flagDryRun {
		fmt.Fprintf(out, "Dry-run: %d chapters selected.\n\n", len(selected))
		for i, ch := range selected {
			fmt.Fprintf(out, "%s : %s\n    %s\n    -> %s\n", ch.Label(), ch.Name, ch.URL,
				filepath.Join(cfg.Output, folders[i]))
		}
		return nil
	}

	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		return fmt.Errorf("cannot create output folder: %w", err)
	}
	util.SetupInterruptHandler(cfg.Output)

	dl := downloader.New(sess.site, sess.client, sess.log, downloader.Options{
		SkipBroken: cfg.SkipBroken,
		Delay:      cfg.Delay,
	})

	pm := ui.NewProgressManager()
	stats := &ui.Stats{}
	start := time.Now()

	for i, ch := range selected {
		if ctx.Err() != nil {
			break
		}

		folder := filepath.Join(cfg.Output, folders[i])
		handle := pm.Register("Ch." + ch.Label())

		res, err := dl.DownloadChapter(ctx, ch.URL, folder, handle)
		if res != nil {
			stats.Pages += res.Pages
			stats.Skipped += res.Skipped
			stats.Broken += res.Broken
			stats.Bytes += res.Bytes
		}
		if err != nil {
			sess.log.Errorf("Chapter %s (%s) failed: %v", ch.Label(), ch.Name, err)
			stats.Failed++
			continue
		}

		if cfg.CBZ {
			if err := util.CreateCBZ(res.Files, folder+".cbz"); err != nil {
				sess.log.Errorf("CBZ for %s failed: %v", ch.Label(), err)
				stats.Failed++
				continue
			}
			if !cfg.KeepFolders {
				util.CleanupFolder(folder)
			}
		}

		stats.Chapters++
	}
	pm.Close()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Download Summary:")
	fmt.Fprintf(out, "Chapters: %d\n", stats.Chapters)
	fmt.Fprintf(out, "Failed:   %d\n", stats.Failed)
	fmt.Fprintf(out, "Pages:    %d (skipped %d, broken %d)\n", stats.Pages, stats.Skipped, stats.Broken)
	fmt.Fprintf(out, "Data:     %s\n", util.Human(stats.Bytes))
	fmt.Fprintf(out, "Time:     %s\n", time.Since(start).Round(time.Second))

	if err := ctx.Err(); err != nil {
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d chapters failed", stats.Failed, len(selected))
	}

	fmt.Fprintln(out, "\nAll done.")
	return nil
}

// chapterFolders names one folder per chapter. A name already taken in
// this run gets the chapter index appended, so two chapters never share
// their page files.
func chapterFolders(selected []chapters.Chapter, enumerate bool) []string {
	used := make(map[string]bool, len(selected))
	out := make([]string, len(selected))

	for i, ch := range selected {
		base := ch.FolderName(enumerate)
		name := base
		for n := 0; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s_%03d", base, ch.Index)
			if n > 0 {
				name = fmt.Sprintf("%s_%03d_%d", base, ch.Index, n)
			}
		}
		used[strings.ToLower(name)] = true
		out[i] = name
	}

	return out
}
