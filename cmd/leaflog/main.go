package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"leaflog/internal/bootstrap"
	"leaflog/internal/platform/config"
	"leaflog/internal/platform/timefmt"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var rootPath string

	root := &cobra.Command{
		Use:           "leaflog",
		Short:         "Terminal ebook reader with reading analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(rootPath)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
	root.PersistentFlags().StringVar(&rootPath, "root", ".", "library root path")

	root.AddCommand(newTUICmd(&rootPath))
	root.AddCommand(newBookCmd(&rootPath))
	root.AddCommand(newSessionCmd(&rootPath))
	root.AddCommand(newStatsCmd(&rootPath))
	root.AddCommand(newTrendsCmd(&rootPath))
	root.AddCommand(newHistoryCmd(&rootPath))
	root.AddCommand(newSearchCmd(&rootPath))
	root.AddCommand(newPluginsCmd(&rootPath))
	return root
}

func loadApp(rootPath string) (*bootstrap.App, error) {
	cfg, err := config.New(rootPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(rootPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the leaflog terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*rootPath)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newBookCmd(rootPath *string) *cobra.Command {
	book := &cobra.Command{Use: "book", Short: "Manage the book library"}

	var title, author string
	addCmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Add a book file to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*rootPath)
			if err != nil {
				return err
			}
			out, err := app.LibraryCLI.AddBook(context.Background(), args[0], title, author)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) format=%s\n", out.Title, out.ID, out.Format)
			return nil
		},
	}
	addCmd.Flags().StringVar(&title, "title", "", "book title (defaults to filename)")
	addCmd.Flags().StringVar(&author, "author", "", "book author")

	book.AddCommand(addCmd)

	book.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List library books",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*rootPath)
			if err != nil {
				return err
			}
			books, err := app.LibraryCLI.ListBooks(context.Background())
			if err != nil {
				return err
			}
			if len(books) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no books")
				return nil
			}
			for _, b := range books {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%.1f%%\n", b.ID, b.Format, b.Title, b.ProgressPct)
			}
			return nil
		},
	})

	book.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show book details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*rootPath)
			if err != nil {
				return err
			}
			b, err := app.LibraryCLI.GetBook(context.Background(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "title:    %s\n", b.Title)
			if b.Author != "" {
				_, _ = fmt.Fprintf(w, "author:   %s\n", b.Author)
			}
			_, _ = fmt.Fprintf(w, "id:       %s\n", b.ID)
			_, _ = fmt.Fprintf(w, "format:   %s\n", b.Format)
			_, _ = fmt.Fprintf(w, "file:     %s\n", b.FilePath)
			_, _ = fmt.Fprintf(w, "progress: %.1f%%\n", b.ProgressPct)
			if b.ChapterCount > 0 {
				_, _ = fmt.Fprintf(w, "chapters: %d\n", b.ChapterCount)
			}
			_, _ = fmt.Fprintf(w, "added:    %s\n", timefmt.Day(b.AddedAt))
			return nil
		},
	})

	var chapters int
	progressCmd := &cobra.Command{
		Use:   "progress <id> <pct>",
		Short: "Set reading progress",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pct float64
			if _, err := fmt.Sscanf(args[1], "%f", &pct); err != nil {
				return fmt.Errorf("invalid percentage %q", args[1])
			}
			app, err := loadApp(*rootPath)
			if err != nil {
				return err
			}
			out, err := app.LibraryCLI.UpdateProgress(context.Background(), args[0], pct, chapters)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s progress=%.1f%%\n", out.Title, out.ProgressPct)
			return nil
		},
	}
	progressCmd.Flags().IntVar(&chapters, "chapters", 0, "total chapter count")
	book.AddCommand(progressCmd)

	book.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a book from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*rootPath)
			if err != nil {
				return err
			}
			if err := app.LibraryCLI.RemoveBook(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "removed", args[0])
			return nil
		},
	})

	return book
}

func newSessionCmd(rootPath *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Inspect recorded reading sessions"}

	var bookID string
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "List recorded sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*rootPath)
			if err != nil {
				return err
			}
			sessions, err := app.TrackerCLI.Sessions(context.Background(), bookID)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range sessions {
				mark := " "
				if s.Completed {
					mark = "✓"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s %s\tch%d %s\t%s %s\n",
					s.ID, mark, timefmt.Day(s.StartedAt), s.ChapterIndex+1, s.ChapterTitle,
					s.BookTitle, timefmt.Duration(s.Duration))
			}
			return nil
		},
	}
	logCmd.Flags().StringVar(&bookID, "book", "", "filter by book id")
	session.AddCommand(logCmd)

	session.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*rootPath)
			if err != nil {
				return err
			}
			if err := app.TrackerCLI.DeleteSession(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
			return nil
		},
	})

	return session
}

func newStatsCmd(rootPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate reading statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*rootPath)
			if err != nil {
				return err
			}
			s, err := app.AnalyticsCLI.Stats(context.Background())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "reading time:       %s\n", timefmt.Duration(s.TotalReadingTime))
			_, _ = fmt.Fprintf(w, "chapters completed: %d\n", s.TotalChaptersCompleted)
			_, _ = fmt.Fprintf(w, "books started:      %d\n", s.TotalBooksStarted)
			_, _ = fmt.Fprintf(w, "books completed:    %d\n", s.TotalBooksCompleted)
			_, _ = fmt.Fprintf(w, "average session:    %s\n", timefmt.Duration(s.AverageSession))
			_, _ = fmt.Fprintf(w, "longest session:    %s\n", timefmt.Duration(s.LongestSession))
			if s.StreaksUnlocked {
				_, _ = fmt.Fprintf(w, "current streak:     %d days\n", s.CurrentStreak)
				_, _ = fmt.Fprintf(w, "longest streak:     %d days\n", s.LongestStreak)
			} else {
				_, _ = fmt.Fprintln(w, "current streak:     N/A")
				_, _ = fmt.Fprintln(w, "longest streak:     N/A")
			}
			_, _ = fmt.Fprintf(w, "daily average:      %s\n", timefmt.Duration(s.DailyAverage))
			_, _ = fmt.Fprintf(w, "weekly average:     %s\n", timefmt.Duration(s.WeeklyAverage))
			_, _ = fmt.Fprintf(w, "monthly average:    %s\n", timefmt.Duration(s.MonthlyAverage))
			return nil
		},
	}
}

func newTrendsCmd(rootPath *string) *cobra.Command {
	var days int
	trends := &cobra.Command{
		Use:   "trends",
		Short: "Show daily reading trend buckets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*rootPath)
			if err != nil {
				return err
			}
			points, err := app.AnalyticsCLI.Trends(context.Background(), days)
			if err != nil {
				return err
			}
			for _, p := range points {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d sessions\t%d books\t%d chapters\n",
					p.Date, timefmt.Duration(p.TotalTime), p.SessionCount, p.BooksRead, p.ChaptersCompleted)
			}
			return nil
		},
	}
	trends.Flags().IntVar(&days, "days", 6, "days back from today")
	return trends
}

func newHistoryCmd(rootPath *string) *cobra.Command {
	var bookID string
	history := &cobra.Command{
		Use:   "history",
		Short: "Show per-book or per-chapter reading history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*rootPath)
			if err != nil {
				return err
			}
			if bookID != "" {
				chapters, err := app.AnalyticsCLI.ChapterHistory(context.Background(), bookID)
				if err != nil {
					return err
				}
				for _, ch := range chapters {
					mark := " "
					if ch.Completed {
						mark = "✓"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s ch%d\t%s\t%s\tread %d×\n",
						mark, ch.ChapterIndex+1, ch.ChapterTitle, timefmt.Duration(ch.TotalTime), ch.TimesRead)
				}
				return nil
			}
			books, err := app.AnalyticsCLI.BookHistory(context.Background())
			if err != nil {
				return err
			}
			for _, b := range books {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d chapters\t%d sessions\t%.1f%%\n",
					b.BookTitle, timefmt.Duration(b.TotalTime), b.ChaptersRead, b.SessionCount, b.CompletionPct)
			}
			return nil
		},
	}
	history.Flags().StringVar(&bookID, "book", "", "show chapter history for one book")
	return history
}

func newSearchCmd(rootPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "search <book-id> <query>",
		Short: "Search a book's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*rootPath)
			if err != nil {
				return err
			}
			query := strings.Join(args[1:], " ")
			results, err := app.SearchCLI.Search(context.Background(), args[0], query)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ch%d %s (%d matches)\n", r.ChapterIndex+1, r.ChapterTitle, len(r.Matches))
				for _, m := range r.Matches {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  …%s…\n", m.Snippet)
				}
			}
			return nil
		},
	}
}

func newPluginsCmd(rootPath *string) *cobra.Command {
	plugins := &cobra.Command{Use: "plugins", Short: "Manage parser plugins"}

	plugins.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List installed parser plugins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*rootPath)
			if err != nil {
				return err
			}
			infos, err := app.ParserCLI.Plugins(context.Background())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins installed")
				return nil
			}
			for _, p := range infos {
				state := "enabled"
				if !p.Enabled {
					state = "disabled"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\tformats=%s\n",
					p.Name, p.Version, state, strings.Join(p.Formats, ","))
			}
			return nil
		},
	})

	plugins.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Diagnose installed parser plugins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*rootPath)
			if err != nil {
				return err
			}
			reports, err := app.ParserCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins installed")
				return nil
			}
			for _, r := range reports {
				status := "ok"
				switch {
				case !r.BinaryReachable:
					status = "binary missing"
				case !r.ChecksumValid:
					status = "checksum mismatch"
				case !r.LifecycleOK:
					status = "lifecycle failed: " + r.Error
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Name, status)
			}
			return nil
		},
	})

	return plugins
}
