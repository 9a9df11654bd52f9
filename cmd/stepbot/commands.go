package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/EgorLis/stepbot/internal/bot"
	"github.com/EgorLis/stepbot/internal/config"
	"github.com/EgorLis/stepbot/internal/discord"
	"github.com/EgorLis/stepbot/internal/selector"
	"github.com/EgorLis/stepbot/internal/step"
	"github.com/EgorLis/stepbot/internal/store"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "stepbot",
		Short:         "Discord bot that posts STEP questions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to YAML config")

	open := func() (*app, error) { return newApp(configPath) }

	root.AddCommand(
		newRunCmd(open),
		newLookupCmd(open),
		newRandomCmd(open),
		newDailyCmd(open),
		newHistoryCmd(open),
	)
	return root
}

type opener func() (*app, error)

func newRunCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and serve commands and the daily post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			if a.cfg.Discord.Token == "" {
				return fmt.Errorf("%s is not set (env or discord.token in config)", config.TokenEnv)
			}

			st, err := store.Open(a.cfg.Store.Path)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer st.Close()

			dc, err := discord.New(a.cfg.Discord, a.http, a.log.Named("discord"))
			if err != nil {
				return err
			}

			b := bot.New(a.sel, nil, a.log.Named("bot"))
			b.SetDiscord(dc)
			b.SetHistory(st)
			if err := b.UseConfig(a.cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := b.Start(ctx); err != nil {
				return err
			}
			defer b.Stop()

			a.log.Info("running… press Ctrl+C to stop")
			<-ctx.Done()
			a.log.Info("shutting down")
			return nil
		},
	}
}

func newLookupCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:     "lookup <XX-SY-QZ>",
		Short:   "Print the label and image URL of a question",
		Example: "  stepbot lookup 97-S2-Q1\n  stepbot lookup Spec-S1-Q4",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			q, err := a.sel.Lookup(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			printQuestion(cmd.OutOrStdout(), q)
			return nil
		},
	}
}

func newRandomCmd(open opener) *cobra.Command {
	var papers []int

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Print a random existing question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			ps := a.cfg.Selector.RandomPapers
			if cmd.Flags().Changed("papers") {
				ps = step.Papers(papers)
			}
			q, err := a.sel.SelectRandom(cmd.Context(), ps)
			if err != nil {
				return describe(err)
			}
			printQuestion(cmd.OutOrStdout(), q)
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&papers, "papers", nil, "papers to draw from, e.g. --papers 2,3")
	return cmd
}

func newDailyCmd(open opener) *cobra.Command {
	var post bool

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Run the daily question flow once",
		Long: `Pick the daily question now. Without --post the question is only printed.
With --post it is sent to the configured channel and recorded in the
history, unless today already has a post.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			if !post {
				q, err := a.sel.RunDailyOnce(cmd.Context())
				if err != nil {
					return describe(err)
				}
				printQuestion(cmd.OutOrStdout(), q)
				return nil
			}

			if a.cfg.Discord.Token == "" {
				return fmt.Errorf("%s is not set (env or discord.token in config)", config.TokenEnv)
			}
			st, err := store.Open(a.cfg.Store.Path)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer st.Close()

			// только REST: шлюз для одной отправки не нужен
			dc, err := discord.New(a.cfg.Discord, a.http, a.log.Named("discord"))
			if err != nil {
				return err
			}
			b := bot.New(a.sel, dc, a.log.Named("bot"))
			b.SetHistory(st)
			if err := b.UseConfig(a.cfg); err != nil {
				return err
			}

			q, err := b.PostDaily(cmd.Context(), time.Now())
			if errors.Is(err, store.ErrAlreadyPosted) {
				fmt.Fprintln(cmd.OutOrStdout(), "already posted today")
				return nil
			}
			if err != nil {
				return describe(err)
			}
			a.log.Info("daily posted", zap.String("ref", q.Ref.String()))
			printQuestion(cmd.OutOrStdout(), q)
			return nil
		},
	}
	cmd.Flags().BoolVar(&post, "post", false, "send to the daily channel and record it")
	return cmd
}

func newHistoryCmd(open opener) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded daily posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			st, err := store.Open(a.cfg.Store.Path)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer st.Close()

			posts, err := st.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), posts)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "how many posts to show")
	return cmd
}

func printQuestion(w io.Writer, q selector.Question) {
	fmt.Fprintln(w, q.Label)
	fmt.Fprintln(w, q.URL)
}

func printHistory(w io.Writer, posts []store.DailyPost) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "history: (empty)")
		return
	}
	for _, p := range posts {
		fmt.Fprintf(w, "%s  %-12s %s\n", p.Day, p.Ref, p.Label)
	}
}

// describe переводит ошибки ядра в короткий текст для терминала.
func describe(err error) error {
	switch {
	case errors.Is(err, step.ErrMalformedInput):
		return fmt.Errorf("invalid format, use XX-SY-QZ (e.g. 97-S2-Q1): %w", err)
	case errors.Is(err, step.ErrOutOfRange):
		return fmt.Errorf("invalid STEP question reference: %w", err)
	case errors.Is(err, selector.ErrNotFound):
		return errors.New("that STEP question could not be found")
	case errors.Is(err, selector.ErrExhaustedRetries):
		return fmt.Errorf("failed to find a valid STEP question: %w", err)
	}
	return err
}
