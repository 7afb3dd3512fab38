package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/NethermindEth/tweetbridge/pkg/twitter"
	"github.com/NethermindEth/tweetbridge/pkg/twitter/auth"
	"github.com/NethermindEth/tweetbridge/pkg/utils/debug"
	"github.com/NethermindEth/tweetbridge/pkg/utils/errors"
	"github.com/NethermindEth/tweetbridge/pkg/utils/logger"
	"github.com/NethermindEth/tweetbridge/pkg/utils/metrics"
	"github.com/NethermindEth/tweetbridge/pkg/webhook"
)

var (
	success = color.New(color.FgGreen).SprintFunc()
	fail    = color.New(color.FgRed).SprintFunc()
	info    = color.New(color.FgCyan).SprintFunc()
)

func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + suffix
	return s
}

func newClient(collector *metrics.MetricsCollector) (*twitter.TwitterClient, error) {
	config := twitter.ConfigFromEnv()
	config.Metrics = collector

	client, err := twitter.NewTwitterClient(config)
	if err != nil {
		return nil, errors.Wrap(err, errors.TypeConfig, "failed to create twitter client")
	}
	return client, nil
}

func printJSON(out io.Writer, title, json string) {
	fmt.Fprintf(out, "\n%s %s:\n", info("📄"), title)
	fmt.Fprintln(out, color.New(color.FgYellow).Sprint(json))
}

func tweetCmd() *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "tweet",
		Short: "Fetch a tweet and print it in its wire form",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(nil)
			if err != nil {
				return err
			}

			s := newSpinner("Fetching tweet...")
			s.Start()
			tweet, err := client.Tweets.GetTweet(cmd.Context(), id)
			s.Stop()
			if err != nil {
				fmt.Printf("%s Failed to fetch tweet\n", fail("❌"))
				return errors.Wrap(err, errors.TypeTwitter, "failed to get tweet")
			}
			fmt.Printf("%s Tweet fetched\n", success("✓"))

			json, err := twitter.ToJSON(client, tweet)
			if err != nil {
				return errors.Wrap(err, errors.TypeSerialization, "failed to serialize tweet")
			}
			printJSON(cmd.OutOrStdout(), "Tweet", json)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "ID of the tweet to fetch")
	cmd.MarkFlagRequired("id")

	return cmd
}

func userCmd() *cobra.Command {
	var screenName string

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Fetch a user and print it in its wire form",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(nil)
			if err != nil {
				return err
			}

			s := newSpinner("Fetching user...")
			s.Start()
			user, err := client.Users.GetUser(cmd.Context(), screenName)
			s.Stop()
			if err != nil {
				fmt.Printf("%s Failed to fetch user\n", fail("❌"))
				return errors.Wrap(err, errors.TypeTwitter, "failed to get user")
			}
			fmt.Printf("%s User fetched\n", success("✓"))

			json, err := twitter.ToJSON(client, user)
			if err != nil {
				return errors.Wrap(err, errors.TypeSerialization, "failed to serialize user")
			}
			printJSON(cmd.OutOrStdout(), "User", json)
			return nil
		},
	}

	cmd.Flags().StringVar(&screenName, "screen-name", "", "Screen name of the user to fetch")
	cmd.MarkFlagRequired("screen-name")

	return cmd
}

func roundTripCmd() *cobra.Command {
	var kind string
	var file string

	cmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Restore wire JSON as a model and serialize it back, offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			var input []byte
			var err error
			if file == "-" {
				input, err = io.ReadAll(cmd.InOrStdin())
			} else {
				input, err = os.ReadFile(file)
			}
			if err != nil {
				return errors.Wrap(err, errors.TypeValidation, "failed to read input")
			}

			b, _ := twitter.NewBridge(nil, nil)
			output, err := roundTrip(b, kind, string(input))
			if err != nil {
				fmt.Printf("%s Round trip failed\n", fail("❌"))
				return errors.Wrap(err, errors.TypeSerialization, "round trip failed")
			}

			fmt.Printf("%s Round trip succeeded\n", success("✓"))
			printJSON(cmd.OutOrStdout(), kind, output)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "tweet", "Model kind to restore")
	cmd.Flags().StringVar(&file, "file", "-", "File holding the wire JSON, - for stdin")

	return cmd
}

func loginCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain user access credentials through the OAuth login flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			consumerKey, consumerSecret := os.Getenv(twitter.ConsumerKeyKey), os.Getenv(twitter.ConsumerSecretKey)
			if consumerKey == "" || consumerSecret == "" {
				return errors.New(errors.TypeConfig, "consumer credentials are not set", twitter.ErrMissingAppCredentials)
			}

			server := auth.NewLoginServer(auth.Config{
				Addr:           addr,
				ConsumerKey:    consumerKey,
				ConsumerSecret: consumerSecret,
			})
			server.Start()

			fmt.Printf("\n%s Open %s in a browser to log in\n", info("🔗"), server.LoginURL())

			s := newSpinner("Waiting for login...")
			s.Start()
			creds, err := server.WaitForCredentials(cmd.Context())
			s.Stop()
			if err != nil {
				fmt.Printf("%s Login did not complete\n", fail("❌"))
				return errors.Wrap(err, errors.TypeTwitter, "login failed")
			}

			fmt.Printf("%s Logged in\n\n", success("✓"))
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n%s=%s\n",
				twitter.AccessTokenKey, creds.AccessToken,
				twitter.AccessTokenSecretKey, creds.AccessSecret,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3000", "Address the login server listens on")

	return cmd
}

func webhookCmd() *cobra.Command {
	var addr string
	var path string
	var monitorAddr string
	var workers int
	var offline bool

	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Receive account activity deliveries and log the events they carry",
		RunE: func(cmd *cobra.Command, args []string) error {
			collector := metrics.NewMetricsCollector()

			config := webhook.Config{
				ConsumerSecret: os.Getenv(twitter.ConsumerSecretKey),
				Path:           path,
				Workers:        workers,
				Metrics:        collector,
			}
			if config.ConsumerSecret == "" {
				return errors.New(errors.TypeConfig, "consumer secret is not set", twitter.ErrMissingAppCredentials)
			}
			if !offline {
				client, err := newClient(collector)
				if err != nil {
					return err
				}
				config.Client = client
			}

			server := webhook.NewServer(config)
			server.OnTweet(func(ctx context.Context, forUserID int64, tweet twitter.Tweet) error {
				slog.Info("tweet event", "for_user_id", forUserID, "id", tweet.ID(), "url", tweet.URL())
				return nil
			})
			server.OnMessage(func(ctx context.Context, forUserID int64, message twitter.Message) error {
				slog.Info("message event", "for_user_id", forUserID, "id", message.ID(), "sender_id", message.SenderID())
				return nil
			})

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				slog.Info("webhook server started", "addr", addr)
				return server.Run(ctx, addr)
			})
			if monitorAddr != "" {
				g.Go(func() error {
					return serveMonitoring(ctx, monitorAddr, collector)
				})
			}

			if err := g.Wait(); err != nil {
				return errors.Wrap(err, errors.TypeWebhook, "webhook server failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "Address the webhook server listens on")
	cmd.Flags().StringVar(&path, "path", "", "Route the webhook is registered on")
	cmd.Flags().StringVar(&monitorAddr, "monitor-addr", ":8080", "Address serving /metrics and /health, empty to disable")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of handler workers")
	cmd.Flags().BoolVar(&offline, "offline", false, "Deliver models without an API client")

	return cmd
}

func main() {
	var logLevel string
	var jsonLogs bool
	profiler := &debug.Profiler{}

	rootCmd := &cobra.Command{
		Use:           "tweetbridge",
		Short:         "Twitter client built on the model/DTO JSON bridge",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.SetDefault(logger.Config{
				Level:      logger.ParseLevel(logLevel),
				Output:     os.Stderr,
				JSONFormat: jsonLogs,
			})
			return profiler.Start()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return profiler.Stop()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Log in JSON format")
	rootCmd.PersistentFlags().StringVar(&profiler.CPUPath, "cpu-profile", "", "Write a CPU profile to this file")
	rootCmd.PersistentFlags().StringVar(&profiler.HeapPath, "heap-profile", "", "Write a heap profile to this file on exit")

	rootCmd.AddCommand(tweetCmd(), userCmd(), roundTripCmd(), loginCmd(), webhookCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Printf("%s %v\n", fail("❌"), err)
		if stack := errors.StackOf(err); stack != "" {
			slog.Debug("command failed", "error", err, "stack", stack)
		}
		if err := profiler.Stop(); err != nil {
			slog.Error("failed to write profiles", "error", err)
		}
		stop()
		os.Exit(1)
	}
}
