package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fleetbook/internal/conflicts/repository"
	"fleetbook/internal/conflicts/service"
	"fleetbook/internal/conflicts/validator"
	"fleetbook/pkg/apiclient"
	"fleetbook/pkg/config"
	"fleetbook/pkg/model"
)

// checker decides candidates and reports whether any verdict was degraded.
// A nil lookaheadDays means the configured default.
type checker func(ctx context.Context, candidates []model.Candidate, lookaheadDays *int) (any, bool, error)

type checkOutput struct {
	Decisions any  `json:"decisions"`
	Degraded  bool `json:"degraded"`
}

func newCheckCmd() *cobra.Command {
	var (
		file      string
		lookahead int
		remote    string
		clientID  string
		wait      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Decide a batch of candidate bookings read from a file or stdin",
		Long: "Reads a JSON array of candidates, or an object with a \"candidates\" field, " +
			"and prints one decision per candidate. With --remote the batch is sent to a running " +
			"service instead of the configured store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var check checker
			if remote != "" {
				check = remoteChecker(apiclient.NewConflictClient(remote, clientID), wait)
			} else {
				cfg := config.Load(ServiceName)
				cfg.SetStore()
				defer cfg.GracefulShutdown()

				v := validator.NewConflictValidator(cfg.Log, cfg.MaxBatchCandidates)
				svc := service.NewConflictService(repository.NewStore(cfg), cfg)
				check = localChecker(svc, v, cfg.PrefetchLookaheadDays)
			}

			var days *int
			if cmd.Flags().Changed("lookahead") {
				days = &lookahead
			}
			return runCheck(cmd.Context(), in, cmd.OutOrStdout(), check, days)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "candidates file, - for stdin")
	cmd.Flags().IntVar(&lookahead, "lookahead", 0, "prefetch lookahead days (configured default when unset)")
	cmd.Flags().StringVar(&remote, "remote", "", "base URL of a running conflict service")
	cmd.Flags().StringVar(&clientID, "client-id", "conflicts-cli", "X-Client-ID sent with --remote")
	cmd.Flags().DurationVar(&wait, "wait", 10*time.Second, "how long --remote waits for /health, 0 to skip")
	return cmd
}

func runCheck(ctx context.Context, in io.Reader, out io.Writer, check checker, lookahead *int) error {
	candidates, err := readCandidates(in)
	if err != nil {
		return err
	}

	decisions, degraded, err := check(ctx, candidates, lookahead)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(checkOutput{Decisions: decisions, Degraded: degraded})
}

// readCandidates accepts either a bare array or {"candidates": [...]}.
func readCandidates(r io.Reader) ([]model.Candidate, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("no candidates given")
	}

	var candidates []model.Candidate
	if data[0] == '[' {
		err = json.Unmarshal(data, &candidates)
	} else {
		var req model.BookingsCheckRequest
		err = json.Unmarshal(data, &req)
		candidates = req.Candidates
	}
	if err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	return candidates, nil
}

func localChecker(svc service.ConflictService, v *validator.ConflictValidator, defaultLookahead int) checker {
	return func(ctx context.Context, candidates []model.Candidate, lookaheadDays *int) (any, bool, error) {
		if err := v.ValidateBatchSize(len(candidates)); err != nil {
			return nil, false, err
		}
		req := model.BookingsCheckRequest{Candidates: candidates, LookaheadDays: lookaheadDays}
		if err := v.Validate(&req); err != nil {
			return nil, false, err
		}

		days := defaultLookahead
		if lookaheadDays != nil {
			days = *lookaheadDays
		}
		decisions := svc.CheckBookings(ctx, candidates, days)
		degraded := false
		for _, d := range decisions {
			if d.Err != nil {
				degraded = true
				break
			}
		}
		return decisions, degraded, nil
	}
}

// remoteChecker sends the batch to a running service, first waiting up to
// wait for it to report healthy.
func remoteChecker(c *apiclient.ConflictClient, wait time.Duration) checker {
	return func(ctx context.Context, candidates []model.Candidate, lookaheadDays *int) (any, bool, error) {
		if wait > 0 {
			if err := c.HTTP().WaitForHealthy(ctx, wait); err != nil {
				return nil, false, err
			}
		}
		decisions, meta, err := c.CheckBookings(ctx, candidates, lookaheadDays)
		if err != nil {
			return nil, false, err
		}
		return decisions, meta.Degraded, nil
	}
}
