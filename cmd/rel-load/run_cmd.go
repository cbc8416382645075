package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ZSuraj/abcd-sub000/pkg/relclient"
)

type runOptions struct {
	Profile    string
	OutPath    string
	VUs        int
	Duration   time.Duration
	P99LimitMS int
}

type target struct {
	Endpoint string
	Weight   int
	Call     func(ctx context.Context, c *relclient.Client) error
}

type profile struct {
	Name         string
	VUs          int
	Duration     time.Duration
	DefaultP99MS int
	Targets      []target
}

func readTree(ctx context.Context, c *relclient.Client) error {
	_, err := c.GetTree(ctx)
	return err
}

func listClients(ctx context.Context, c *relclient.Client) error {
	_, err := c.ListClients(ctx, "")
	return err
}

func listManagers(ctx context.Context, c *relclient.Client) error {
	_, err := c.ListManagers(ctx, "")
	return err
}

func listEmployees(ctx context.Context, c *relclient.Client) error {
	_, err := c.ListEmployees(ctx, "")
	return err
}

func builtinProfile(name string) (profile, error) {
	switch name {
	case "tree_read":
		return profile{
			Name:         name,
			VUs:          10,
			Duration:     30 * time.Second,
			DefaultP99MS: 200,
			Targets: []target{
				{Endpoint: "GET /relationships", Weight: 6, Call: readTree},
				{Endpoint: "GET /clients", Weight: 2, Call: listClients},
				{Endpoint: "GET /managers", Weight: 1, Call: listManagers},
				{Endpoint: "GET /employees", Weight: 1, Call: listEmployees},
			},
		}, nil
	case "directory_read":
		return profile{
			Name:         name,
			VUs:          5,
			Duration:     30 * time.Second,
			DefaultP99MS: 100,
			Targets: []target{
				{Endpoint: "GET /clients", Weight: 1, Call: listClients},
				{Endpoint: "GET /managers", Weight: 1, Call: listManagers},
				{Endpoint: "GET /employees", Weight: 1, Call: listEmployees},
			},
		}, nil
	default:
		return profile{}, fmt.Errorf("unknown profile %q (tree_read|directory_read)", name)
	}
}

func newRunCmd(root *rootOptions) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run --profile <name> [--out <path>]",
		Short: "Run a load profile and write a rel_load_report.v1 JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.Profile) == "" {
				return errors.New("--profile is required")
			}
			p, err := builtinProfile(opts.Profile)
			if err != nil {
				return err
			}
			if opts.VUs > 0 {
				p.VUs = opts.VUs
			}
			if opts.Duration > 0 {
				p.Duration = opts.Duration
			}

			c, err := root.login(cmd.Context())
			if err != nil {
				return err
			}

			startedAt := time.Now().UTC()
			s := runProfile(cmd.Context(), c, p)
			finishedAt := time.Now().UTC()

			report := loadReportV1{
				SchemaVersion: 1,
				RunID:         uuid.NewString(),
				StartedAt:     startedAt.Format(time.RFC3339),
				FinishedAt:    finishedAt.Format(time.RFC3339),
				Results:       s.results(),
			}
			report.Target.BaseURL = root.BaseURL
			report.Target.Email = root.Email
			report.Profile.Name = p.Name
			report.Profile.VUs = p.VUs
			report.Profile.DurationSeconds = int(p.Duration.Seconds())

			p99Limit := opts.P99LimitMS
			if p99Limit <= 0 {
				p99Limit = p.DefaultP99MS
			}
			report.Thresholds = []loadReportThreshold{
				{Name: "p99_ms", Limit: p99Limit, OK: s.p99All() <= p99Limit},
				{Name: "errors", Limit: 0, OK: s.errorCount() == 0},
			}

			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			if opts.OutPath == "" || opts.OutPath == "-" {
				_, err = fmt.Fprintln(root.out, string(data))
				return err
			}
			return os.WriteFile(opts.OutPath, data, 0o644)
		},
	}

	cmd.Flags().StringVar(&opts.Profile, "profile", "", "profile name (tree_read|directory_read)")
	cmd.Flags().StringVar(&opts.OutPath, "out", "", "output report path, stdout when empty")
	cmd.Flags().IntVar(&opts.VUs, "vus", 0, "virtual users (default per profile)")
	cmd.Flags().DurationVar(&opts.Duration, "duration", 0, "run duration (default per profile)")
	cmd.Flags().IntVar(&opts.P99LimitMS, "p99-limit-ms", 0, "p99 latency threshold in milliseconds (default per profile)")

	return cmd
}

// runProfile drives p's targets from p.VUs workers until p.Duration elapses.
func runProfile(parent context.Context, c *relclient.Client, p profile) *stats {
	s := newStats()
	ctx, cancel := context.WithTimeout(parent, p.Duration)
	defer cancel()

	wg := sync.WaitGroup{}
	wg.Add(p.VUs)
	for i := 0; i < p.VUs; i++ {
		go func(workerID int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))
			for ctx.Err() == nil {
				t := pickTarget(r, p.Targets)
				start := time.Now()
				err := t.Call(ctx, c)
				if ctx.Err() != nil {
					return
				}
				s.record(requestResult{Endpoint: t.Endpoint, DurationMS: int(time.Since(start).Milliseconds()), Err: err})
			}
		}(i)
	}
	wg.Wait()
	return s
}

type requestResult struct {
	Endpoint   string
	DurationMS int
	Err        error
}

func pickTarget(r *rand.Rand, targets []target) target {
	total := 0
	for _, t := range targets {
		total += t.Weight
	}
	x := r.Intn(total)
	for _, t := range targets {
		x -= t.Weight
		if x < 0 {
			return t
		}
	}
	return targets[len(targets)-1]
}

type endpointStats struct {
	count     int
	errors    int
	latencies []int
}

type stats struct {
	mu        sync.Mutex
	endpoints map[string]*endpointStats
}

func newStats() *stats {
	return &stats{
		endpoints: map[string]*endpointStats{},
	}
}

func (s *stats) record(res requestResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	es := s.endpoints[res.Endpoint]
	if es == nil {
		es = &endpointStats{latencies: make([]int, 0, 1024)}
		s.endpoints[res.Endpoint] = es
	}
	es.count++
	if res.Err != nil {
		es.errors++
	}
	es.latencies = append(es.latencies, res.DurationMS)
}

func (s *stats) results() []loadReportResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]loadReportResult, 0, len(s.endpoints))
	for endpoint, es := range s.endpoints {
		p50, p95, p99 := percentiles(es.latencies)
		out = append(out, loadReportResult{
			Endpoint: endpoint,
			Count:    es.count,
			Errors:   es.errors,
			P50MS:    p50,
			P95MS:    p95,
			P99MS:    p99,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out
}

func (s *stats) errorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, es := range s.endpoints {
		n += es.errors
	}
	return n
}

func (s *stats) p99All() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]int, 0, 4096)
	for _, es := range s.endpoints {
		all = append(all, es.latencies...)
	}
	_, _, p99 := percentiles(all)
	return p99
}

func percentiles(ms []int) (int, int, int) {
	if len(ms) == 0 {
		return 0, 0, 0
	}
	cp := append([]int(nil), ms...)
	sort.Ints(cp)
	p50 := cp[int(float64(len(cp)-1)*0.50)]
	p95 := cp[int(float64(len(cp)-1)*0.95)]
	p99 := cp[int(float64(len(cp)-1)*0.99)]
	return p50, p95, p99
}
