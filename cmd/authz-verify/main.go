package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ZSuraj/abcd-sub000/pkg/authz"
)

type fixtureCase struct {
	Role    string `yaml:"role"`
	Object  string `yaml:"object"`
	Action  string `yaml:"action"`
	Allowed bool   `yaml:"allowed"`
	Note    string `yaml:"note,omitempty"`
}

type mismatch struct {
	Subject  string `json:"subject"`
	Object   string `json:"object"`
	Action   string `json:"action"`
	Expected bool   `json:"expected"`
	Casbin   bool   `json:"casbin"`
	Reason   string `json:"reason"`
}

func main() {
	var (
		fixturesPath = flag.String("fixtures", "", "YAML fixture file with the expected role decisions")
		modelPath    = flag.String("model", "", "Casbin model file (embedded policy when empty)")
		policyPath   = flag.String("policy", "", "Casbin policy file (embedded policy when empty)")
		emitMetrics  = flag.Bool("emit-metrics", false, "Print parity metrics as JSON")
	)
	flag.Parse()

	if strings.TrimSpace(*fixturesPath) == "" {
		fmt.Fprintln(os.Stderr, "-fixtures is required")
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	svc, err := authz.NewService(authz.Config{
		ModelPath:  *modelPath,
		PolicyPath: *policyPath,
		FlagMode:   authz.ModeEnforce,
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load policy: %v\n", err)
		os.Exit(1)
	}

	fixtures, err := loadFixtures(*fixturesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load fixtures: %v\n", err)
		os.Exit(1)
	}

	mismatches := verify(context.Background(), svc, fixtures)
	if *emitMetrics {
		payload, err := json.Marshal(map[string]any{
			"total_checked": len(fixtures),
			"mismatches":    len(mismatches),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to marshal metrics: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stdout, "%s\n", payload)
	}
	if len(mismatches) > 0 {
		for _, diff := range mismatches {
			fmt.Fprintf(os.Stderr, "mismatch: %+v\n", diff)
		}
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "parity ok: checked %d combinations\n", len(fixtures))
}

func loadFixtures(path string) ([]fixtureCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fixtures []fixtureCase
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return fixtures, nil
}

// checker is satisfied by *authz.Service.
type checker interface {
	Check(ctx context.Context, req authz.Request) (bool, error)
}

func verify(ctx context.Context, svc checker, fixtures []fixtureCase) []mismatch {
	var result []mismatch
	for _, fx := range fixtures {
		req := authz.NewRequest(authz.SubjectForRole(fx.Role), fx.Object, fx.Action)
		allowed, err := svc.Check(ctx, req)
		switch {
		case err != nil:
			result = append(result, mismatch{
				Subject: req.Subject, Object: req.Object, Action: req.Action,
				Expected: fx.Allowed, Reason: err.Error(),
			})
		case allowed != fx.Allowed:
			reason := "decision mismatch"
			if fx.Note != "" {
				reason += ": " + fx.Note
			}
			result = append(result, mismatch{
				Subject: req.Subject, Object: req.Object, Action: req.Action,
				Expected: fx.Allowed, Casbin: allowed, Reason: reason,
			})
		}
	}
	return result
}
