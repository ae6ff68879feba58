package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/desertthunder/amx/internal/models"
	"github.com/desertthunder/amx/internal/repositories"
	"github.com/urfave/cli/v3"
)

// CacheStats prints how many matches are cached, per ranking rule.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}
	repo := repositories.NewMatchRepository(db)

	total, err := repo.Count()
	if err != nil {
		return err
	}
	byRule, err := repo.CountByRule()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		counts := make(map[string]int, len(byRule))
		for rule, n := range byRule {
			counts[string(rule)] = n
		}
		return r.writeJSON(map[string]any{"total": total, "rules": counts}, true)
	}

	rules := make([]models.MatchRule, 0, len(byRule))
	for rule := range byRule {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i] < rules[j] })

	r.writePlainHeader("Match cache")
	r.writePlain("Cached matches: %d\n", total)
	for _, rule := range rules {
		r.writePlain("  %-20s %d\n", rule, byRule[rule])
	}
	return nil
}

// CacheClear deletes every cached match.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	n, err := repositories.NewMatchRepository(db).Clear()
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.logger.Info("match cache cleared", "removed", n)
	r.writePlain("✓ Removed %d cached matches\n", n)
	return nil
}
