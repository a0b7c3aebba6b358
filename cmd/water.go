package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"
)

const waterBarWidth = 20

func waterBar(pct int) string {
	filled := pct * waterBarWidth / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", waterBarWidth-filled) + "]"
}

func (r *Runner) writeWater() error {
	w := r.app.Water
	return r.writePlain("💧 %d/%d glasses %s %d%%\n", w.Count(), w.Goal(), waterBar(w.Percentage()), w.Percentage())
}

// WaterShow prints progress toward the daily goal.
func (r *Runner) WaterShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	return r.writeWater()
}

// WaterAdd adds glasses; the counter never drops below zero.
func (r *Runner) WaterAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	if _, err := r.app.Water.Add(ctx, int(cmd.Int("glasses"))); err != nil {
		return err
	}
	return r.writeWater()
}

// WaterReset sets the counter to zero.
func (r *Runner) WaterReset(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	if err := r.app.Water.Reset(ctx); err != nil {
		return err
	}
	return r.writeWater()
}
