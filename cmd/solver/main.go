// Command solver drives a postflop subgame solve from the command line:
// training, local best response, tree inspection, and scripted self-play.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/kmurf1999/postflop-solver/pkg/cards"
	"github.com/kmurf1999/postflop-solver/pkg/engine"
	"github.com/kmurf1999/postflop-solver/pkg/notation"
	"github.com/kmurf1999/postflop-solver/pkg/solver"
	"github.com/kmurf1999/postflop-solver/pkg/tree"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	Solve      SolveCmd      `cmd:"solve" help:"run MCCFR training and save a checkpoint"`
	LocalBR    LocalBRCmd    `cmd:"local-br" help:"estimate exploitability of a loaded checkpoint via local best response"`
	TreeDump   TreeDumpCmd   `cmd:"tree-dump" help:"build the action tree for a position and print its shape"`
	ScriptPlay ScriptPlayCmd `cmd:"script-play" help:"describe a scripted agent's first action against a loaded checkpoint"`
}

// positionFlags is embedded by every subcommand: it parses a position FEN
// string plus the betting/card abstraction into a solver.Options, the full
// parameter surface a solve is initialized from.
type positionFlags struct {
	Position  string  `arg:"" help:"position FEN, e.g. BTN:AA:S100/BB:QQ:S100|P10|Kh9s4c7d2s|>BTN"`
	AllIn     float64 `help:"fraction of stack above which a bet/raise is promoted to all-in" default:"0.9"`
	MinBet    float64 `help:"smallest opening bet size in chips" default:"1"`
	BetSizes  string  `help:"comma-separated pot fractions for opening bets" default:"0.5,1"`
	RaiseSize string  `help:"comma-separated pot fractions for raises" default:"1"`
	AbsFlop   string  `help:"flop bucket-table path (empty disables bucketing)"`
	AbsTurn   string  `help:"turn bucket-table path"`
	AbsRiver  string  `help:"river bucket-table path"`

	Geometric     bool `help:"use geometric bet sizing (growing the pot evenly toward an all-in by the river) instead of --bet-sizes/--raise-size"`
	GeometricBets int  `help:"number of bet sizes per street to generate around the geometric mean" default:"1"`
}

func (p positionFlags) buildOptions() (solver.Options, error) {
	gs, err := notation.ParsePosition(p.Position)
	if err != nil {
		return solver.Options{}, err
	}
	if len(gs.Players) != 2 {
		return solver.Options{}, fmt.Errorf("only two-player positions are supported")
	}

	startRound := cards.Round(gs.Street)

	var abs engine.BettingAbstraction
	abs.AllInThreshold = p.AllIn
	abs.MinBet = p.MinBet
	if p.Geometric {
		stackBehind := gs.Players[0].Stack
		if gs.Players[1].Stack < stackBehind {
			stackBehind = gs.Players[1].Stack
		}
		abs = tree.BuildGeometricAbstraction(startRound, gs.Pot, stackBehind, p.AllIn, p.GeometricBets)
		abs.MinBet = p.MinBet
	} else {
		betFractions := parseFractions(p.BetSizes)
		raiseFractions := parseFractions(p.RaiseSize)
		for r := startRound; r <= cards.River; r++ {
			abs.BetFractions[r] = betFractions
			abs.RaiseFractions[r] = raiseFractions
		}
	}

	return solver.Options{
		Round:           startRound,
		Pot:             gs.Pot,
		Stacks:          [2]float64{gs.Players[0].Stack, gs.Players[1].Stack},
		Board:           gs.Board,
		Range0:          rangeString(gs.Players[0]),
		Range1:          rangeString(gs.Players[1]),
		Betting:         abs,
		CardAbstraction: [4]string{"", p.AbsFlop, p.AbsTurn, p.AbsRiver},
	}, nil
}

func rangeString(p notation.PlayerRange) string {
	parts := make([]string, len(p.Range))
	for i, c := range p.Range {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

func parseFractions(s string) []float64 {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if v, err := strconv.ParseFloat(part, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

type SolveCmd struct {
	positionFlags
	Iterations  int64  `help:"number of external-sampling MCCFR iterations" default:"100000"`
	Discount    int64  `help:"discount interval in iterations (0 disables)" default:"1000000"`
	Seed        int64  `help:"random seed" default:"1"`
	SaveRegrets string `help:"path to save the regret checkpoint"`
	SaveStrat   string `help:"path to save the averaged strategy checkpoint"`
}

func (c *SolveCmd) Run(logger *log.Logger) error {
	opts, err := c.buildOptions()
	if err != nil {
		return err
	}
	opts.Seed = c.Seed
	opts.DiscountInterval = c.Discount
	if c.Discount == 0 {
		// Options treats zero as "use the default"; a negative interval disables.
		opts.DiscountInterval = -1
	}

	s, err := solver.NewSolver(opts)
	if err != nil {
		return err
	}
	logger.Info("built tree", "run_key", s.RunKey())

	if err := s.Run(context.Background(), c.Iterations); err != nil {
		return err
	}
	logger.Info("training complete", "iterations", c.Iterations)

	if c.SaveRegrets != "" {
		if err := s.SaveRegrets(c.SaveRegrets); err != nil {
			return err
		}
		logger.Info("saved regrets", "path", c.SaveRegrets)
	}
	if c.SaveStrat != "" {
		if err := s.SaveStrategy(c.SaveStrat); err != nil {
			return err
		}
		logger.Info("saved strategy", "path", c.SaveStrat)
	}
	return nil
}

type LocalBRCmd struct {
	positionFlags
	LoadStrat string `help:"path to the averaged strategy checkpoint to load" required:""`
	Deals     int    `help:"number of deals per seat" default:"10000"`
	Seed      int64  `help:"random seed" default:"1"`
}

func (c *LocalBRCmd) Run(logger *log.Logger) error {
	opts, err := c.buildOptions()
	if err != nil {
		return err
	}
	opts.Seed = c.Seed

	s, err := solver.NewSolver(opts)
	if err != nil {
		return err
	}
	if err := s.LoadStrategy(c.LoadStrat); err != nil {
		return err
	}

	ev, err := s.RunLocalBR(context.Background(), c.Deals)
	if err != nil {
		return err
	}
	logger.Info("local best response", "seat0_ev", ev[0], "seat1_ev", ev[1])
	fmt.Printf("seat 0 best-response EV: %.4f\nseat 1 best-response EV: %.4f\n", ev[0], ev[1])
	return nil
}

type TreeDumpCmd struct {
	positionFlags
}

func (c *TreeDumpCmd) Run(logger *log.Logger) error {
	opts, err := c.buildOptions()
	if err != nil {
		return err
	}
	s, err := solver.NewSolver(opts)
	if err != nil {
		return err
	}

	var b strings.Builder
	s.Tree().Dump(&b)
	fmt.Print(b.String())
	logger.Info("tree built", "action_nodes", s.Tree().NumActionNodes, "nodes", len(s.Tree().Nodes))
	return nil
}

type ScriptPlayCmd struct {
	positionFlags
	LoadStrat string `help:"path to the averaged strategy checkpoint for the opponent seat" required:""`
	Agent     string `help:"scripted agent for seat 0" enum:"check-fold,always-call" default:"check-fold"`
}

func (c *ScriptPlayCmd) Run(logger *log.Logger) error {
	opts, err := c.buildOptions()
	if err != nil {
		return err
	}
	s, err := solver.NewSolver(opts)
	if err != nil {
		return err
	}
	if err := s.LoadStrategy(c.LoadStrat); err != nil {
		return err
	}

	var agent solver.Agent
	switch c.Agent {
	case "always-call":
		agent = solver.AlwaysCallAgent{}
	default:
		agent = solver.CheckFoldAgent{}
	}

	root := s.Tree().Nodes[s.Tree().Root]
	first := s.Tree().Nodes[root.Child]
	action := agent.Act(first.State, opts.Betting)
	logger.Info("scripted action", "agent", c.Agent, "kind", action.Kind.String(), "amount", action.Amount)
	return nil
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("solver"),
		kong.Description("Heads-up postflop subgame solver"),
		kong.UsageOnError(),
	)

	level := log.InfoLevel
	if cli.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	var err error
	switch ctx.Command() {
	case "solve <position>":
		err = cli.Solve.Run(logger)
	case "local-br <position>":
		err = cli.LocalBR.Run(logger)
	case "tree-dump <position>":
		err = cli.TreeDump.Run(logger)
	case "script-play <position>":
		err = cli.ScriptPlay.Run(logger)
	default:
		logger.Fatal("unknown command", "command", ctx.Command())
	}
	if err != nil {
		logger.Fatal("command failed", "error", err)
	}
}
