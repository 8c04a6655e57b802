package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"

	"github.com/ppopth/polyfactor"
)

var log = logging.Logger("polyfactor-cli")

// app holds the persistent flags shared by all commands
type app struct {
	ring       string
	vars       []string
	configPath string
	hensel     string
	seed       int64
	json       bool
	logLevel   string

	run runner
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "polyfactor",
		Short:         "Exact polynomial gcd, squarefree decomposition and factorization",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.ring, "ring", "Z", "coefficient ring: Z, Q, Zp:<p>, GF:<p>^<k>, Q(i) or Q(<params>)")
	flags.StringSliceVar(&a.vars, "vars", []string{"x", "y", "z"}, "variable names, main variable first")
	flags.StringVar(&a.configPath, "config", "", "YAML or JSON engine configuration")
	flags.StringVar(&a.hensel, "hensel", "", "univariate Hensel lifting over Z: quadratic or linear")
	flags.Int64Var(&a.seed, "seed", 0, "random seed (overrides the configuration)")
	flags.BoolVar(&a.json, "json", false, "print results as JSON")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		a.factorCmd(),
		a.sqfCmd(),
		a.gcdCmd(),
		a.resultantCmd(),
		a.coprimeCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	level, err := logging.LevelFromString(a.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.logLevel, err)
	}
	logging.SetAllLoggers(level)

	var opts []polyfactor.Option
	if cmd.Flags().Changed("hensel") {
		opts = append(opts, func(c *polyfactor.Config) error {
			c.Hensel = a.hensel
			return nil
		})
	}
	if cmd.Flags().Changed("seed") {
		opts = append(opts, polyfactor.WithSeed(a.seed))
	}
	cfg, err := polyfactor.LoadConfig(a.configPath, opts...)
	if err != nil {
		return err
	}
	a.run, err = newRunner(a.ring, a.vars, cfg)
	return err
}

// exec runs op, logs its duration and prints the result
func (a *app) exec(cmd *cobra.Command, op func(ctx context.Context) (result, error)) error {
	start := time.Now()
	res, err := op(cmd.Context())
	if err != nil {
		return err
	}
	log.Infof("%s over %s took %s", res.Op, res.Ring, time.Since(start))
	out := cmd.OutOrStdout()
	if a.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	_, err = fmt.Fprintln(out, res.Text)
	return err
}

func (a *app) factorCmd() *cobra.Command {
	var squarefree bool
	cmd := &cobra.Command{
		Use:   "factor <poly>",
		Short: "Factor a polynomial into irreducibles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.exec(cmd, func(ctx context.Context) (result, error) {
				return a.run.factor(ctx, args[0], squarefree)
			})
		},
	}
	cmd.Flags().BoolVar(&squarefree, "squarefree", false, "the input is known to be squarefree")
	return cmd
}

func (a *app) sqfCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "sqf <poly>",
		Short: "Squarefree decomposition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.exec(cmd, func(ctx context.Context) (result, error) {
				if check {
					return a.run.isSquarefree(ctx, args[0])
				}
				return a.run.sqf(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "only report whether the polynomial is squarefree")
	return cmd
}

func (a *app) gcdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gcd <a> <b>",
		Short: "Greatest common divisor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.exec(cmd, func(ctx context.Context) (result, error) {
				return a.run.gcd(ctx, args[0], args[1])
			})
		},
	}
}

func (a *app) resultantCmd() *cobra.Command {
	var v string
	cmd := &cobra.Command{
		Use:   "resultant <a> <b>",
		Short: "Resultant with respect to a variable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if v == "" {
				v = a.vars[0]
			}
			return a.exec(cmd, func(ctx context.Context) (result, error) {
				return a.run.resultant(ctx, args[0], args[1], v)
			})
		},
	}
	cmd.Flags().StringVar(&v, "var", "", "variable to eliminate (default the first of --vars)")
	return cmd
}

func (a *app) coprimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coprime <poly>...",
		Short: "Pairwise coprime basis",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.exec(cmd, func(ctx context.Context) (result, error) {
				return a.run.coprime(ctx, args)
			})
		},
	}
}
