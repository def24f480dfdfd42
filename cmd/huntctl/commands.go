package main

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/playperu/treasurehunt/internal/hunt"
)

func newCheckCmd() *cobra.Command {
	var (
		cluesPath string
		count     int
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load a catalog and build its arrangements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := hunt.ReadCatalog(cluesPath)
			if err != nil {
				return err
			}
			arr, err := hunt.NewArrangements(catalog, count, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "clues:        %d\n", len(catalog))
			fmt.Fprintf(out, "locations:    %d\n", len(catalog.Locations()))
			fmt.Fprintf(out, "arrangements: %d\n", arr.Fixed())
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&cluesPath, "clues", "clues.json", "catalog file (.json, .yaml or .yml)")
	cmd.Flags().IntVar(&count, "count", hunt.DefaultArrangementCount, "number of collision-free arrangements")
	return cmd
}

func newArrangeCmd() *cobra.Command {
	var (
		cluesPath string
		teams     int
		count     int
		seed      uint64
	)
	cmd := &cobra.Command{
		Use:   "arrange",
		Short: "Print the location order handed to the first teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if teams < 1 {
				return fmt.Errorf("--teams must be at least 1, got %d", teams)
			}
			catalog, err := hunt.ReadCatalog(cluesPath)
			if err != nil {
				return err
			}
			arr, err := hunt.NewArrangements(catalog, count, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i := range teams {
				locations := make([]string, 0, len(catalog))
				for _, c := range arr.Next() {
					locations = append(locations, c.Location)
				}
				fmt.Fprintf(out, "team %d: %s\n", i+1, strings.Join(locations, " "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cluesPath, "clues", "clues.json", "catalog file (.json, .yaml or .yml)")
	cmd.Flags().IntVar(&teams, "teams", hunt.DefaultArrangementCount, "number of teams to print")
	cmd.Flags().IntVar(&count, "count", hunt.DefaultArrangementCount, "number of collision-free arrangements")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	return cmd
}

func newDigestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "digest ANSWER",
		Short: "Print the digest stored for an answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), hunt.AnswerDigest(args[0]))
			return nil
		},
	}
}
