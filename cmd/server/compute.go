package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/ahpsurvey/internal/ahp"
	"github.com/soaringjerry/ahpsurvey/internal/services"
	"github.com/soaringjerry/ahpsurvey/internal/utils"
)

func runCompute(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	m, err := readMatrix(in)
	if err != nil {
		return err
	}
	opts := []ahp.Option{ahp.WithTolerance(services.MatrixTolerance)}
	if computePermissive {
		opts = append(opts, ahp.WithPermissiveRandomIndex())
	}
	res, err := ahp.Compute(m, opts...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if computeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*ahp.Result
			Consistent bool `json:"consistent"`
		}{res, res.Consistent()})
	}
	printResult(out, res)
	return nil
}

// readMatrix decodes a JSON array of rows whose cells are numbers or
// fraction strings.
func readMatrix(r io.Reader) (ahp.Matrix, error) {
	var rows [][]services.JudgmentValue
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode matrix: %w", err)
	}
	m := make(ahp.Matrix, len(rows))
	for i, row := range rows {
		m[i] = make([]float64, len(row))
		for j, v := range row {
			m[i][j] = float64(v)
		}
	}
	return m, nil
}

func printResult(w io.Writer, res *ahp.Result) {
	fmt.Fprintln(w, "weights:")
	for i, v := range res.Weights {
		fmt.Fprintf(w, "  %d  %.4f\n", i+1, v)
	}
	fmt.Fprintf(w, "lambda_max  %.4f\n", res.LambdaMax)
	fmt.Fprintf(w, "ci          %.4f\n", res.CI)
	fmt.Fprintf(w, "cr          %.4f\n", res.CR)
	if res.RandomIndexFallback {
		fmt.Fprintln(w, "note: no random index for this order; cr equals ci")
	}
	fmt.Fprintln(w, utils.ConsistencyMessage("en", res.Consistent()))
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		password = strings.TrimRight(string(b), "\r\n")
	}
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}
	hash, err := services.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
