package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	migrateFromSnapshot string
	computeJSON         bool
	computePermissive   bool

	rootCmd = &cobra.Command{
		Use:           "ahpsurvey",
		Short:         "AHP pairwise-comparison survey server and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (configured through AHP_* environment variables)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations to AHP_DB_PATH",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}

	computeCmd = &cobra.Command{
		Use:   "compute [matrix.json]",
		Short: "Compute priority weights and the consistency ratio of a comparison matrix",
		Long: `Reads a JSON matrix such as [[1,3,5],["1/3",1,2],["1/5","1/2",1]]
from the given file, or from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompute,
	}

	hashPasswordCmd = &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash to use as AHP_ADMIN_PASSWORD_HASH",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHashPassword,
	}
)

func init() {
	migrateCmd.Flags().StringVar(&migrateFromSnapshot, "from-snapshot", "", "import a JSON snapshot into a freshly created database")
	computeCmd.Flags().BoolVar(&computeJSON, "json", false, "print the result as JSON")
	computeCmd.Flags().BoolVar(&computePermissive, "permissive", false, "allow orders above 9 (CR is then not normalized)")

	rootCmd.AddCommand(serveCmd, migrateCmd, computeCmd, hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
