// Package main provides the casesubmit CLI, a thin operator frontend over
// the caseclient library: inspect the document-category taxonomy and submit
// a loan application described by a YAML manifest.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "casesubmit",
	Short: "Submit loan applications to the case-management API",
	Long: `casesubmit builds validated loan-application records from a YAML
manifest and submits them: supporting files are uploaded in one batch, then
the case document referencing the uploaded files is posted. Remote API
settings come from the environment (CRM_API_URL, CRM_AUTH_ENDPOINT and
either CRM_TOKEN or CRM_CLIENT_ID/CRM_CLIENT_SECRET).`,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(submitCmd)
}
