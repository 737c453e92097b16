package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/policy-cli/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the product catalog",
	Long:  "Commands for listing the catalog's pay terms and currencies and for validating a catalog source.",
}

// -- catalog terms --

var catalogTermsCmd = &cobra.Command{
	Use:   "terms",
	Short: "List the distinct pay terms and currencies",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "catalog")
		if err != nil {
			return err
		}
		defer env.Close()

		cat, err := loadCatalog(ctx, env)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(termsBody(cat))
		}
		formatTerms(os.Stdout, cat)
		return nil
	},
}

// -- catalog validate --

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the catalog and report its contents",
	Long:  "Loads the configured catalog source, failing on missing required columns, and reports product counts and dropped rows.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "catalog")
		if err != nil {
			return err
		}
		defer env.Close()

		cat, err := loadCatalog(ctx, env)
		if err != nil {
			return err
		}

		formatValidation(os.Stdout, cat)
		return nil
	},
}

func init() {
	catalogTermsCmd.Flags().Bool("json", false, "print terms as JSON")

	catalogCmd.AddCommand(catalogTermsCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	rootCmd.AddCommand(catalogCmd)
}

type catalogTerms struct {
	PayTerms   []int    `json:"pay_terms"`
	Currencies []string `json:"currencies"`
}

func termsBody(cat *catalog.Catalog) catalogTerms {
	body := catalogTerms{PayTerms: cat.PayTerms, Currencies: cat.Currencies}
	if body.PayTerms == nil {
		body.PayTerms = []int{}
	}
	if body.Currencies == nil {
		body.Currencies = []string{}
	}
	return body
}

func formatTerms(out io.Writer, cat *catalog.Catalog) {
	terms := make([]string, len(cat.PayTerms))
	for i, t := range cat.PayTerms {
		terms[i] = strconv.Itoa(t)
	}
	_, _ = fmt.Fprintf(out, "Pay terms:  %s\n", strings.Join(terms, ", "))
	_, _ = fmt.Fprintf(out, "Currencies: %s\n", strings.Join(cat.Currencies, ", "))
}

func formatValidation(out io.Writer, cat *catalog.Catalog) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Source:\t%s\n", cat.Source)
	_, _ = fmt.Fprintf(w, "Products:\t%d\n", len(cat.Products))
	_, _ = fmt.Fprintf(w, "Dropped rows:\t%d\n", cat.Dropped)
	_, _ = fmt.Fprintf(w, "Pay terms:\t%d\n", len(cat.PayTerms))
	_, _ = fmt.Fprintf(w, "Currencies:\t%d\n", len(cat.Currencies))
	_ = w.Flush()
}
