package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"caseclient/category"
	"caseclient/internal/config"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Print the loaded document-category taxonomy",
	RunE: func(cmd *cobra.Command, args []string) error {
		tax, err := loadTaxonomy(config.Load())
		if err != nil {
			return err
		}

		fmt.Printf("taxonomy version %d\n", tax.Version())
		for _, c := range tax.All() {
			var kinds []string
			for _, k := range []category.Kind{category.KindCompany, category.KindPerson, category.KindLoan} {
				if c.Allows(k) {
					kinds = append(kinds, k.String())
				}
			}
			fmt.Printf("%3d  %-20s %s\n", c.ID, c.Name, strings.Join(kinds, ", "))
		}
		return nil
	},
}

// loadTaxonomy returns the embedded taxonomy unless the environment points
// at an override file.
func loadTaxonomy(cfg *config.AppConfig) (*category.Taxonomy, error) {
	if cfg.TaxonomyFile == "" {
		return category.Default(), nil
	}
	return category.LoadFile(cfg.TaxonomyFile)
}
