package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"caseclient"
	"caseclient/internal/config"
	"caseclient/internal/otel"
	"caseclient/model"
	"caseclient/transport"
)

var submitCmd = &cobra.Command{
	Use:   "submit <manifest.yaml>",
	Short: "Submit the loan application described by a manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		shutdown, err := otel.Init(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()

		tax, err := loadTaxonomy(cfg)
		if err != nil {
			return err
		}

		m, err := readManifest(args[0])
		if err != nil {
			return err
		}

		primary, err := buildCompany(tax, m.Primary)
		if err != nil {
			return err
		}
		loan, err := buildLoan(tax, m.Loan)
		if err != nil {
			return err
		}

		var applicants []model.Applicant
		for _, pm := range m.Applicants.Persons {
			p, err := buildPerson(tax, pm)
			if err != nil {
				return err
			}
			applicants = append(applicants, p)
		}
		for _, cm := range m.Applicants.Companies {
			co, err := buildCompany(tax, cm)
			if err != nil {
				return err
			}
			applicants = append(applicants, co)
		}

		client, err := newClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		casePK, err := client.SubmitApplication(cmd.Context(), primary, loan, applicants)
		if err != nil {
			return err
		}

		fmt.Printf("case created: CasePK=%d\n", casePK)
		return nil
	},
}

func newClient(ctx context.Context, cfg *config.AppConfig) (*caseclient.Client, error) {
	opts := []transport.Option{
		transport.WithTimeout(time.Duration(cfg.CRM.TimeoutSec) * time.Second),
	}
	if cfg.LogRequests {
		opts = append(opts, transport.WithLogWriter(os.Stdout))
	}
	if metrics, err := transport.NewMetrics(prometheus.DefaultRegisterer); err == nil {
		opts = append(opts, transport.WithMetrics(metrics))
	}
	rt := transport.NewHTTP(opts...)

	ccfg := caseclient.Config{
		APIBaseURL:   cfg.CRM.APIBaseURL,
		AuthEndpoint: cfg.CRM.AuthEndpoint,
	}

	if cfg.CRM.Token != "" {
		return caseclient.NewFromToken(ccfg, rt, cfg.CRM.Token)
	}
	if cfg.CRM.ClientID == "" || cfg.CRM.ClientSecret == "" {
		return nil, errors.New("set CRM_TOKEN, or CRM_CLIENT_ID and CRM_CLIENT_SECRET")
	}
	return caseclient.NewFromCredentials(ctx, ccfg, rt, cfg.CRM.ClientID, cfg.CRM.ClientSecret)
}
