package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prsolans/agreement-mapper/internal/export"
)

var (
	researchCompany string
	researchOut     string
	researchXLSX    string
	researchNoSave  bool
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Run full research for one company",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if cfg.Research.RunTimeoutSecs > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Research.RunTimeoutSecs)*time.Second)
			defer cancel()
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		go drainProgress(env.Progress)

		report, err := env.Pipeline.Run(ctx, researchCompany)
		close(env.Progress)
		if err != nil {
			return eris.Wrapf(err, "research %s", researchCompany)
		}

		if !researchNoSave {
			if !env.Store.IsConfigured() {
				zap.L().Warn("store not usable; report not persisted")
			} else {
				id, err := env.Store.Save(ctx, report)
				if err != nil {
					return eris.Wrap(err, "save report")
				}
				zap.L().Info("report saved", zap.String("id", id))
			}
		}

		raw, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal report")
		}

		if researchOut != "" {
			if err := os.WriteFile(researchOut, raw, 0o644); err != nil {
				return eris.Wrapf(err, "write %s", researchOut)
			}
			zap.L().Info("report written", zap.String("path", researchOut))
		} else {
			fmt.Println(string(raw))
		}

		if researchXLSX != "" {
			workbook, err := export.Workbook(report)
			if err != nil {
				return eris.Wrap(err, "export workbook")
			}
			if err := os.WriteFile(researchXLSX, workbook, 0o644); err != nil {
				return eris.Wrapf(err, "write %s", researchXLSX)
			}
			zap.L().Info("workbook written", zap.String("path", researchXLSX))
		}

		return nil
	},
}

func init() {
	researchCmd.Flags().StringVar(&researchCompany, "company", "", "company name to research (required)")
	researchCmd.Flags().StringVar(&researchOut, "out", "", "write report JSON to file instead of stdout")
	researchCmd.Flags().StringVar(&researchXLSX, "xlsx", "", "also write an XLSX workbook to this path")
	researchCmd.Flags().BoolVar(&researchNoSave, "no-save", false, "skip persisting the report to the store")
	researchCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(researchCmd)
}
