package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/maplepay/paycan/internal/calculation"
	"github.com/maplepay/paycan/internal/config"
	"github.com/maplepay/paycan/internal/domain"
	"github.com/maplepay/paycan/internal/output"
	"github.com/maplepay/paycan/internal/taxparams"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "paycan",
	Short: "Canadian payroll deduction calculator",
	Long:  "Computes CPP, EI, and federal/provincial income tax deductions per the CRA T4127 formulas",
}

func loadParams(cmd *cobra.Command) *taxparams.TaxYearParameters {
	paramsFile, _ := cmd.Flags().GetString("params")
	if paramsFile != "" {
		params, err := taxparams.LoadFile(paramsFile)
		if err != nil {
			log.Fatal(err)
		}
		return params
	}
	params, err := taxparams.Default()
	if err != nil {
		log.Fatal(err)
	}
	return params
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [input-file]",
	Short: "Run payroll deductions for every employee in an input file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parser := config.NewInputParser()
		run, err := parser.LoadFromFile(args[0])
		if err != nil {
			log.Fatal(err)
		}

		engine := calculation.NewPayrollEngine(loadParams(cmd))
		outcomes := engine.CalculateRun(run.Records())
		totals := calculation.Totals(outcomes)

		outputFormat, _ := cmd.Flags().GetString("format")
		f := output.GetFormatterByName(outputFormat)
		if f == nil {
			log.Fatalf("unsupported format: %s", outputFormat)
		}
		data, err := f.Format(outcomes, totals)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(string(data))

		if totals.Failed > 0 {
			os.Exit(1)
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a pay-run input file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parser := config.NewInputParser()
		if _, err := parser.LoadFromFile(args[0]); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Pay-run file %s is valid\n", args[0])
	},
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the tax parameters resolved for a pay date",
	Run: func(cmd *cobra.Command, args []string) {
		params := loadParams(cmd)

		dateStr, _ := cmd.Flags().GetString("date")
		payDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			log.Fatalf("invalid --date: %v", err)
		}
		edition, err := params.ResolveEdition(payDate)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Edition:              %s (effective %s)\n", edition.Name, edition.EffectiveDate.Format("2006-01-02"))
		fmt.Printf("Federal BPA:          %s\n", output.FormatCurrency(edition.Federal.BasicPersonalAmount))
		fmt.Printf("Federal lowest rate:  %s%%\n", edition.Federal.LowestRate().Mul(hundred()).StringFixed(2))
		fmt.Printf("CPP YMPE / YAMPE:     %s / %s\n", output.FormatCurrency(edition.CPP.YMPE), output.FormatCurrency(edition.CPP.YAMPE))
		fmt.Printf("CPP max base / CPP2:  %s / %s\n", output.FormatCurrency(edition.CPP.MaxBaseContribution()), output.FormatCurrency(edition.CPP.MaxAdditionalContribution()))
		fmt.Printf("EI MIE / max premium: %s / %s\n", output.FormatCurrency(edition.EI.MaxInsurableEarnings), output.FormatCurrency(edition.EI.MaxAnnualPremium()))

		jurStr, _ := cmd.Flags().GetString("jurisdiction")
		if jurStr == "" {
			return
		}
		jp, err := edition.Jurisdiction(domain.Jurisdiction(jurStr))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("\n%s basic personal amount: %s\n", jurStr, output.FormatCurrency(jp.BasicPersonalAmount))
		fmt.Printf("%s brackets:\n", jurStr)
		for _, b := range jp.Brackets {
			fmt.Printf("  over %s at %s%%\n", output.FormatCurrency(b.Threshold), b.Rate.Mul(hundred()).StringFixed(2))
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "paycan %s (commit %s, built %s)\n", version, commit, date)
		if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
			fmt.Fprintln(os.Stdout, bi.Main.Path)
		}
	},
}

func hundred() decimal.Decimal { return decimal.NewFromInt(100) }

func main() {
	rootCmd.PersistentFlags().String("params", "", "tax parameter file (defaults to the bundled tables)")
	calculateCmd.Flags().String("format", "console", "output format (console, json)")
	paramsCmd.Flags().String("date", time.Now().Format("2006-01-02"), "pay date to resolve")
	paramsCmd.Flags().String("jurisdiction", "", "province/territory code to detail")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(paramsCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
