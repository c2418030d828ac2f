// l0c compiles L0 terms into WAM instructions.
//
//	l0c query 'p(Z, h(Z, W), f(W))'
//	l0c program 'p(f(X), h(Y, f(a)), Y)'
//	l0c run 'p(Z, h(Z, W), f(W))' 'p(f(X), h(Y, f(a)), Y)'
//	l0c repl
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "l0c",
	Short:         "A compiler of L0 terms into WAM instructions.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetLevel(log.WarnLevel)
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		if getFlag(cmd, "trace") {
			log.SetLevel(log.TraceLevel)
		}
		_, err := getFormat(cmd)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log every compilation")
	rootCmd.PersistentFlags().Bool("trace", false, "log every executed instruction")
	rootCmd.PersistentFlags().Bool("color", false, "use ANSI colors in the output")
	rootCmd.PersistentFlags().String("format", "text", "instruction format: 'text' resolves names, 'ids' shows symbol ids")
	rootCmd.AddCommand(queryCmd, programCmd, runCmd, replCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
