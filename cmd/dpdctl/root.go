package main

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	dpd "github.com/tlow22/dpd-client"
)

var rootCmd = &cobra.Command{
	Use:           "dpdctl",
	Short:         "Query the Health Canada Drug Product Database API",
	Version:       dpd.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("base-url", dpd.DefaultBaseURL, "API base URL")
	flags.String("lang", "en", "language: en or fr")
	flags.Duration("timeout", 15*time.Second, "request timeout")
	flags.Int("retries", 3, "max retry attempts for transient failures")
	flags.Duration("cache-ttl", 0, "cache results for this long (0 disables)")
	flags.Bool("pretty", true, "pretty print JSON output")
	flags.Bool("debug", false, "log request/retry/cache activity to stderr")

	// DPD_BASE_URL, DPD_LANG, DPD_TIMEOUT, ... override flag defaults.
	viper.SetEnvPrefix("DPD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(flags)
}

// newClient builds a client from the resolved flag/env configuration.
func newClient() *dpd.Client {
	opts := []dpd.Option{
		dpd.WithBaseURL(viper.GetString("base-url")),
		dpd.WithLang(viper.GetString("lang")),
		dpd.WithTimeout(viper.GetDuration("timeout")),
		dpd.WithMaxRetries(viper.GetInt("retries")),
		dpd.WithUserAgent("dpdctl/" + dpd.Version),
	}
	if ttl := viper.GetDuration("cache-ttl"); ttl > 0 {
		opts = append(opts, dpd.WithCache(ttl))
	}
	if viper.GetBool("debug") {
		opts = append(opts, dpd.WithDebug())
	}
	return dpd.New(opts...)
}

// printRecords writes the result set as JSON to stdout.
func printRecords(records []dpd.Record) error {
	enc := json.NewEncoder(os.Stdout)
	if viper.GetBool("pretty") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(records)
}

// run wraps a resource call with client setup and teardown.
func run(fn func(c *dpd.Client) ([]dpd.Record, error)) error {
	client := newClient()
	defer client.Close()

	records, err := fn(client)
	if err != nil {
		return err
	}
	return printRecords(records)
}
