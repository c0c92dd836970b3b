// mtml-exporter serves Prometheus metrics for MT devices, querying the
// MTML library freshly on every scrape.
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/gomtml/gomtml/mtml"
)

var (
	flagListenAddress string
	flagMetricsPath   string
)

func main() {
	klog.InitFlags(nil)
	rootCmd := &cobra.Command{
		Use:          "mtml-exporter",
		Short:        "Prometheus exporter for MT GPU metrics via MTML",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	rootCmd.Flags().StringVar(&flagListenAddress, "listen-address", ":9114", "Address to serve metrics on.")
	rootCmd.Flags().StringVar(&flagMetricsPath, "metrics-path", "/metrics", "HTTP path of the metrics endpoint.")
	rootCmd.Flags().AddGoFlagSet(flag.CommandLine)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	if err := mtml.Init(); err != nil {
		return errors.WithMessage(err, "failed to initialize MTML")
	}
	defer func() {
		if err := mtml.Shutdown(); err != nil {
			klog.Errorf("Failed to shut MTML down: %v", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(newCollector())

	mux := http.NewServeMux()
	mux.Handle(flagMetricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	klog.Infof("Serving metrics on %s%s", flagListenAddress, flagMetricsPath)
	if err := http.ListenAndServe(flagListenAddress, mux); err != nil {
		return errors.WithMessagef(err, "failed to serve metrics on %s", flagListenAddress)
	}
	return nil
}
