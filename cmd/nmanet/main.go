// Command nmanet assembles an evidence network for network meta-analysis from
// CSV datasets described by a YAML manifest, and prints a summary of the
// resulting network.
//
// Usage:
//
//	nmanet -manifest bindings.yaml
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/evidnet/nmanet/pkg/logging"
	"github.com/evidnet/nmanet/pkg/metrics"
	"github.com/evidnet/nmanet/pkg/network"
)

func main() {
	manifestPath := flag.String("manifest", "", "YAML manifest binding CSV datasets to column roles")
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	if *manifestPath == "" {
		fmt.Fprintln(os.Stderr, "usage: nmanet -manifest bindings.yaml")
		os.Exit(2)
	}

	log := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(*logLevel))
	reg := metrics.NewRegistry(prometheus.NewRegistry())

	if err := run(*manifestPath, log, reg); err != nil {
		log.Error("network construction failed", logging.Err(err))
		fmt.Fprintf(os.Stderr, "nmanet: %v\n", err)
		os.Exit(1)
	}
}

func run(manifestPath string, log logging.Logger, reg *metrics.Registry) error {
	m, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}
	base := filepath.Dir(manifestPath)

	fragments := make([]*network.Network, 0, len(m.Datasets))
	for i, d := range m.Datasets {
		file := d.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(base, file)
		}
		data, err := loadCSV(file)
		if err != nil {
			return err
		}

		opts := []network.Option{network.WithLogger(log), network.WithMetrics(reg)}
		if d.TrtRef != "" {
			opts = append(opts, network.WithTrtRef(d.TrtRef))
		}

		var frag *network.Network
		switch d.Kind {
		case "individual":
			frag, err = network.NewIPDNetwork(data, d.Columns.bindings(), opts...)
		case "arm":
			frag, err = network.NewArmNetwork(data, d.Columns.bindings(), opts...)
		case "contrast":
			frag, err = network.NewContrastNetwork(data, d.Columns.bindings(), opts...)
		}
		if err != nil {
			return fmt.Errorf("dataset %d (%s): %w", i, d.File, err)
		}
		fragments = append(fragments, frag)
	}

	net := fragments[0]
	if len(fragments) > 1 || m.TrtRef != "" {
		opts := []network.Option{network.WithLogger(log), network.WithMetrics(reg)}
		if m.TrtRef != "" {
			opts = append(opts, network.WithTrtRef(m.TrtRef))
		}
		net, err = network.Combine(fragments, opts...)
		if err != nil {
			return err
		}
	}

	fmt.Print(net.Summary())
	return nil
}
