// Command cdpjsdebugger runs the CDP-to-V4 debugger adapter: an HTTP
// discovery surface plus a WebSocket endpoint that translates Chrome
// DevTools Protocol requests into the embedded engine's native V4
// debugging vocabulary.
package main

import (
	"fmt"
	"os"

	"github.com/evermind-zz/V4ToCdpDebugger/internal/adapter"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/config"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/logflags"
	"github.com/evermind-zz/V4ToCdpDebugger/internal/v4engine"
	"github.com/spf13/cobra"
)

var (
	listenAddr   string
	frontendName string
	logEnabled   bool
	logOutput    string
	configPath   string
)

func main() {
	root := &cobra.Command{
		Use:   "cdpjsdebugger",
		Short: "Exposes an embedded JS engine's V4 debugging agent as a Chrome DevTools Protocol endpoint.",
		RunE:  runAdapter,
	}
	root.Flags().StringVarP(&listenAddr, "listen", "l", "", "HTTP/WebSocket listen address (overrides config file).")
	root.Flags().StringVar(&frontendName, "frontend-name", "", "Frontend identity used in discovery URLs and target ids (overrides config file).")
	root.Flags().BoolVar(&logEnabled, "log", false, "Enable adapter logging.")
	root.Flags().StringVar(&logOutput, "log-output", "", "Comma separated list of components whose log flag is enabled (mapper, bridge, wsserver, discovery, engine); the adapter is given only the wsserver logger, which every component shares.")
	root.Flags().StringVar(&configPath, "config", "", "Path to a YAML adapter config file (defaults to ~/.cdpjsdebugger/config.yml).")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the adapter version.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("cdpjsdebugger 0.1.0")
		},
	}
	root.AddCommand(versionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAdapter(cmd *cobra.Command, args []string) error {
	conf := config.LoadConfigFrom(configPath)
	if listenAddr != "" {
		conf.ListenAddr = listenAddr
	}
	if frontendName != "" {
		conf.FrontendName = frontendName
	}
	if logEnabled {
		conf.Log = true
	}
	if logOutput != "" {
		conf.LogOutput = logOutput
	}

	if err := logflags.Setup(conf.Log, conf.LogOutput, os.Stderr); err != nil {
		return err
	}

	srv := adapter.NewServer(adapter.Config{
		ListenAddr:   conf.ListenAddr,
		FrontendName: conf.FrontendName,
		Log:          logflags.WSServerLogger(),
	}, []v4engine.Script{})

	fmt.Printf("listening on %s (frontend %q)\n", conf.ListenAddr, conf.FrontendName)
	return srv.Run()
}
