package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	phalacloud "github.com/Phala-Network/phala-cloud-cli"
	"github.com/Phala-Network/phala-cloud-cli/internal/envvars"
)

func buildRoot() *cobra.Command {
	g := &GlobalFlags{}
	root := &cobra.Command{
		Use:           "phala",
		Short:         "Phala Cloud developer CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.ConfigPath, "config", "c", "", "path to TOML config file")
	root.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newSimulatorCmd(g))
	return root
}

func newSimulatorCmd(g *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulator",
		Short: "Manage the local TEE simulator",
	}
	cmd.AddCommand(newInstallCmd(g), newStartCmd(g), newStopCmd(g), newStatusCmd(g))
	return cmd
}

func newInstallCmd(g *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Download and install the simulator binary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(g)
			if err != nil {
				return err
			}
			defer s.close()
			if s.mgr.Installed() {
				cmd.Printf("Simulator already installed in %s\n", s.mgr.InstallDir())
				return nil
			}
			if err := s.mgr.Install(cmd.Context()); err != nil {
				return err
			}
			cmd.Printf("Simulator installed in %s\n", s.mgr.InstallDir())
			return nil
		},
	}
}

func newStartCmd(g *GlobalFlags) *cobra.Command {
	f := StartFlags{}
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Install if needed and start the simulator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(g)
			if err != nil {
				return err
			}
			defer s.close()

			endpoint, err := s.mgr.EnsureRunning(cmd.Context(), phalacloud.Options{
				Background: f.Background,
				LogToFile:  f.LogToFile,
				LogFile:    f.LogFile,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Simulator endpoint: %s\n", endpoint)
			cmd.Println("To use it from your shell, run:")
			if err := envvars.Publish(cmd.OutOrStdout(), endpoint); err != nil {
				return err
			}

			if f.MetricsListen != "" {
				return serveMetrics(cmd, f.MetricsListen)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&f.Background, "background", true, "detach and return immediately")
	cmd.Flags().BoolVar(&f.LogToFile, "log-to-file", true, "append simulator output to the session log")
	cmd.Flags().StringVar(&f.LogFile, "log-file", "", "override the session log path")
	cmd.Flags().StringVar(&f.MetricsListen, "metrics-listen", "", "serve Prometheus metrics on this address and block")
	return cmd
}

// serveMetrics blocks serving /metrics; used when the operator wants a
// scrape target alongside the running simulator.
func serveMetrics(cmd *cobra.Command, addr string) error {
	if err := phalacloud.RegisterMetricsDefault(); err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", phalacloud.MetricsHandler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	cmd.Printf("Serving metrics on %s\n", addr)
	return srv.ListenAndServe()
}

func newStopCmd(g *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running simulator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(g)
			if err != nil {
				return err
			}
			defer s.close()
			if err := s.mgr.Stop(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Simulator stopped")
			return nil
		},
	}
}

func newStatusCmd(g *GlobalFlags) *cobra.Command {
	f := StatusFlags{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report install state and liveness",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(g)
			if err != nil {
				return err
			}
			defer s.close()
			st := s.mgr.Snapshot()
			if f.JSON {
				return printJSON(cmd, st)
			}
			cmd.Printf("Version:   %s\n", st.Version)
			cmd.Printf("Installed: %v\n", st.Installed)
			cmd.Printf("Running:   %v\n", st.Running)
			if st.PID != 0 {
				cmd.Printf("PID:       %d\n", st.PID)
			}
			cmd.Printf("Endpoint:  %s\n", st.Endpoint)
			return nil
		},
	}
	cmd.Flags().BoolVar(&f.JSON, "json", false, "print status as JSON")
	return cmd
}
