package main

import (
	"fmt"
	"log/slog"

	phalacloud "github.com/Phala-Network/phala-cloud-cli"
)

// session bundles the pieces built once per command invocation: loaded
// config, logger, the optional history sink, and the manager itself.
type session struct {
	mgr    *phalacloud.Manager
	sink   phalacloud.HistorySink
	logger *slog.Logger
}

func newSession(g *GlobalFlags) (*session, error) {
	fc, err := phalacloud.LoadConfig(g.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if g.Verbose && fc.Log.Level == "" {
		fc.Log.Level = "debug"
	}
	lg := fc.Log.New()

	var sink phalacloud.HistorySink
	if fc.HistoryDSN != "" {
		sink, err = phalacloud.NewHistorySink(fc.HistoryDSN)
		if err != nil {
			return nil, fmt.Errorf("open history sink: %w", err)
		}
	}

	mgr, err := phalacloud.NewManager(phalacloud.ManagerConfig{
		Root:         fc.InstallRoot,
		Version:      fc.Version,
		DownloadBase: fc.DownloadBase,
		PIDFile:      fc.PIDFile,
		LogFile:      fc.LogFile,
		ProbeTimeout: fc.ProbeTimeout,
		Logger:       lg,
		History:      sink,
	})
	if err != nil {
		if sink != nil {
			_ = sink.Close()
		}
		return nil, err
	}
	return &session{mgr: mgr, sink: sink, logger: lg}, nil
}

func (s *session) close() {
	if s.sink != nil {
		_ = s.sink.Close()
	}
}
