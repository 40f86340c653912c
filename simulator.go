package phalacloud

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	cfg "github.com/Phala-Network/phala-cloud-cli/internal/config"
	"github.com/Phala-Network/phala-cloud-cli/internal/envvars"
	"github.com/Phala-Network/phala-cloud-cli/internal/history"
	histsqlite "github.com/Phala-Network/phala-cloud-cli/internal/history/sqlite"
	"github.com/Phala-Network/phala-cloud-cli/internal/metrics"
	"github.com/Phala-Network/phala-cloud-cli/internal/platform"
	"github.com/Phala-Network/phala-cloud-cli/internal/simulator"
)

// Re-export core types for external consumers. These are aliases so
// conversions are zero-cost.

type (
	Manager       = simulator.Manager
	ManagerConfig = simulator.Config
	Options       = simulator.Options
	Status        = simulator.Status
	Strategy      = platform.Strategy
	HistorySink   = history.Sink
	FileConfig    = cfg.Config
)

// Lifecycle error taxonomy, re-exported for errors.Is checks at the CLI
// boundary.
var (
	ErrUnsupportedPlatform = platform.ErrUnsupported
	ErrAlreadyRunning      = simulator.ErrAlreadyRunning
	ErrPathTooLong         = simulator.ErrPathTooLong
	ErrStopFailed          = simulator.ErrStopFailed
)

// NewManager builds a simulator lifecycle manager. A zero config resolves
// the running platform and the conventional ~/.phala-cloud layout.
func NewManager(c ManagerConfig) (*Manager, error) { return simulator.New(c) }

// LoadConfig reads the manager's TOML config file; empty path is defaults.
func LoadConfig(path string) (FileConfig, error) { return cfg.Load(path) }

// NewHistorySink opens the sqlite lifecycle audit sink for dsn.
func NewHistorySink(dsn string) (HistorySink, error) { return histsqlite.New(dsn) }

// Published endpoint environment variables.
const (
	EndpointVar = envvars.EndpointVar
	AliasVar    = envvars.AliasVar
)

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// MetricsHandler exposes the default registry for scraping.
func MetricsHandler() http.Handler { return metrics.Handler() }
