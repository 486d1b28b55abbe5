// Package config parses the small set of flags archer needs: listener
// ports, the data directory, and the debug bind mode. Everything else is an
// external collaborator's concern, not this program's.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
)

// Config holds every runtime-tunable setting for a single archer process.
type Config struct {
	// DataDir hosts db.sqlite3 and quiver/{cert.pem,key.pem}.
	DataDir string

	AgentUDPPort       int
	AgentBinaryUDPPort int
	CollectorHTTPPort  int
	CollectorGRPCPort  int
	OTLPGRPCPort       int
	OTLPHTTPPort       int
	QueryHTTPPort      int
	QuiverPort         int

	// Debug binds every listener to loopback only instead of 0.0.0.0.
	Debug bool
}

// Default mirrors the well-known Jaeger agent/collector ports plus archer's
// own query and Quiver ports.
func Default() Config {
	return Config{
		DataDir:            defaultDataDir(),
		AgentUDPPort:       6831,
		AgentBinaryUDPPort: 6832,
		CollectorHTTPPort:  14268,
		CollectorGRPCPort:  14250,
		OTLPGRPCPort:       4317,
		OTLPHTTPPort:       4318,
		QueryHTTPPort:      16686,
		QuiverPort:         14000,
		Debug:              false,
	}
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "archer")
	}
	return "archer-data"
}

// Parse builds a Config from command-line arguments (typically
// os.Args[1:]), starting from Default and overriding with any flags
// present in args.
func Parse(args []string) (Config, error) {
	cfg := Default()

	fs := pflag.NewFlagSet("archer", pflag.ContinueOnError)
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory holding db.sqlite3 and quiver/ certificates")
	fs.IntVar(&cfg.AgentUDPPort, "agent-port", cfg.AgentUDPPort, "UDP port for the Jaeger agent compact-thrift listener")
	fs.IntVar(&cfg.AgentBinaryUDPPort, "agent-binary-port", cfg.AgentBinaryUDPPort, "UDP port for the Jaeger agent binary-thrift listener")
	fs.IntVar(&cfg.CollectorHTTPPort, "collector-http-port", cfg.CollectorHTTPPort, "TCP port for the Jaeger collector HTTP listener")
	fs.IntVar(&cfg.CollectorGRPCPort, "collector-grpc-port", cfg.CollectorGRPCPort, "TCP port for the Jaeger collector gRPC listener")
	fs.IntVar(&cfg.OTLPGRPCPort, "otlp-grpc-port", cfg.OTLPGRPCPort, "TCP port for the OTLP gRPC collector")
	fs.IntVar(&cfg.OTLPHTTPPort, "otlp-http-port", cfg.OTLPHTTPPort, "TCP port for the OTLP HTTP collector")
	fs.IntVar(&cfg.QueryHTTPPort, "query-port", cfg.QueryHTTPPort, "TCP port for the query HTTP API and UI")
	fs.IntVar(&cfg.QuiverPort, "quiver-port", cfg.QuiverPort, "UDP port for the Quiver QUIC listener")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "bind all listeners to loopback only")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BindHost returns the host portion of every listener address: loopback in
// debug mode, all interfaces otherwise.
func (c Config) BindHost() string {
	if c.Debug {
		return "127.0.0.1"
	}
	return "0.0.0.0"
}

func (c Config) addr(port int) string {
	return fmt.Sprintf("%s:%d", c.BindHost(), port)
}

func (c Config) AgentUDPAddr() string       { return c.addr(c.AgentUDPPort) }
func (c Config) AgentBinaryUDPAddr() string { return c.addr(c.AgentBinaryUDPPort) }
func (c Config) CollectorHTTPAddr() string { return c.addr(c.CollectorHTTPPort) }
func (c Config) CollectorGRPCAddr() string { return c.addr(c.CollectorGRPCPort) }
func (c Config) OTLPGRPCAddr() string      { return c.addr(c.OTLPGRPCPort) }
func (c Config) OTLPHTTPAddr() string      { return c.addr(c.OTLPHTTPPort) }
func (c Config) QueryHTTPAddr() string     { return c.addr(c.QueryHTTPPort) }
func (c Config) QuiverAddr() string        { return c.addr(c.QuiverPort) }

// SQLitePath is the path to the single storage file under DataDir.
func (c Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "db.sqlite3")
}

// QuiverCertDir is the directory holding the Quiver listener's bootstrap
// TLS certificate and key.
func (c Config) QuiverCertDir() string {
	return filepath.Join(c.DataDir, "quiver")
}
