// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/rewardpool/api/admin"
	"github.com/vechain/rewardpool/builtin"
	"github.com/vechain/rewardpool/eventdb"
	"github.com/vechain/rewardpool/genesis"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/metrics"
	"github.com/vechain/rewardpool/thor"
)

const (
	maxClockOffset     = 5 * time.Second
	clockCheckInterval = time.Hour
	requestBodyLimit   = 200 * 1024
)

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("invalid value %d, must be <= %d", val, math.MaxInt)
	}
	return int(val), nil
}

func initLogger(lvl int, jsonLogs bool) *slog.LevelVar {
	level := new(slog.LevelVar)
	level.Set(log.FromLegacyLevel(lvl))

	var handler slog.Handler
	if jsonLogs {
		handler = log.JSONHandlerWithLevel(os.Stdout, level)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return level
}

func loadGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	gene, err := genesis.Load(path)
	if err != nil {
		return nil, errors.WithMessage(err, "--"+genesisFlag.Name)
	}
	return gene, nil
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.vechain.rewardpool")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.rewardpool")
		}
		return filepath.Join(home, ".org.vechain.rewardpool")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// makeInstanceDir returns the directory for the databases built from the given genesis.
func makeInstanceDir(ctx *cli.Context, genesisID thor.Bytes32) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", genesisID[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openMainDB(ctx *cli.Context, instanceDir string) (*lvldb.LevelDB, error) {
	path := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              normalizeCacheSize(ctx.Int(cacheFlag.Name)),
		OpenFilesCacheCapacity: suggestFDCache(),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", path)
	}
	return db, nil
}

func normalizeCacheSize(sizeMB int) int {
	sizeMB = max(sizeMB, 16)

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem", "err", err)
		return sizeMB
	}
	// at most a quarter of physical ram
	if limitMB := int(mem.Total / 1024 / 1024 / 4); sizeMB > limitMB { //#nosec G115
		logger.Warn("cache size(MB) limited", "limit", limitMB)
		sizeMB = limitMB
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("failed to get fd limit", "err", err)
		return 64
	}
	if limit <= 256 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}
	return min(limit/2, 1024)
}

func openEventDB(instanceDir string) (*eventdb.EventDB, error) {
	path := filepath.Join(instanceDir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open event database [%v]", path)
	}
	return db, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

type server struct {
	srv      *http.Server
	listener net.Listener
	url      string
}

func newServer(addr string, handler http.Handler) (*server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen addr [%v]", addr)
	}
	return &server{
		srv:      &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second},
		listener: listener,
		url:      "http://" + listener.Addr().String() + "/",
	}, nil
}

func (s *server) serve() error {
	if err := s.srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) close() {
	s.srv.Close()
	// a server that never started serving does not own its listener yet
	s.listener.Close()
}

func newAPIServer(addr string, handler http.Handler) (*server, error) {
	srv, err := newServer(addr, limitRequestBody(handler))
	if err != nil {
		return nil, errors.WithMessage(err, "API server")
	}
	return srv, nil
}

func newMetricsServer(addr string) (*server, error) {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())

	srv, err := newServer(addr, handlers.CompressHandler(router))
	if err != nil {
		return nil, errors.WithMessage(err, "metrics server")
	}
	return srv, nil
}

func newAdminServer(addr string, logLevel *slog.LevelVar, apiLogsToggle *atomic.Bool) (*server, error) {
	srv, err := newServer(addr, limitRequestBody(admin.New(logLevel, apiLogsToggle)))
	if err != nil {
		return nil, errors.WithMessage(err, "admin server")
	}
	return srv, nil
}

func limitRequestBody(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, requestBodyLimit)
		h.ServeHTTP(w, r)
	})
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset > maxClockOffset || resp.ClockOffset < -maxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

// checkClockOffsetLoop checks the clock at start, then every clockCheckInterval until ctx is done.
func checkClockOffsetLoop(ctx context.Context) {
	ticker := time.NewTicker(clockCheckInterval)
	defer ticker.Stop()
	for {
		checkClockOffset()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func printStartupMessage(gene *genesis.Genesis, genesisID thor.Bytes32, instanceDir, apiURL, metricsURL, adminURL string) {
	printStartupMessageTo(os.Stdout, gene, genesisID, instanceDir, apiURL, metricsURL, adminURL)
}

func printStartupMessageTo(w io.Writer, gene *genesis.Genesis, genesisID thor.Bytes32, instanceDir, apiURL, metricsURL, adminURL string) {
	if metricsURL == "" {
		metricsURL = "Disabled"
	}
	if adminURL == "" {
		adminURL = "Disabled"
	}
	fmt.Fprintf(w, `Starting %v
    Genesis         [ %v ]
    Pool            [ %v ]
    Staking token   [ %v %v ]
    Reward token    [ %v %v ]
    Duration        [ %vs ]
    Instance dir    [ %v ]
    API portal      [ %v ]
    Metrics         [ %v ]
    Admin           [ %v ]
`,
		"RewardPool "+fullVersion(),
		genesisID,
		builtin.Pool.Address,
		gene.Tokens.Staking.Symbol, gene.StakingToken(),
		gene.Tokens.Reward.Symbol, gene.RewardToken(),
		gene.RewardsDuration,
		instanceDir,
		apiURL,
		metricsURL,
		adminURL,
	)
}
