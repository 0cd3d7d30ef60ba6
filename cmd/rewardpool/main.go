// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/rewardpool/api"
	"github.com/vechain/rewardpool/eventdb"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/metrics"
	"github.com/vechain/rewardpool/runtime"
	"github.com/vechain/rewardpool/state"
)

var (
	version       string
	gitCommit     string
	gitTag        string
	copyrightYear string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "RewardPool",
		Usage:     "Staking rewards pool with a REST API",
		Copyright: fmt.Sprintf("2018-%s VeChain Foundation <https://vechain.org/>", copyrightYear),
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			apiPprofFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			ntpCheckFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse verbosity flag")
	}
	logLevel := initLogger(lvl, ctx.Bool(jsonLogsFlag.Name))

	gene, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	genesisID, err := gene.ID()
	if err != nil {
		return err
	}

	var (
		mainDB      *lvldb.LevelDB
		eventDB     *eventdb.EventDB
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		if instanceDir, err = makeInstanceDir(ctx, genesisID); err != nil {
			return err
		}
		if mainDB, err = openMainDB(ctx, instanceDir); err != nil {
			return err
		}
		if eventDB, err = openEventDB(instanceDir); err != nil {
			mainDB.Close()
			return err
		}
	} else {
		instanceDir = "Memory"
		if mainDB, err = lvldb.NewMem(); err != nil {
			return err
		}
		if eventDB, err = eventdb.NewMem(); err != nil {
			mainDB.Close()
			return err
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	st := state.New(state.StoreBucket.NewStore(mainDB))
	applied, err := gene.Build(st)
	if err != nil {
		return err
	}
	if applied {
		if err := st.Commit(); err != nil {
			return errors.Wrap(err, "commit genesis")
		}
	}

	lastSeq, err := eventDB.LastSeq()
	if err != nil {
		return err
	}
	rt := runtime.New(st, runtime.SystemClock, eventDB, lastSeq)
	defer rt.Close()

	var metricsURL string
	var metricsSrv *server
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		if metricsSrv, err = newMetricsServer(ctx.String(metricsAddrFlag.Name)); err != nil {
			return err
		}
		metricsURL = metricsSrv.url + "metrics"
	}

	apiLogsToggle := &atomic.Bool{}
	apiLogsToggle.Store(ctx.Bool(enableAPILogsFlag.Name))
	handler, closeAPI := api.New(rt, eventDB, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(apiPprofFlag.Name),
		EnableReqLogger:      apiLogsToggle,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
	})
	apiSrv, err := newAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		closeAPI()
		if metricsSrv != nil {
			metricsSrv.close()
		}
		return err
	}

	var adminURL string
	var adminSrv *server
	if ctx.Bool(enableAdminFlag.Name) {
		if adminSrv, err = newAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogsToggle); err != nil {
			closeAPI()
			apiSrv.close()
			if metricsSrv != nil {
				metricsSrv.close()
			}
			return err
		}
		adminURL = adminSrv.url + "admin"
	}

	printStartupMessage(gene, genesisID, instanceDir, apiSrv.url, metricsURL, adminURL)

	group, groupCtx := errgroup.WithContext(exitSignal)
	group.Go(apiSrv.serve)
	if metricsSrv != nil {
		group.Go(metricsSrv.serve)
	}
	if adminSrv != nil {
		group.Go(adminSrv.serve)
	}
	if ctx.Bool(ntpCheckFlag.Name) {
		group.Go(func() error {
			checkClockOffsetLoop(groupCtx)
			return nil
		})
	}
	group.Go(func() error {
		<-groupCtx.Done()
		// subscriptions hold hijacked conns, which the server does not track
		closeAPI()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("stopping API server...")
		if err := apiSrv.srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("failed to stop API server", "err", err)
		}
		if metricsSrv != nil {
			metricsSrv.close()
		}
		if adminSrv != nil {
			adminSrv.close()
		}
		return nil
	})
	return group.Wait()
}
