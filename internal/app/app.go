// Package app wires the simulation core to its transport, logger and
// configuration and runs the fixed-rate tick loop.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/stevepryde/rustonator/internal/config"
	"github.com/stevepryde/rustonator/internal/game"
	"github.com/stevepryde/rustonator/internal/net/ws"
	"github.com/stevepryde/rustonator/internal/telemetry"
)

// Run loads configuration, builds the client and drives it until the
// context is cancelled.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, sync, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer sync()

	// One id per session so log lines from overlapping sessions in tests or
	// bots stay distinguishable.
	log := logger.With("session", uuid.NewString()[:8])
	counters := telemetry.NewCounters()

	g := game.New(game.Config{
		Name:           cfg.Name,
		TickRate:       cfg.TickRate,
		AlignTolerance: cfg.AlignTolerance,
		PingInterval:   cfg.PingInterval(),
	}, nil, nil, counters, log)

	g.SetConnectHandler(func() {
		go func() {
			conn, err := ws.Dial(ctx, cfg.ServerURL, ws.Callbacks{
				OnMessage: g.OnSocketMessage,
				OnClose:   g.OnSocketClose,
			}, log)
			if err != nil {
				g.ConnectFailed(err)
				return
			}
			g.SocketConnected(conn)
		}()
	})

	if err := g.Start(); err != nil {
		return fmt.Errorf("start game: %w", err)
	}

	tick := time.Second / time.Duration(cfg.TickRate)
	deltaTime := tick.Seconds()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	log.Infow("client running", "server", cfg.ServerURL, "tickRate", cfg.TickRate)
	for {
		select {
		case <-ctx.Done():
			log.Infow("shutting down", "telemetry", counters.Snapshot())
			return nil
		case <-ticker.C:
			g.Tick(deltaTime)
		}
	}
}

// buildLogger assembles the zap logger: console on stderr, plus a rotated
// file sink when configured.
func buildLogger(cfg config.Config) (*zap.SugaredLogger, func(), error) {
	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stderr), level),
	}
	if cfg.LogFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotated), level))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	return logger.Sugar(), func() { _ = logger.Sync() }, nil
}
