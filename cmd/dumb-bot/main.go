package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"blackjack-server/internal/bot"
	"blackjack-server/internal/config"
	"blackjack-server/internal/game"
	"blackjack-server/internal/logging"
	"blackjack-server/internal/protocol"

	"github.com/rs/zerolog/log"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("bot stopped")
	}
}

type client struct {
	conn net.Conn
	r    *bufio.Reader
}

func dial(ctx context.Context, addr string) (*client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &client{conn: conn, r: bufio.NewReader(conn)}, nil
}

func (c *client) send(parts ...string) error {
	req := protocol.Request{Verb: parts[0], Args: parts[1:]}
	return protocol.WriteFrame(c.conn, req.Encode())
}

func (c *client) ask(parts ...string) (string, error) {
	if err := c.send(parts...); err != nil {
		return "", err
	}
	return protocol.ReadFrame(c.r)
}

func parsePolicy(s string) game.Policy {
	if s == "simple" {
		return game.PolicySimple
	}
	return game.PolicyAdvanced
}

func run(ctx context.Context, cfg config.BotConfig) error {
	c, err := dial(ctx, cfg.ServerAddr)
	if err != nil {
		return err
	}
	defer c.conn.Close()
	logger := log.With().Str("user", cfg.User).Str("room", cfg.Room).Logger()

	if cfg.Register {
		dup, err := c.ask(protocol.VerbDupUser, cfg.User)
		if err != nil {
			return err
		}
		if dup == "false" {
			if err := c.send(protocol.VerbRegister, cfg.User, cfg.Password); err != nil {
				return err
			}
			logger.Info().Msg("bot_registered")
		}
	}
	who, err := c.ask(protocol.VerbAuth, cfg.User, cfg.Password)
	if err != nil {
		return err
	}
	if who != cfg.User {
		return fmt.Errorf("auth rejected for %s", cfg.User)
	}
	defer func() {
		_ = c.send(protocol.VerbLeaveTable, cfg.Room, cfg.User)
		_ = c.send(protocol.VerbLogout, cfg.User)
	}()

	if err := joinAndStart(c, cfg); err != nil {
		return err
	}
	seat, err := c.ask(protocol.VerbInitializeGame, cfg.Room, cfg.User)
	if err != nil {
		return err
	}
	logger.Info().Str("seat", seat).Msg("bot_seated")

	policy := parsePolicy(cfg.Policy)
	staked := false
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		reply, err := c.ask(protocol.VerbGameState, cfg.Room, cfg.User)
		if err != nil {
			return err
		}
		st, err := protocol.DecodeState(reply)
		if err != nil {
			logger.Warn().Err(err).Str("reply", reply).Msg("bot_state_unreadable")
			continue
		}
		switch {
		case st.Result:
			staked = false
			if st.Outcome != nil {
				logger.Info().
					Int64("wealth", st.Outcome.Wealth).
					Int("score", st.Outcome.Score).
					Bool("blackjack", st.Outcome.Blackjack).
					Msg("bot_round_result")
			}
		case st.Countdown > game.LockAt && !staked:
			if err := c.send(protocol.VerbSetStake, cfg.Room, cfg.User, strconv.FormatInt(cfg.Stake, 10)); err != nil {
				return err
			}
			staked = true
		case st.Countdown == 0 && st.Current == cfg.User:
			action := bot.DecideHand(policy, game.Score(st.Hand()), st.CanDouble, st.CanSurrender)
			logger.Debug().Str("action", string(action)).Int("score", game.Score(st.Hand())).Msg("bot_action")
			if err := c.send(string(action), cfg.Room); err != nil {
				return err
			}
		}
	}
}

// joinAndStart opens the room if needed, joins it and starts the table.
func joinAndStart(c *client, cfg config.BotConfig) error {
	started, err := c.ask(protocol.VerbStarted, cfg.Room)
	if err != nil {
		return err
	}
	if started == "true" {
		return fmt.Errorf("table %s already running", cfg.Room)
	}
	dup, err := c.ask(protocol.VerbDupRoom, cfg.Room)
	if err != nil {
		return err
	}
	if dup == "false" {
		if err := c.send(protocol.VerbAddRoom, cfg.Room, "0", "0"); err != nil {
			return err
		}
	}
	if err := c.send(protocol.VerbJoinRoom, cfg.Room, cfg.User); err != nil {
		return err
	}
	if err := c.send(protocol.VerbStartGame, cfg.Room); err != nil {
		return err
	}
	started, err = c.ask(protocol.VerbStarted, cfg.Room)
	if err != nil {
		return err
	}
	if started != "true" {
		return fmt.Errorf("table %s did not start", cfg.Room)
	}
	return nil
}
