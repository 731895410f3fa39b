// cmd/client/main.go is a headless client for the hex-settlement board game:
// it creates or joins a session over HTTP, keeps a canonical local view in
// sync over the websocket stream, and can optionally drive a trivial bot that
// exercises the action surface.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"settlersync/internal/client"
	"settlersync/internal/game"
	"settlersync/internal/protocol"
	"settlersync/internal/recorder"
)

func main() {
	var (
		server = flag.String("server", getEnv("GAME_SERVER_URL", "http://localhost:8000"), "server HTTP base URL")
		wsBase = flag.String("ws", "", "server websocket base URL (derived from -server when empty)")
		join   = flag.Int("join", 0, "game id to join (0 creates a new game)")
		start  = flag.Bool("start", false, "start the game after joining (host only)")
		bot    = flag.Bool("bot", false, "play trivial moves automatically")
		debug  = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	log := logrus.New()
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	ws := *wsBase
	if ws == "" {
		ws = strings.Replace(*server, "http", "ws", 1)
	}

	rec := recorder.FromEnv(log)
	c := client.New(log, *server, ws, rec)
	defer c.Close()

	ctx := context.Background()
	if *join != 0 {
		if err := c.JoinGame(ctx, *join); err != nil {
			log.Fatalf("join failed: %v", err)
		}
		log.Infof("joined game %d as player %d", c.GameID(), c.PlayerID())
	} else {
		gameID, err := c.CreateGame(ctx)
		if err != nil {
			log.Fatalf("create failed: %v", err)
		}
		log.Infof("created game %d as player %d", gameID, c.PlayerID())
	}

	if *bot {
		c.OnUpdate = func() { playBotMove(c) }
	} else {
		c.OnUpdate = func() { logAffordances(log, c.View) }
	}

	if err := c.Connect(ctx); err != nil {
		log.Fatalf("connect failed: %v", err)
	}

	if *start {
		if err := c.StartGame(ctx); err != nil {
			log.Fatalf("start failed: %v", err)
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case <-c.Done():
		log.Info("session ended")
	case sig := <-sigs:
		log.Infof("terminating: %v", sig)
	}
}

// logAffordances summarizes the enabled actions after each state change.
func logAffordances(log *logrus.Logger, v *game.View) {
	s := v.Snapshot()
	label, buildOK := v.BuildAction()
	roll := 0
	if s.Bank.CurrentRoll != nil {
		roll = *s.Bank.CurrentRoll
	}
	log.WithFields(logrus.Fields{
		"phase":   s.Phase.String(),
		"turn":    s.CurrentTurn,
		"forced":  s.Forced.String(),
		"roll":    roll,
		"canRoll": v.CanRollDice(),
		"canEnd":  v.CanEndTurn(),
		"build":   label,
		"buildOK": buildOK,
	}).Info("state")
}

// playBotMove reacts to the freshest state with the simplest legal-looking
// move. The server stays authoritative; anything it rejects just comes back
// as an action_failed notice and the next snapshot re-asserts the truth.
func playBotMove(c *client.Client) {
	v := c.View
	s := v.Snapshot()

	if s.Forced == game.ForcedDiscard && s.MustDiscard > 0 {
		stageRandomDiscard(v, s)
		if v.CanSubmitDiscard() {
			c.Do(protocol.SubmitDiscard(v.DiscardPicks()))
			v.ClearDiscardPicks()
		}
		return
	}

	if v.CanRollDice() {
		c.Do(protocol.RollDice())
		return
	}
	if v.CanEndTurn() {
		c.Do(protocol.EndTurn())
		return
	}
	if v.CanRespondToTrade() {
		c.Do(protocol.DeclineTrade())
	}
}

// stageRandomDiscard fills the discard picker with owed units drawn from the
// actual hand, so the submission is exact and payable.
func stageRandomDiscard(v *game.View, s game.State) {
	v.ClearDiscardPicks()
	hand := s.Self.Hand
	owed := s.MustDiscard
	for owed > 0 && hand.Total() > 0 {
		kind := game.ResourceKinds[rand.Intn(len(game.ResourceKinds))]
		if hand.Get(kind) == 0 {
			continue
		}
		hand.Add(kind, -1)
		v.SetDiscardPick(kind, v.DiscardPicks().Get(kind)+1)
		owed--
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
