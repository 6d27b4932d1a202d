// Package bot holds the heuristic decision policies used by seated bots and
// by the external bot client.
package bot

import (
	"math/rand"
	"strconv"

	"blackjack-server/internal/game"
)

const (
	standOn          = 17
	surrenderBelow   = 6
	doubleDownFrom   = 12
	doubleDownBefore = 16
)

// Decide picks the next action for username on the current view. It reports
// false when it is not that player's turn.
func Decide(policy game.Policy, username string, v game.View) (game.Action, bool) {
	if v.Phase != game.PhasePlaying || v.Current != username {
		return "", false
	}
	return DecideHand(policy, game.Score(v.Hand()), v.CanDouble, v.CanSurrender), true
}

// DecideHand applies the score thresholds of a policy to a hand in play.
func DecideHand(policy game.Policy, score int, canDouble, canSurrender bool) game.Action {
	if policy == game.PolicyAdvanced {
		switch {
		case score < surrenderBelow && canSurrender:
			return game.ActionSurrender
		case score >= doubleDownFrom && score < doubleDownBefore && canDouble:
			return game.ActionDoubleDown
		}
	}
	if score < standOn {
		return game.ActionHit
	}
	return game.ActionStand
}

var names = []string{
	"Ace", "Blaze", "Cobra", "Dynamo", "Echo", "Falcon", "Ghost", "Hawk", "Inferno",
	"Jaguar", "Knight", "Lynx", "Maverick", "Nitro", "Omega", "Phantom", "Quasar",
	"Raven", "Shadow", "Tiger", "Ultra", "Viper", "Wolf", "Xenon", "Zephyr",
}

// Name returns a random bot name such as Falcon417.
func Name(rnd *rand.Rand) string {
	return names[rnd.Intn(len(names))] + strconv.Itoa(rnd.Intn(10000))
}
