package engine

import "github.com/lyfstyl-ux/fightcaster/internal/game"

// finishIfDecided completes the battle when a combatant has no health left.
// Only the defender is damaged per action, so at most one side can be down.
func (tc *turnContext) finishIfDecided(out *Outcome) bool {
	var winner, loser side
	switch {
	case tc.s.Player1Health <= 0:
		winner, loser = tc.player2(), tc.player1()
	case tc.s.Player2Health <= 0:
		winner, loser = tc.player1(), tc.player2()
	default:
		return false
	}
	stateWinner, battleWinner := winner.userID, winner.userID
	tc.s.Status = game.BattleCompleted
	tc.s.Winner = &stateWinner
	tc.b.Status = game.BattleCompleted
	tc.b.WinnerID = &battleWinner
	tc.add(winner.username + " wins!")

	out.Completed = true
	out.WinnerID = winner.userID
	out.LoserID = loser.userID
	return true
}

// endTurn expires the actor's effects, advances cooldowns and hands the
// turn to the other participant.
func (e *Engine) endTurn(tc *turnContext, move string, cooldown, heldBefore int) {
	actor, defender := tc.sides()

	kept, expired := tickEffects(*actor.effects, heldBefore)
	*actor.effects = kept
	for _, tag := range expired {
		tc.add(actor.character + "'s " + tag + " wore off")
	}
	*actor.cooldowns = advanceCooldowns(*actor.cooldowns, move, cooldown)

	tc.s.CurrentTurn++
	tc.s.CurrentPlayerID = defender.userID
}
