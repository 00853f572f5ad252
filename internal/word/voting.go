package word

import "github.com/ElyraTeam/minigames-backend/internal/models"

// validVoteValue reports whether v is a legal point value.
func validVoteValue(v int) bool {
	return v == 0 || v == 5 || v == 10
}

// majorityScore resolves a target's confirmed values for one category into a
// single award. Boyer-Moore finds the majority candidate; if the candidate
// truly occurs in more than half the list it wins, otherwise the award is the
// maximum value present. An empty list awards 0. The max fallback rewards
// minority high votes on purpose and must not be "fixed" to a median.
func majorityScore(values []int) int {
	if len(values) == 0 {
		return 0
	}

	candidate, count := 0, 0
	for _, v := range values {
		switch {
		case count == 0:
			candidate, count = v, 1
		case v == candidate:
			count++
		default:
			count--
		}
	}

	occurrences := 0
	for _, v := range values {
		if v == candidate {
			occurrences++
		}
	}
	if occurrences*2 > len(values) {
		return candidate
	}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Vote records pending point selections from a voter for the active category.
// Self-votes, unknown targets and out-of-domain values are silently dropped.
// A voter who already confirmed can no longer change their row.
func (g *Game) Vote(voterID string, values models.Points) {
	if g.Phase != PhaseVoting {
		return
	}
	if g.PlayerBySession(voterID) == nil {
		return
	}
	rd := g.currentRoundData()
	if rd == nil || containsString(rd.ConfirmedVotes, voterID) {
		return
	}

	row := rd.ClientVotes[voterID]
	if row == nil {
		row = make(models.Points)
		rd.ClientVotes[voterID] = row
	}
	for targetID, val := range values {
		if targetID == voterID || !validVoteValue(val) {
			continue
		}
		if g.PlayerBySession(targetID) == nil {
			continue
		}
		row[targetID] = val
	}

	g.updatePlayerVotes()
}

// ConfirmVote finalizes a voter's row for the active category: every other
// player gets the pending value, defaulting to 0, copied into the confirmed
// ballot box. Accepted once per category.
func (g *Game) ConfirmVote(voterID string) {
	if g.Phase != PhaseVoting {
		return
	}
	voter := g.PlayerBySession(voterID)
	if voter == nil {
		return
	}
	rd := g.currentRoundData()
	if rd == nil || containsString(rd.ConfirmedVotes, voterID) {
		return
	}
	category := g.CurrentCategory()
	if category == "" {
		return
	}

	row := rd.ClientVotes[voterID]
	for _, target := range g.Players {
		if target.SessionID == voterID {
			continue
		}
		ballots := rd.Votes[target.SessionID]
		if ballots == nil {
			ballots = make(map[string]models.CategoryVotes)
			rd.Votes[target.SessionID] = ballots
		}
		if ballots[category] == nil {
			ballots[category] = make(models.CategoryVotes)
		}
		ballots[category][voterID] = row[target.SessionID]
	}

	rd.ConfirmedVotes = append(rd.ConfirmedVotes, voterID)
	voter.Voted = true

	g.SyncPlayers()
	g.updateVoteCount()
	g.checkEveryoneVoted()
	g.save()
}

// checkEveryoneVoted resolves the active category once every player has
// confirmed, then advances to the next category, the next round, or the end
// of the game.
func (g *Game) checkEveryoneVoted() {
	if g.Phase != PhaseVoting || len(g.Players) == 0 {
		return
	}
	rd := g.currentRoundData()
	if rd == nil || len(rd.ConfirmedVotes) != len(g.Players) {
		return
	}

	category := g.CurrentCategory()
	for _, target := range g.Players {
		values := make([]int, 0, len(g.Players))
		for _, v := range rd.Votes[target.SessionID][category] {
			values = append(values, v)
		}
		award := majorityScore(values)
		target.TotalScore += award
		target.LastRoundScore += award
		rd.FinalPoints[target.SessionID] = award
	}
	g.logAction(rd.StopClickerID, "category_scored", map[string]interface{}{
		"round":    g.CurrentRound,
		"category": category,
	})

	g.CurrentVotingCategory++
	g.prepareCategoryVoting()

	if g.CurrentVotingCategory == len(g.Options.Categories) {
		g.CurrentLetter = ""
		if g.CurrentRound == g.Options.Rounds {
			g.Phase = PhaseGameOver
			g.SyncRoom()
			g.SyncPlayers()
			g.emitGameOver("")
			g.logAction(g.OwnerID, "game_over", nil)
		} else {
			g.Phase = PhaseLobby
			g.CurrentRound++
			g.SyncRoom()
			g.SyncPlayers()
		}
	} else {
		g.SyncRoom()
		g.SyncPlayers()
		g.broadcast(Event{Type: EventStartVote, Data: g.CurrentCategoryVoteData()})
		g.updatePlayerVotes()
		g.updateVoteCount()
	}
	g.save()
}

// prepareCategoryVoting resets per-category vote state and seeds the pending
// board: targets with an empty word get 0 from everyone else, targets whose
// word duplicates another player's get 5. Voters may still override either
// before confirming.
func (g *Game) prepareCategoryVoting() {
	rd := g.currentRoundData()
	if rd == nil {
		return
	}
	category := g.CurrentCategory()

	rd.ConfirmedVotes = nil
	rd.ClientVotes = make(map[string]models.Points)
	for _, p := range g.Players {
		p.Voted = false
		rd.ClientVotes[p.SessionID] = make(models.Points)
		if rd.Votes[p.SessionID] == nil {
			rd.Votes[p.SessionID] = make(map[string]models.CategoryVotes)
		}
		if category != "" && rd.Votes[p.SessionID][category] == nil {
			rd.Votes[p.SessionID][category] = make(models.CategoryVotes)
		}
	}
	if category == "" {
		return
	}

	for targetID, sheet := range rd.PlayerValues {
		word := sheet[category]

		seed := -1
		if word == "" {
			seed = 0
		}
		if g.duplicatedCategoryValue(word, category) {
			seed = 5
		}
		if seed < 0 {
			continue
		}
		for _, p := range g.Players {
			if p.SessionID == targetID {
				continue
			}
			rd.ClientVotes[p.SessionID][targetID] = seed
		}
	}

	g.systemChat(models.NewChatMessage(models.ChatTypeSystem).
		Text("بداية التصويت لـ(").
		Bold(category).
		Text(")").
		Build())
}

// duplicatedCategoryValue reports whether a non-empty word was submitted by
// more than one player for the given category.
func (g *Game) duplicatedCategoryValue(word, category string) bool {
	if word == "" {
		return false
	}
	rd := g.currentRoundData()
	if rd == nil {
		return false
	}
	occurrences := 0
	for _, sheet := range rd.PlayerValues {
		if sheet[category] == word {
			occurrences++
		}
	}
	return occurrences > 1
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
