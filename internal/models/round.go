package models

// PlayerValues maps a category name to the word a player submitted for it.
type PlayerValues map[string]string

// Points maps a player id to a point value.
type Points map[string]int

// CategoryVotes maps a voter id to the point value that voter gave.
type CategoryVotes map[string]int

// RoundData accumulates everything produced during one round: the submitted
// words, the in-progress (pending) votes, the confirmed per-category votes and
// the per-player totals awarded so far.
//
// ClientVotes holds pending selections, voterId -> targetId -> value; they are
// broadcast live but carry no scoring weight until the voter confirms. Votes
// holds confirmed ballots, targetId -> category -> voterId -> value.
type RoundData struct {
	Round         int    `json:"round"`
	Letter        string `json:"letter"`
	StopClickerID string `json:"stopClicker"`

	PlayerValues map[string]PlayerValues `json:"playerValues"`

	ConfirmedVotes []string                            `json:"confirmedVotes"`
	ClientVotes    map[string]Points                   `json:"clientVotes"`
	Votes          map[string]map[string]CategoryVotes `json:"votes"`

	FinalPoints Points `json:"finalPoints"`
}

// NewRoundData returns an empty round for the given round number and letter.
func NewRoundData(round int, letter string) *RoundData {
	return &RoundData{
		Round:        round,
		Letter:       letter,
		PlayerValues: make(map[string]PlayerValues),
		ClientVotes:  make(map[string]Points),
		Votes:        make(map[string]map[string]CategoryVotes),
		FinalPoints:  make(Points),
	}
}

// Clone returns a deep copy sharing no maps or slices with the receiver, so
// the copy can be read without holding the room lock.
func (rd *RoundData) Clone() *RoundData {
	if rd == nil {
		return nil
	}
	c := &RoundData{
		Round:          rd.Round,
		Letter:         rd.Letter,
		StopClickerID:  rd.StopClickerID,
		PlayerValues:   make(map[string]PlayerValues, len(rd.PlayerValues)),
		ConfirmedVotes: append([]string(nil), rd.ConfirmedVotes...),
		ClientVotes:    make(map[string]Points, len(rd.ClientVotes)),
		Votes:          make(map[string]map[string]CategoryVotes, len(rd.Votes)),
		FinalPoints:    make(Points, len(rd.FinalPoints)),
	}
	for id, sheet := range rd.PlayerValues {
		s := make(PlayerValues, len(sheet))
		for cat, word := range sheet {
			s[cat] = word
		}
		c.PlayerValues[id] = s
	}
	for voterID, row := range rd.ClientVotes {
		r := make(Points, len(row))
		for targetID, val := range row {
			r[targetID] = val
		}
		c.ClientVotes[voterID] = r
	}
	for targetID, ballots := range rd.Votes {
		b := make(map[string]CategoryVotes, len(ballots))
		for cat, voters := range ballots {
			v := make(CategoryVotes, len(voters))
			for voterID, val := range voters {
				v[voterID] = val
			}
			b[cat] = v
		}
		c.Votes[targetID] = b
	}
	for id, val := range rd.FinalPoints {
		c.FinalPoints[id] = val
	}
	return c
}
