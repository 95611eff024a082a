package game

import (
	"encoding/json"
	"time"
)

// Phase is the turn/phase state machine state.
type Phase string

const (
	PhaseInitialPlacement Phase = "initial_placement"
	PhaseRoll             Phase = "roll"
	PhaseMain             Phase = "main"
	PhaseRobberPlacement  Phase = "robber_placement"
	PhaseDiscard          Phase = "discard"
	PhaseSpecialBuilding  Phase = "special_building"
	PhaseGameOver         Phase = "game_over"
)

// Color is a player color.
type Color string

var playerColors = []Color{"red", "blue", "white", "orange", "green", "brown"}

// DevCardType is a development card kind.
type DevCardType string

const (
	CardKnight       DevCardType = "knight"
	CardVictoryPoint DevCardType = "victory_point"
	CardMonopoly     DevCardType = "monopoly"
	CardYearOfPlenty DevCardType = "year_of_plenty"
	CardRoadBuilding DevCardType = "road_building"
)

// DevCard is a development card in a player's hand. BoughtTurn gates play: a
// card bought on turn T is playable from turn T+1.
type DevCard struct {
	Type       DevCardType `json:"type"`
	BoughtTurn int         `json:"boughtTurn"`
}

// Player is the full per-player state, including hidden information.
type Player struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Color         Color     `json:"color"`
	Resources     Resources `json:"resources"`
	DevCards      []DevCard `json:"devCards"`
	PlayedKnights int       `json:"playedKnights"`
	Roads         []Edge    `json:"roads"`
	Settlements   []Corner  `json:"settlements"`
	Cities        []Corner  `json:"cities"`
	VictoryPoints int       `json:"victoryPoints"`
	Connected     bool      `json:"connected"`
}

func (p *Player) hiddenVictoryCards() int {
	n := 0
	for _, c := range p.DevCards {
		if c.Type == CardVictoryPoint {
			n++
		}
	}
	return n
}

// HasBuildingAt reports whether the player owns a settlement or city on the
// corner.
func (p *Player) HasBuildingAt(c Corner) bool {
	for _, s := range p.Settlements {
		if s == c {
			return true
		}
	}
	for _, ct := range p.Cities {
		if ct == c {
			return true
		}
	}
	return false
}

// SetupProgress tracks the snake-order initial placement: players 1..N place
// a settlement+road pair in forward order, then N..1 in reverse.
type SetupProgress struct {
	Round     int    `json:"round"`
	Index     int    `json:"index"`
	AwaitRoad bool   `json:"awaitRoad"`
	Anchor    Corner `json:"anchor"`
}

// TurnInfo tracks whose turn it is and which phase the room is in.
type TurnInfo struct {
	Current         int            `json:"current"`
	Phase           Phase          `json:"phase"`
	Number          int            `json:"number"`
	LastRoll        [2]int         `json:"lastRoll"`
	PendingDiscards map[string]int `json:"pendingDiscards,omitempty"`
	RobberPending   bool           `json:"robberPending"`
	DevCardPlayed   bool           `json:"devCardPlayed"`
	Setup           SetupProgress  `json:"setup"`
	// SpecialBuild is the index of the player currently cycling through the
	// special building phase, or -1 outside it.
	SpecialBuild int `json:"specialBuild"`
}

// TradeOffer is an open domestic trade proposal.
type TradeOffer struct {
	ID        string    `json:"id"`
	Proposer  string    `json:"proposer"`
	To        []string  `json:"to"`
	Offer     Resources `json:"offer"`
	Request   Resources `json:"request"`
	Rejected  []string  `json:"rejected,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t *TradeOffer) addressedTo(playerID string) bool {
	for _, id := range t.To {
		if id == playerID {
			return true
		}
	}
	return false
}

func (t *TradeOffer) hasRejected(playerID string) bool {
	for _, id := range t.Rejected {
		if id == playerID {
			return true
		}
	}
	return false
}

// ChatMessage is an entry in the room chat log.
type ChatMessage struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"playerId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Award records the holder of a +2 VP bonus: longest road (Value = length) or
// largest army (Value = knight count).
type Award struct {
	PlayerID string `json:"playerId"`
	Value    int    `json:"value"`
}

// Settings are the per-room game settings.
type Settings struct {
	VictoryPointsToWin   int       `json:"victoryPointsToWin"`
	BoardSize            BoardSize `json:"boardSize"`
	SpecialBuildingPhase bool      `json:"specialBuildingPhase"`
	TurnTimeLimitSeconds int       `json:"turnTimeLimitSeconds,omitempty"`
}

// DefaultSettings returns settings for a given player count: the extended
// board and special building phase switch on at five players.
func DefaultSettings(players int) Settings {
	s := Settings{
		VictoryPointsToWin: 10,
		BoardSize:          SizeStandard,
	}
	if players >= 5 {
		s.BoardSize = SizeExtended
		s.SpecialBuildingPhase = true
	}
	return s
}

// State is the complete authoritative game state for one room. It is owned by
// the room's Game and mutated only under its lock.
type State struct {
	Board       *Board                 `json:"board"`
	Players     []*Player              `json:"players"`
	Turn        TurnInfo               `json:"turn"`
	Bank        BankState              `json:"bank"`
	RobberHex   Coord                  `json:"robberHex"`
	LongestRoad *Award                 `json:"longestRoad"`
	LargestArmy *Award                 `json:"largestArmy"`
	OpenTrades  map[string]*TradeOffer `json:"openTrades,omitempty"`
	TradeSeq    int                    `json:"tradeSeq"`
	ChatLog     []ChatMessage          `json:"chatLog,omitempty"`
	Settings    Settings               `json:"settings"`
}

func (s *State) player(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *State) playerIndex(id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) activePlayer() *Player {
	return s.Players[s.Turn.Current]
}

// buildingOwnerAt returns the player owning a settlement or city on the
// corner, or nil.
func (s *State) buildingOwnerAt(c Corner) *Player {
	for _, p := range s.Players {
		if p.HasBuildingAt(c) {
			return p
		}
	}
	return nil
}

func (s *State) roadOwnerAt(e Edge) *Player {
	e = e.Normalize()
	for _, p := range s.Players {
		for _, r := range p.Roads {
			if r == e {
				return p
			}
		}
	}
	return nil
}

// PortsFor returns the ports the player has settled: a settlement or city on
// any corner of the port's sea hex grants access.
func (s *State) PortsFor(p *Player) []Port {
	var out []Port
	for _, port := range s.Board.Ports {
		for _, c := range port.PortCorners() {
			if p.HasBuildingAt(c) {
				out = append(out, port)
				break
			}
		}
	}
	return out
}

// tradeRatio returns the best maritime ratio the player holds for giving a
// resource: 2 at a matching 2:1 port, 3 at any 3:1 port, otherwise 4.
func (s *State) tradeRatio(p *Player, give Resource) int {
	ratio := 4
	for _, port := range s.PortsFor(p) {
		switch {
		case port.Resource == give && port.Ratio < ratio:
			ratio = port.Ratio
		case port.Resource == PortAny && port.Ratio < ratio:
			ratio = port.Ratio
		}
	}
	return ratio
}

// PlayerView is a player as seen by one viewer: other players' development
// cards are reduced to a count, and victory point cards stay hidden until the
// game ends.
type PlayerView struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Color         Color     `json:"color"`
	Resources     Resources `json:"resources"`
	DevCards      []DevCard `json:"devCards,omitempty"`
	DevCardCount  int       `json:"devCardCount"`
	PlayedKnights int       `json:"playedKnights"`
	Roads         []Edge    `json:"roads"`
	Settlements   []Corner  `json:"settlements"`
	Cities        []Corner  `json:"cities"`
	VictoryPoints int       `json:"victoryPoints"`
	Ports         []Port    `json:"ports,omitempty"`
	Connected     bool      `json:"connected"`
}

// View is the game state as broadcast to one player.
type View struct {
	Viewer      string                 `json:"viewer"`
	Board       *Board                 `json:"board"`
	Players     []PlayerView           `json:"players"`
	Turn        TurnInfo               `json:"turn"`
	Bank        BankView               `json:"bank"`
	RobberHex   Coord                  `json:"robberHex"`
	LongestRoad *Award                 `json:"longestRoad"`
	LargestArmy *Award                 `json:"largestArmy"`
	OpenTrades  map[string]*TradeOffer `json:"openTrades,omitempty"`
	ChatLog     []ChatMessage          `json:"chatLog,omitempty"`
	Settings    Settings               `json:"settings"`
}

// BankView exposes the bank pool and the remaining deck size, never the deck
// order.
type BankView struct {
	Resources    Resources `json:"resources"`
	DevCardsLeft int       `json:"devCardsLeft"`
}

// ViewFor renders the state for one viewer, masking hidden information of the
// other players. After game_over every hand is revealed.
func (s *State) ViewFor(viewerID string) *View {
	over := s.Turn.Phase == PhaseGameOver
	v := &View{
		Viewer:      viewerID,
		Board:       s.Board,
		Turn:        s.Turn,
		Bank:        BankView{Resources: s.Bank.Resources, DevCardsLeft: len(s.Bank.DevCards)},
		RobberHex:   s.RobberHex,
		LongestRoad: s.LongestRoad,
		LargestArmy: s.LargestArmy,
		OpenTrades:  s.OpenTrades,
		ChatLog:     s.ChatLog,
		Settings:    s.Settings,
	}
	for _, p := range s.Players {
		pv := PlayerView{
			ID:            p.ID,
			Name:          p.Name,
			Color:         p.Color,
			Resources:     p.Resources,
			DevCardCount:  len(p.DevCards),
			PlayedKnights: p.PlayedKnights,
			Roads:         p.Roads,
			Settlements:   p.Settlements,
			Cities:        p.Cities,
			VictoryPoints: p.VictoryPoints,
			Ports:         s.PortsFor(p),
			Connected:     p.Connected,
		}
		if p.ID == viewerID || over {
			pv.DevCards = p.DevCards
		}
		v.Players = append(v.Players, pv)
	}
	return v
}

// Snapshot serializes the full state, hidden information included. Snapshots
// are meant for the room-keyed save/load store, not for clients.
func (s *State) Snapshot() ([]byte, error) {
	return json.Marshal(s)
}

// RestoreState deserializes a snapshot produced by Snapshot.
func RestoreState(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
