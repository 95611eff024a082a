package game

import "time"

// EventType identifies a game domain event.
type EventType string

const (
	EventTypeDiceRolled       EventType = "dice_rolled"
	EventTypeScarcity         EventType = "scarcity_rule_enforced"
	EventTypeDiscardRequired  EventType = "discard_required"
	EventTypeDiscardConfirmed EventType = "discard_confirmed"
	EventTypeTurnChanged      EventType = "turn_changed"
	EventTypeBuildPlaced      EventType = "build_placed"
	EventTypeDevCardBought    EventType = "dev_card_bought"
	EventTypeDevCardPlayed    EventType = "dev_card_played"
	EventTypeRobberMoved      EventType = "robber_moved"
	EventTypeTradeProposed    EventType = "trade_proposed"
	EventTypeTradeCompleted   EventType = "trade_completed"
	EventTypeTradeCancelled   EventType = "trade_cancelled"
	EventTypeAchievement      EventType = "achievement_changed"
	EventTypeChatMessage      EventType = "chat_message"
	EventTypeGameEnded        EventType = "game_ended"
)

// String returns the string representation of the event type.
func (et EventType) String() string { return string(et) }

// GameEvent is any event published by the rules engine.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

type eventStamp struct{ at time.Time }

func (e eventStamp) Timestamp() time.Time { return e.at }

func stamp() eventStamp { return eventStamp{at: time.Now()} }

// DiceRolledEvent is published after every dice roll, with the production
// distributed to each player (empty on a seven).
type DiceRolledEvent struct {
	eventStamp
	PlayerID   string
	Die1, Die2 int
	Production map[string]Resources
}

func (e DiceRolledEvent) EventType() EventType { return EventTypeDiceRolled }

// ScarcityEvent is published when the bank cannot cover the total claims for
// one resource and the whole distribution of that resource is skipped.
type ScarcityEvent struct {
	eventStamp
	Resource Resource
	Demand   int
	Supply   int
}

func (e ScarcityEvent) EventType() EventType { return EventTypeScarcity }

// DiscardRequiredEvent tells one player how many cards they owe after a seven.
type DiscardRequiredEvent struct {
	eventStamp
	PlayerID string
	Amount   int
}

func (e DiscardRequiredEvent) EventType() EventType { return EventTypeDiscardRequired }

// DiscardConfirmedEvent reports a completed discard and the remaining hand.
type DiscardConfirmedEvent struct {
	eventStamp
	PlayerID  string
	Remaining Resources
}

func (e DiscardConfirmedEvent) EventType() EventType { return EventTypeDiscardConfirmed }

// TurnChangedEvent is published whenever the acting player or phase changes.
type TurnChangedEvent struct {
	eventStamp
	PlayerID string
	Phase    Phase
	Number   int
}

func (e TurnChangedEvent) EventType() EventType { return EventTypeTurnChanged }

// BuildPlacedEvent is published after a successful build.
type BuildPlacedEvent struct {
	eventStamp
	PlayerID string
	Kind     BuildKind
	Corner   *Corner
	Edge     *Edge
}

func (e BuildPlacedEvent) EventType() EventType { return EventTypeBuildPlaced }

// DevCardBoughtEvent is published after a dev card purchase. CardType is
// hidden information: the transport forwards it to the buyer only.
type DevCardBoughtEvent struct {
	eventStamp
	PlayerID string
	CardType DevCardType
	DeckLeft int
}

func (e DevCardBoughtEvent) EventType() EventType { return EventTypeDevCardBought }

// DevCardPlayedEvent is published after a dev card play resolves.
type DevCardPlayedEvent struct {
	eventStamp
	PlayerID string
	CardType DevCardType
}

func (e DevCardPlayedEvent) EventType() EventType { return EventTypeDevCardPlayed }

// RobberMovedEvent is published after a robber relocation. Stolen is nil when
// no card changed hands.
type RobberMovedEvent struct {
	eventStamp
	PlayerID  string
	Hex       Coord
	StealFrom string
	Stolen    *Resource
}

func (e RobberMovedEvent) EventType() EventType { return EventTypeRobberMoved }

// TradeProposedEvent announces an open domestic trade to its addressees.
type TradeProposedEvent struct {
	eventStamp
	Offer TradeOffer
}

func (e TradeProposedEvent) EventType() EventType { return EventTypeTradeProposed }

// TradeCompletedEvent is published when a domestic trade is accepted or a
// maritime trade resolves.
type TradeCompletedEvent struct {
	eventStamp
	TradeID  string
	Proposer string
	Accepter string
	Maritime bool
	Gave     Resources
	Received Resources
}

func (e TradeCompletedEvent) EventType() EventType { return EventTypeTradeCompleted }

// TradeCancelledEvent is published when an open trade is withdrawn or every
// addressee rejected it.
type TradeCancelledEvent struct {
	eventStamp
	TradeID string
	Reason  string
}

func (e TradeCancelledEvent) EventType() EventType { return EventTypeTradeCancelled }

// AchievementKind names a +2 VP bonus.
type AchievementKind string

const (
	AchievementLongestRoad AchievementKind = "longest_road"
	AchievementLargestArmy AchievementKind = "largest_army"
)

// AchievementEvent is published when a bonus transfers or is revoked. HolderID
// is empty when a tie leaves the bonus unheld.
type AchievementEvent struct {
	eventStamp
	Kind       AchievementKind
	HolderID   string
	PreviousID string
	Value      int
}

func (e AchievementEvent) EventType() EventType { return EventTypeAchievement }

// ChatEvent is published when a chat line is appended to the log.
type ChatEvent struct {
	eventStamp
	Message ChatMessage
}

func (e ChatEvent) EventType() EventType { return EventTypeChatMessage }

// GameEndedEvent is published exactly once, when a player reaches the victory
// threshold and the game freezes.
type GameEndedEvent struct {
	eventStamp
	WinnerID string
}

func (e GameEndedEvent) EventType() EventType { return EventTypeGameEnded }

// EventSubscriber receives engine events.
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus fans engine events out to subscribers.
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus.
func NewEventBus() EventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events.
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish delivers an event to every subscriber in order.
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
