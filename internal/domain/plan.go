package domain

// Intent is the classified purpose of a user query. External classifiers
// return free text; ParseIntent folds anything unrecognized into
// IntentUnknown so dispatch never branches on an unvalidated string.
type Intent string

const (
	IntentReorder     Intent = "reorder"
	IntentCreateEvent Intent = "create_event"
	IntentAddToCart   Intent = "add_to_cart"
	IntentUnknown     Intent = "unknown"
)

func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentReorder, IntentCreateEvent, IntentAddToCart:
		return Intent(s)
	default:
		return IntentUnknown
	}
}

// Plan is the planner's decision for one query. Budget is nil when the user
// gave none; Reply is an optional user-facing phrasing from the planner.
type Plan struct {
	Intent Intent   `json:"intent"`
	Themes []string `json:"themes,omitempty"`
	Budget *float64 `json:"budget,omitempty"`
	Reply  string   `json:"query_for_user,omitempty"`
}

// ExtractedProduct is one product line pulled out of a direct add request.
type ExtractedProduct struct {
	Name        string   `json:"name"`
	Quantity    int      `json:"quantity"`
	Preferences []string `json:"preferences"`
}

// Extraction is the extractor's structured reading of a direct query.
type Extraction struct {
	Intent   Intent             `json:"intent"`
	Products []ExtractedProduct `json:"products"`
}

// ActionKind is the closed set of review-session mutations.
type ActionKind string

const (
	ActionRemove         ActionKind = "remove"
	ActionUpdateQuantity ActionKind = "update_quantity"
	ActionConfirmAdd     ActionKind = "confirm_add"
	ActionUnknown        ActionKind = "unknown"
)

func ParseActionKind(s string) ActionKind {
	switch ActionKind(s) {
	case ActionRemove, ActionUpdateQuantity, ActionConfirmAdd:
		return ActionKind(s)
	default:
		return ActionUnknown
	}
}

// CommandAction is the classifier's verdict on a follow-up command. ItemID
// and Quantity are only meaningful for the kinds that need them.
type CommandAction struct {
	Kind     ActionKind `json:"action"`
	ItemID   int64      `json:"item_id,omitempty"`
	Quantity int        `json:"quantity,omitempty"`
}
