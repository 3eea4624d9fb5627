package contract

import (
	"strings"
	"time"
)

type Intent string

const (
	IntentGreet         Intent = "greet"
	IntentTransferMoney Intent = "transfer_money"
	IntentCheckBalance  Intent = "check_balance"
	IntentCardBlock     Intent = "card_block"
	IntentOutOfScope    Intent = "out_of_scope"
)

type EntityKind string

const (
	EntityTxnID         EntityKind = "TXN_ID"
	EntityAccountNumber EntityKind = "ACCOUNT_NUMBER"
	EntityAmount        EntityKind = "AMOUNT"
	EntityCardType      EntityKind = "CARD_TYPE"
	EntityAccountType   EntityKind = "ACCOUNT_TYPE"
)

// Span is a half-open [Start,End) byte range into the source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Span) Overlaps(o Span) bool {
	return !(s.End <= o.Start || s.Start >= o.End)
}

type Entity struct {
	Kind  EntityKind `json:"entity"`
	Value string     `json:"value"`
	Span  Span       `json:"span"`
}

type IntentPrediction struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Turn is one user utterance together with the NLU verdicts for it.
type Turn struct {
	SessionID  string   `json:"session_id"`
	Text       string   `json:"text"`
	Intent     Intent   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Entities   []Entity `json:"entities,omitempty"`
}

type ReplyKind string

const (
	ReplyMessage ReplyKind = "message"
	ReplyError   ReplyKind = "error"
	ReplyDefer   ReplyKind = "defer"
)

// Reply is the tagged outcome of one dialogue turn. Defer means the turn is
// outside the banking domain and the caller should route it to the
// general-purpose responder.
type Reply struct {
	Kind ReplyKind `json:"kind"`
	Text string    `json:"text,omitempty"`
}

func MessageReply(text string) Reply { return Reply{Kind: ReplyMessage, Text: text} }
func ErrorReply(text string) Reply   { return Reply{Kind: ReplyError, Text: text} }
func DeferReply() Reply              { return Reply{Kind: ReplyDefer} }

// ErrorMarker is the legacy prefix that tags error replies on string-only
// transports.
const ErrorMarker = "__ERROR__:"

// Encode flattens a Reply for string-only transports: errors carry the
// marker prefix, deferrals collapse to the empty sentinel.
func (r Reply) Encode() string {
	switch r.Kind {
	case ReplyError:
		return ErrorMarker + r.Text
	case ReplyDefer:
		return ""
	default:
		return r.Text
	}
}

func DecodeReply(s string) Reply {
	if s == "" {
		return DeferReply()
	}
	if strings.HasPrefix(s, ErrorMarker) {
		return ErrorReply(strings.TrimPrefix(s, ErrorMarker))
	}
	return MessageReply(s)
}

// Transfer outcomes ride the gateway's marker-string protocol.
const (
	TransferSuccessMarker = "✅"
	TransferFailureMarker = "❌"
)

type Account struct {
	Number   string `json:"account_number"`
	UserName string `json:"user_name"`
	Type     string `json:"account_type"`
	Balance  int64  `json:"balance"`
}

type AccountRef struct {
	Number   string `json:"account_number"`
	UserName string `json:"user_name"`
}

// Interaction is one handled turn as the analytics store sees it. The
// confidence is the dialogue layer's fixed per-branch constant, not a model
// probability.
type Interaction struct {
	Text       string    `json:"user_query"`
	Intent     Intent    `json:"predicted_intent"`
	Confidence float64   `json:"confidence"`
	Entities   []Entity  `json:"entities,omitempty"`
	Success    bool      `json:"success"`
	At         time.Time `json:"at"`
}

// Prediction is one raw classifier verdict for the NLU history log.
type Prediction struct {
	Text       string    `json:"user_query"`
	Intent     Intent    `json:"predicted_intent"`
	Confidence float64   `json:"confidence"`
	At         time.Time `json:"at"`
}
