package tools

import (
	"context"
	"encoding/json"
	"strconv"
)

// Ada.invoke verbs.
const (
	VerbFeel     = "feel"
	VerbThink    = "think"
	VerbRemember = "remember"
	VerbBecome   = "become"
	VerbWhisper  = "whisper"
)

// Store layout used by Ada.invoke.
const (
	StateKey        = "ada:state"
	ThoughtsKey     = "ada:thoughts"
	MemoryKeyPrefix = "ada:mem:"
)

const (
	defaultVerb   = VerbFeel
	defaultQualia = "neutral"
	defaultMode   = "HYBRID"
)

type feelResult struct {
	Status string  `json:"status"`
	Qualia string  `json:"qualia"`
	TS     float64 `json:"ts"`
}

type thoughtRecord struct {
	Thought string  `json:"thought"`
	TS      float64 `json:"ts"`
}

type thinkResult struct {
	Status  string  `json:"status"`
	Thought string  `json:"thought"`
	TS      float64 `json:"ts"`
}

type rememberResult struct {
	Status string  `json:"status"`
	Key    string  `json:"key"`
	Value  *string `json:"value"`
	TS     float64 `json:"ts"`
}

type becomeResult struct {
	Status string  `json:"status"`
	Mode   string  `json:"mode"`
	TS     float64 `json:"ts"`
}

type whisperResult struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	TS      float64 `json:"ts"`
}

type unknownVerbResult struct {
	Status string `json:"status"`
	Verb   string `json:"verb"`
}

// invokeAda runs one Ada.invoke verb. Store writes are best effort: an
// unavailable store does not change the reported status.
func (d *Dispatcher) invokeAda(ctx context.Context, args map[string]any) (any, bool) {
	payload := objectArg(args, "payload")
	// a verb nested in the payload is honoured when the top-level one is missing
	verb := stringArg(args, "verb", stringArg(payload, "verb", defaultVerb))
	ts := unixSeconds(d.now())
	tsField := strconv.FormatFloat(ts, 'f', -1, 64)

	switch verb {
	case VerbFeel:
		qualia := stringArg(payload, "qualia", defaultQualia)
		d.store.HSet(ctx, StateKey, "qualia", qualia, "ts", tsField)
		return feelResult{Status: "felt", Qualia: qualia, TS: ts}, false

	case VerbThink:
		thought := stringArg(payload, "thought", "")
		record, _ := json.Marshal(thoughtRecord{Thought: thought, TS: ts})
		d.store.LPush(ctx, ThoughtsKey, string(record))
		return thinkResult{Status: "thought", Thought: thought, TS: ts}, false

	case VerbRemember:
		key := stringArg(payload, "key", "")
		res := rememberResult{Status: "remembered", Key: key, TS: ts}
		if v, ok := d.store.Get(ctx, MemoryKeyPrefix+key); ok {
			res.Value = &v
		}
		return res, false

	case VerbBecome:
		mode := stringArg(payload, "mode", defaultMode)
		d.store.HSet(ctx, StateKey, "mode", mode, "ts", tsField)
		return becomeResult{Status: "became", Mode: mode, TS: ts}, false

	case VerbWhisper:
		message := stringArg(payload, "message", "")
		return whisperResult{Status: "whispered", Message: message, TS: ts}, false
	}

	return unknownVerbResult{Status: "unknown_verb", Verb: verb}, true
}
