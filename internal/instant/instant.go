// Package instant normalizes the timestamp text found in tracking logs into a
// tagged value: either a concrete, timezone-aware point in time or a sentinel
// state. Sentinels behave as "absent" in aggregation; they never become the
// minimum or maximum of a set of concrete instants.
package instant

import "time"

// Layout is the only timestamp pattern the tracking log writes.
const Layout = "2006-01-02 15:04:05"

// Exact sentinel strings the scraper writes into time columns.
const (
	sentinelNever        = "NEVER"
	sentinelNotProcessed = "NOT_PROCESSED"
)

type State int

const (
	// Concrete is a real point in time, held in the reference zone.
	Concrete State = iota
	// Never means the column held the literal NEVER marker.
	Never
	// NotProcessed means the column held the literal NOT_PROCESSED marker.
	NotProcessed
	// Unparseable is any other text that did not match Layout.
	Unparseable
)

func (s State) String() string {
	switch s {
	case Concrete:
		return "concrete"
	case Never:
		return "never"
	case NotProcessed:
		return "not_processed"
	default:
		return "unparseable"
	}
}

// Instant is a concrete time or a sentinel. The zero value is Unparseable.
type Instant struct {
	state State
	t     time.Time
}

func FromTime(t time.Time) Instant {
	return Instant{state: Concrete, t: t}
}

func Sentinel(s State) Instant {
	return Instant{state: s}
}

func (i Instant) State() State { return i.state }

// IsConcrete reports whether the instant holds a real time.
func (i Instant) IsConcrete() bool { return i.state == Concrete }

// Time returns the concrete time and true, or the zero time and false for a
// sentinel.
func (i Instant) Time() (time.Time, bool) {
	if i.state != Concrete {
		return time.Time{}, false
	}
	return i.t, true
}

// Normalizer parses raw timestamp text. Text is interpreted in Source (the
// log's own convention, UTC in production) and converted to Reference for all
// human-facing output. Both zones are explicit configuration, never ambient
// process state, so tests behave the same regardless of the host timezone.
type Normalizer struct {
	Source    *time.Location
	Reference *time.Location
}

func NewNormalizer(source, reference *time.Location) *Normalizer {
	if source == nil {
		source = time.UTC
	}
	if reference == nil {
		reference = time.UTC
	}
	return &Normalizer{Source: source, Reference: reference}
}

// ResolveZone loads a zone by IANA name. An empty name resolves to UTC.
func ResolveZone(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// Normalize maps raw text to an Instant. Sentinel markers are matched exactly,
// case-sensitive, before any date parsing. Malformed text never produces an
// error, only the Unparseable state.
func (n *Normalizer) Normalize(raw string) Instant {
	switch raw {
	case sentinelNever:
		return Sentinel(Never)
	case sentinelNotProcessed:
		return Sentinel(NotProcessed)
	}

	t, err := time.ParseInLocation(Layout, raw, n.Source)
	if err != nil {
		return Sentinel(Unparseable)
	}
	return FromTime(t.In(n.Reference))
}

// Max returns the latest concrete instant of the set, ignoring sentinels.
func Max(instants ...Instant) Instant {
	out := Sentinel(Never)
	for _, in := range instants {
		t, ok := in.Time()
		if !ok {
			continue
		}
		if cur, ok := out.Time(); !ok || t.After(cur) {
			out = in
		}
	}
	return out
}

// Min returns the earliest concrete instant of the set, ignoring sentinels.
func Min(instants ...Instant) Instant {
	out := Sentinel(Never)
	for _, in := range instants {
		t, ok := in.Time()
		if !ok {
			continue
		}
		if cur, ok := out.Time(); !ok || t.Before(cur) {
			out = in
		}
	}
	return out
}
