package contract

import "testing"

func TestSpanOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b Span
		want bool
	}{
		{"identical", Span{0, 5}, Span{0, 5}, true},
		{"contained", Span{2, 4}, Span{0, 10}, true},
		{"partial", Span{3, 8}, Span{5, 12}, true},
		{"touching ends", Span{0, 5}, Span{5, 10}, false},
		{"disjoint", Span{0, 3}, Span{7, 9}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("%+v overlaps %+v: got %v, want %v", tc.a, tc.b, got, tc.want)
			}
			// overlap is symmetric
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("%+v overlaps %+v: got %v, want %v", tc.b, tc.a, got, tc.want)
			}
		})
	}
}

func TestReplyEncode(t *testing.T) {
	t.Parallel()

	if got := MessageReply("hello").Encode(); got != "hello" {
		t.Fatalf("message encodes to %q", got)
	}
	if got := ErrorReply("bad amount").Encode(); got != ErrorMarker+"bad amount" {
		t.Fatalf("error encodes to %q", got)
	}
	if got := DeferReply().Encode(); got != "" {
		t.Fatalf("defer must encode to the empty sentinel, got %q", got)
	}
}

func TestDecodeReply(t *testing.T) {
	t.Parallel()

	for _, reply := range []Reply{
		MessageReply("Your balance is 5000"),
		ErrorReply("Invalid account number. Please re-enter."),
		DeferReply(),
	} {
		if got := DecodeReply(reply.Encode()); got != reply {
			t.Fatalf("round trip changed %+v into %+v", reply, got)
		}
	}

	// a message that happens to start like an error cannot be told apart
	// on the wire, so the marker always wins
	got := DecodeReply(ErrorMarker + "disk full")
	if got.Kind != ReplyError || got.Text != "disk full" {
		t.Fatalf("marker prefix must decode as error, got %+v", got)
	}
}
