package convert

import (
	"errors"
	"testing"
)

func TestFailureMatchesOnlyItsSentinel(t *testing.T) {
	for kind, sentinel := range kindSentinels {
		f := &Failure{Kind: kind, Message: "x"}
		if !errors.Is(f, sentinel) {
			t.Fatalf("%s does not match its sentinel", kind)
		}
		for other, otherSentinel := range kindSentinels {
			if other != kind && errors.Is(f, otherSentinel) {
				t.Fatalf("%s unexpectedly matches %s", kind, other)
			}
		}
	}
}

func TestFailureUnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	f := unexpected(cause)
	if !errors.Is(f, cause) || !errors.Is(f, ErrUnexpected) {
		t.Fatalf("expected both cause and kind to match: %v", f)
	}
	if f.Message != "An error occurred during conversion: disk full" {
		t.Fatalf("message = %q", f.Message)
	}
}

func TestResultErrNilOnSuccess(t *testing.T) {
	r := succeeded("/tmp/out.mp4")
	if r.Err() != nil || !r.OK() {
		t.Fatalf("success result reported error: %v", r.Err())
	}
}

func TestRequestDefaults(t *testing.T) {
	r := Request{InputPath: "/a.mov"}.WithDefaults()
	if r.OutputFormat != DefaultOutputFormat {
		t.Fatalf("format = %q", r.OutputFormat)
	}
	if q := (Request{Quality: "ULTRA"}).QualityTier(); q != "" {
		t.Fatalf("unknown quality should be unset, got %q", q)
	}
}
