package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCall(t *testing.T) {
	before := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("openai", "gpt-4o", "ok"))
	RecordCall("openai", "gpt-4o", "ok", time.Now())
	after := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("openai", "gpt-4o", "ok"))
	if after != before+1 {
		t.Errorf("requests counter = %v, want %v", after, before+1)
	}
}

func TestRecordTokens(t *testing.T) {
	RecordTokens("anthropic", "claude-sonnet-4", 100, 40)
	in := testutil.ToFloat64(ProviderTokensTotal.WithLabelValues("anthropic", "claude-sonnet-4", "input"))
	out := testutil.ToFloat64(ProviderTokensTotal.WithLabelValues("anthropic", "claude-sonnet-4", "output"))
	if in < 100 || out < 40 {
		t.Errorf("token counters = %v/%v", in, out)
	}

	// Zero counts do not materialize series.
	RecordTokens("anthropic", "claude-zero", 0, 0)
	if got := testutil.CollectAndCount(ProviderTokensTotal, "unillm_provider_tokens_total"); got < 2 {
		t.Errorf("series count = %d", got)
	}
}

func TestStreamsActiveGauge(t *testing.T) {
	base := testutil.ToFloat64(StreamsActive)
	StreamsActive.Inc()
	if got := testutil.ToFloat64(StreamsActive); got != base+1 {
		t.Errorf("gauge = %v, want %v", got, base+1)
	}
	StreamsActive.Dec()
	if got := testutil.ToFloat64(StreamsActive); got != base {
		t.Errorf("gauge = %v, want %v", got, base)
	}
}
