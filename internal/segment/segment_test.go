package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmt2csv/internal/config"
)

func newSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	s, err := New(config.Default())
	require.NoError(t, err)
	return s
}

func TestIsHeader(t *testing.T) {
	s := newSegmenter(t)
	tests := []struct {
		line string
		want bool
	}{
		{"GIRO", true},
		{"INTERBANK GIRO", true},
		{"FUNDS TRANSFER\nto savings", true},
		{"FAST PAYMENT", true},
		{"PAYMENT/TRANSFER", true},
		{"SERVICE CHARGE", true},
		{"DEBIT PURCHASE", true},
		{"NETS PURCHASE", true},
		{"ANNUAL FEE", true},
		{"CASH REBATE", true},
		{"BILL PAYMENT", true},
		{"CHEQUE DEPOSIT", true},
		{"CREDIT INTEREST", true},
		{"COMM CHARGE", true},
		{"to JOHN", false},
		{"ACME PTE LTD", false},
		{"ref\nGIRO", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.IsHeader(tt.line), "IsHeader(%q)", tt.line)
	}
}

func TestHeaders(t *testing.T) {
	s := newSegmenter(t)
	lines := []string{"GIRO", "ACME", "TRANSFER", "to A", "to B", "FEE"}
	assert.Equal(t, []int{0, 2, 5}, s.Headers(lines))
}

func TestHeaders_RepeatMarkerSuppressedOnce(t *testing.T) {
	s := newSegmenter(t)
	lines := []string{"CASH REBATE", "CASH REBATE", "CASH REBATE", "CASH REBATE"}
	// Pairs: the second of each pair is suppressed.
	assert.Equal(t, []int{0, 2}, s.Headers(lines))
}

func TestHeaders_RepeatMarkerDisarmedByOtherHeader(t *testing.T) {
	s := newSegmenter(t)
	lines := []string{"CASH REBATE", "GIRO", "CASH REBATE"}
	assert.Equal(t, []int{0, 1, 2}, s.Headers(lines))
}

func TestHeaders_RepeatMarkerSurvivesNonHeaderLines(t *testing.T) {
	s := newSegmenter(t)
	lines := []string{"CASH REBATE", "card 1234", "CASH REBATE", "GIRO"}
	assert.Equal(t, []int{0, 3}, s.Headers(lines))
}

func TestHeaders_OnlyMarkersAreSuppressed(t *testing.T) {
	s := newSegmenter(t)
	lines := []string{"GIRO", "GIRO"}
	assert.Equal(t, []int{0, 1}, s.Headers(lines))
}

func TestSegment(t *testing.T) {
	s := newSegmenter(t)
	lines := []string{
		"stray",
		"FAST PAYMENT\nto JOHN",
		"GIRO - SALARY",
		"ACME PTE LTD",
		"CASH REBATE",
		"CASH REBATE",
		"CHEQUE DEPOSIT",
	}
	blocks := s.Segment(lines)
	require.Len(t, blocks, 4)

	assert.Equal(t, 1, blocks[0].Index)
	assert.Equal(t, "FAST PAYMENT\nto JOHN", blocks[0].Text())
	assert.Equal(t, "FAST PAYMENT", blocks[0].Header())

	assert.Equal(t, "GIRO - SALARY\nACME PTE LTD", blocks[1].Text())
	assert.Equal(t, "CASH REBATE\nCASH REBATE", blocks[2].Text())
	assert.Equal(t, "CHEQUE DEPOSIT", blocks[3].Header())
	assert.Equal(t, 6, blocks[3].Index)
}

func TestSegment_Empty(t *testing.T) {
	s := newSegmenter(t)
	assert.Empty(t, s.Segment(nil))
	assert.Empty(t, s.Segment([]string{"no header here"}))
	assert.Equal(t, "", Block{}.Header())
}

func TestNew_BadPattern(t *testing.T) {
	cfg := config.Default()
	cfg.HeaderPatterns = []string{"("}
	_, err := New(cfg)
	assert.Error(t, err)
}
