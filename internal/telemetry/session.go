package telemetry

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/revenium/gemini-meter/internal/clock"
)

// TestSessionPrefix starts every synthetic session id.
const TestSessionPrefix = "test-"

// NewSessionID returns "test-<base36 unix ms>-<8 hex chars>".
func NewSessionID(clk clock.Clock) string {
	ms := clock.OrReal(clk).Now().UnixMilli()
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return TestSessionPrefix + strconv.FormatInt(ms, 36) + "-" + random
}
