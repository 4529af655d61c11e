// File: api/schemas/anchors_test.go
package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackChainOrder(t *testing.T) {
	assert.Equal(t, []LocatorStrategy{StrategyCss, StrategyAriaAx, StrategyText}, FallbackChain())
}

func TestLocatorStrategyValid(t *testing.T) {
	assert.True(t, StrategyCss.Valid())
	assert.True(t, StrategyAriaAx.Valid())
	assert.True(t, StrategyText.Valid())
	assert.False(t, LocatorStrategy("xpath").Valid())
	assert.False(t, LocatorStrategy("").Valid())
}

func TestAnchorKey(t *testing.T) {
	tests := []struct {
		name   string
		anchor AnchorDescriptor
		want   string
	}{
		{"css", CSSAnchor("#submit"), "css:#submit"},
		{"aria", AriaAnchor("button", "Submit"), "aria:button/Submit"},
		{"aria role only", AriaAnchor("navigation", ""), "aria:navigation/"},
		{"text", TextAnchor("Continue"), "text:Continue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.anchor.Key())
			assert.Equal(t, tt.want, tt.anchor.String())
		})
	}
}

func TestAnchorKeyIsStructural(t *testing.T) {
	// Two independently constructed but structurally identical anchors must
	// collapse onto the same key.
	a := AriaAnchor("button", "Submit")
	b := AnchorDescriptor{Strategy: StrategyAriaAx, Role: "button", Value: "Submit"}
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, a, b)
}

func TestAnchorIsZero(t *testing.T) {
	assert.True(t, AnchorDescriptor{Strategy: StrategyCss}.IsZero())
	assert.False(t, CSSAnchor("#x").IsZero())
	assert.False(t, AriaAnchor("button", "").IsZero())
}

func TestExecRouteString(t *testing.T) {
	assert.Equal(t, "sess", ExecRoute{SessionID: "sess"}.String())
	assert.Equal(t, "sess/tgt", ExecRoute{SessionID: "sess", TargetID: "tgt"}.String())
	assert.Equal(t, "sess/tgt/frm", ExecRoute{SessionID: "sess", TargetID: "tgt", FrameID: "frm"}.String())
}

func TestActionError(t *testing.T) {
	cause := errors.New("socket closed")
	err := NewActionError(ErrCodeCdpIo, "transport failed", cause)

	assert.Equal(t, "CDP_IO: transport failed", err.Error())
	assert.ErrorIs(t, err, cause)

	var ae *ActionError
	require.ErrorAs(t, error(err), &ae)
	assert.Equal(t, ErrCodeCdpIo, ae.Code)

	bare := NewActionError(ErrCodeInternal, "", nil)
	assert.Equal(t, "INTERNAL", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
