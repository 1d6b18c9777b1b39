package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	state := NewState()

	next, message, ok := state.Submit("  When are exams?  ")
	require.True(t, ok)
	assert.Equal(t, "When are exams?", message)
	assert.Equal(t, StatusSending, next.Status)
	assert.Equal(t, []ChatTurn{{Content: "When are exams?", Role: RoleUser}}, next.Transcript)
	assert.Empty(t, state.Transcript, "original state must not change")
}

func TestSubmitRejectsBlankInput(t *testing.T) {
	state := NewState()

	next, _, ok := state.Submit(" \n\t ")
	assert.False(t, ok)
	assert.Equal(t, state, next)
}

func TestSubmitWhileSendingIsDropped(t *testing.T) {
	sending, _, ok := NewState().Submit("first")
	require.True(t, ok)

	next, _, ok := sending.Submit("second")
	assert.False(t, ok)
	assert.Equal(t, StatusSending, next.Status)
	assert.Len(t, next.Transcript, 1)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    string
	}{
		{name: "reply", outcome: Reply("Gate closes at 10 PM."), want: "Gate closes at 10 PM."},
		{name: "failure", outcome: Failure("something broke"), want: "Sorry, something broke"},
		{name: "transport", outcome: TransportError(), want: ConnectionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sending, _, _ := NewState().Submit("hi")
			next := sending.Resolve(tt.outcome)

			assert.Equal(t, StatusIdle, next.Status)
			require.Len(t, next.Transcript, 2)
			assert.Equal(t, ChatTurn{Content: tt.want, Role: RoleBot}, next.Transcript[1])
		})
	}
}

func TestClampInput(t *testing.T) {
	state := NewState()

	next, clamped := state.ClampInput(strings.Repeat("a", 800))
	assert.Len(t, clamped, MaxInputLength)
	require.Len(t, next.Transcript, 1)
	assert.Equal(t, ChatTurn{Content: TruncationNotice, Role: RoleBot}, next.Transcript[0])

	again, same := next.ClampInput(clamped)
	assert.Equal(t, clamped, same)
	assert.Len(t, again.Transcript, 1, "notice is appended once")
}

func TestClampInputCountsCharacters(t *testing.T) {
	input := strings.Repeat("é", MaxInputLength)

	next, clamped := NewState().ClampInput(input)
	assert.Equal(t, input, clamped)
	assert.Empty(t, next.Transcript)
}

func TestControls(t *testing.T) {
	assert.Equal(t, Controls{SubmitLabel: "Send"}, NewState().Controls())

	sending, _, _ := NewState().Submit("hi")
	assert.Equal(t, Controls{InputDisabled: true, SubmitDisabled: true, SubmitLabel: "Sending..."}, sending.Controls())
}

func TestRenderTurn(t *testing.T) {
	assert.Equal(t, "<strong>You:</strong> hello", RenderTurn(ChatTurn{Content: "hello", Role: RoleUser}))
	assert.Equal(t,
		"<strong>Bot:</strong> line one<br><br>&lt;b&gt;two&lt;/b&gt;",
		RenderTurn(ChatTurn{Content: "line one\n\n<b>two</b>", Role: RoleBot}),
	)
}
