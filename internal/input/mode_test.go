package input_test

import (
	"testing"

	"github.com/flplima/tmuxy/internal/input"
	"github.com/flplima/tmuxy/internal/pane"
)

// ============================================================================
// Classification Precedence
// ============================================================================

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		mouseAny  bool
		alternate bool
		class     input.EventClass
		shift     bool
		want      input.RoutingMode
	}{
		{
			name:  "plain click passes through",
			class: input.EventClick,
			want:  input.ModePassThrough,
		},
		{
			name:  "plain wheel scrolls locally",
			class: input.EventWheel,
			want:  input.ModeCopyLocal,
		},
		{
			name:  "plain drag selects locally",
			class: input.EventDrag,
			want:  input.ModeCopyLocal,
		},
		{
			name:  "double click selects locally",
			class: input.EventDoubleClick,
			want:  input.ModeCopyLocal,
		},
		{
			name:  "shift click focuses",
			class: input.EventClick,
			shift: true,
			want:  input.ModeFocus,
		},
		{
			name:     "shift click beats mouse protocol",
			mouseAny: true,
			class:    input.EventClick,
			shift:    true,
			want:     input.ModeFocus,
		},
		{
			name:     "shift wheel does not focus",
			mouseAny: true,
			class:    input.EventWheel,
			shift:    true,
			want:     input.ModeMouseProtocol,
		},
		{
			name:     "mouse protocol claims clicks",
			mouseAny: true,
			class:    input.EventClick,
			want:     input.ModeMouseProtocol,
		},
		{
			name:     "mouse protocol claims wheel",
			mouseAny: true,
			class:    input.EventWheel,
			want:     input.ModeMouseProtocol,
		},
		{
			name:      "mouse protocol beats alternate screen",
			mouseAny:  true,
			alternate: true,
			class:     input.EventWheel,
			want:      input.ModeMouseProtocol,
		},
		{
			name:      "alternate screen converts wheel to keys",
			alternate: true,
			class:     input.EventWheel,
			want:      input.ModeAlternateKeys,
		},
		{
			name:      "alternate screen ignores plain clicks",
			alternate: true,
			class:     input.EventClick,
			want:      input.ModePassThrough,
		},
		{
			name:      "alternate screen still selects on drag",
			alternate: true,
			class:     input.EventDrag,
			want:      input.ModeCopyLocal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &pane.Pane{
				ID:           "%0",
				Width:        80,
				Height:       24,
				MouseAnyFlag: tt.mouseAny,
				AlternateOn:  tt.alternate,
			}
			got := input.Classify(p, tt.class, tt.shift)
			if got != tt.want {
				t.Errorf("Classify(%v, shift=%v) = %v, want %v",
					tt.class, tt.shift, got, tt.want)
			}
		})
	}
}
