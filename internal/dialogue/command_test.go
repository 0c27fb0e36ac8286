package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsvox/internal/ai"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Command
	}{
		{"start", nil, Command{Kind: CmdStart}},
		{"Pause", nil, Command{Kind: CmdTogglePause}},
		{"lang", []string{"hi-IN"}, Command{Kind: CmdLanguage, Text: "hi-IN"}},
		{"say", []string{"latest", "news"}, Command{Kind: CmdSay, Text: "latest news"}},
		{"summarize", []string{"2"}, Command{Kind: CmdAI, Op: ai.OpSummarize, Index: 1}},
		{"keypoints", []string{"1"}, Command{Kind: CmdAI, Op: ai.OpKeyPoints, Index: 0}},
		{"ask", []string{"3", "who", "won?"}, Command{Kind: CmdAI, Op: ai.OpAsk, Index: 2, Text: "who won?"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.name, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	for _, c := range []struct {
		name string
		args []string
	}{
		{"dance", nil},
		{"lang", nil},
		{"say", []string{" "}},
		{"summarize", nil},
		{"sentiment", []string{"0"}},
		{"ask", []string{"1"}},
	} {
		_, err := ParseCommand(c.name, c.args)
		assert.Error(t, err, c.name)
	}
}
